package dto_test

import (
	"testing"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestValidate_CreateTaskRequest(t *testing.T) {
	valid := dto.CreateTaskRequest{
		TaskName:    "Купить молоко",
		DueDate:     "2024-05-01",
		Priority:    "High",
		Description: "2 литра",
	}
	assert.Nil(t, dto.Validate(valid))

	errs := dto.Validate(dto.CreateTaskRequest{DueDate: "завтра", Priority: "Urgent"})
	assert.Equal(t, map[string]string{
		"taskName":    "required",
		"dueDate":     "taskdate",
		"priority":    "oneof=Low Medium High",
		"description": "required",
	}, errs)
}

func TestValidate_UpdateTaskRequest(t *testing.T) {
	assert.Nil(t, dto.Validate(dto.UpdateTaskRequest{}))
	assert.Nil(t, dto.Validate(dto.UpdateTaskRequest{Status: ptr("Completed"), DueDate: ptr("2024-07-01T09:00:00Z")}))

	errs := dto.Validate(dto.UpdateTaskRequest{Status: ptr("Done")})
	assert.Equal(t, "oneof=Pending Completed", errs["status"])
}

func TestCreateTaskRequest_ToDraft(t *testing.T) {
	draft, err := dto.CreateTaskRequest{
		TaskName:    "Купить молоко",
		DueDate:     "2024-05-01",
		Priority:    "High",
		Description: "2 литра",
	}.ToDraft()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), draft.DueDate)
	assert.Empty(t, draft.Status)
}

func TestUpdateTaskRequest_Options(t *testing.T) {
	opts, err := dto.UpdateTaskRequest{
		TaskName: ptr(""),
		Status:   ptr("Completed"),
		DueDate:  ptr("2024-07-01"),
	}.Options()
	require.NoError(t, err)

	assert.Equal(t, task.Fields{
		task.FieldStatus:  "Completed",
		task.FieldDueDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}, task.NewFields(opts...))

	opts, err = dto.UpdateTaskRequest{}.Options()
	require.NoError(t, err)
	assert.True(t, task.NewFields(opts...).IsEmpty())
}
