package ordering_test

import (
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/ordering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDue(id string, y int, m time.Month, d int) *task.Task {
	return &task.Task{ID: id, DueDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ids(tasks []*task.Task) []string {
	res := make([]string, len(tasks))
	for i, t := range tasks {
		res[i] = t.ID
	}
	return res
}

func TestOrderByDate_DegenerateInput(t *testing.T) {
	assert.Empty(t, ordering.OrderByDate([]*task.Task{}, "dueDate"))
	assert.Nil(t, ordering.OrderByDate(nil, "dueDate"))

	tasks := []*task.Task{withDue("b", 2024, 5, 10), withDue("a", 2024, 5, 1)}
	assert.Equal(t, []string{"b", "a"}, ids(ordering.OrderByDate(tasks, "")))
	assert.Equal(t, []string{"b", "a"}, ids(ordering.OrderByDate(tasks, "createdAt")))
}

// TestOrderByDate_StableTies проверяет, что равные даты сохраняют исходный порядок
func TestOrderByDate_StableTies(t *testing.T) {
	tasks := []*task.Task{
		withDue("first-10", 2024, 5, 10),
		withDue("only-01", 2024, 5, 1),
		withDue("second-10", 2024, 5, 10),
	}

	sorted := ordering.OrderByDate(tasks, "dueDate")

	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"only-01", "first-10", "second-10"}, ids(sorted))
}

func TestOrderByDate_ComparesInstants(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*60*60)
	tasks := []*task.Task{
		{ID: "utc-noon", DueDate: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)},
		// 11:00 UTC
		{ID: "plus3-14", DueDate: time.Date(2024, 5, 10, 14, 0, 0, 0, plus3)},
	}

	assert.Equal(t, []string{"plus3-14", "utc-noon"}, ids(ordering.OrderByDate(tasks, "dueDate")))
}

func TestOrderByDate_DoesNotMutateInput(t *testing.T) {
	tasks := []*task.Task{withDue("late", 2024, 12, 1), withDue("early", 2024, 1, 1)}

	sorted := ordering.OrderByDate(tasks, "dueDate")

	assert.Equal(t, []string{"early", "late"}, ids(sorted))
	assert.Equal(t, []string{"late", "early"}, ids(tasks))
}

func TestIsDateField(t *testing.T) {
	assert.True(t, ordering.IsDateField("dueDate"))
	assert.False(t, ordering.IsDateField("priority"))
}
