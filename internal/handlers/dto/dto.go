package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"
	"todoTracker/internal/models/task"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// в ошибках валидации поля называются так же, как в JSON
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("taskdate", func(fl validator.FieldLevel) bool {
		_, err := task.ParseDate(fl.Field().String())
		return err == nil
	})
}

type CreateTaskRequest struct {
	TaskName    string `json:"taskName" validate:"required,max=200"`
	DueDate     string `json:"dueDate" validate:"required,taskdate"`
	Priority    string `json:"priority" validate:"required,oneof=Low Medium High"`
	Description string `json:"description" validate:"required,max=2000"`
}

type UpdateTaskRequest struct {
	TaskName    *string `json:"taskName,omitempty" validate:"omitempty,max=200"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitempty,taskdate"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=Pending Completed"`
}

// Validate возвращает поле -> нарушенное правило, или nil
func Validate(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	res := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		res[fe.Field()] = rule
	}
	return res
}

func (r CreateTaskRequest) ToDraft() (task.Draft, error) {
	due, err := task.ParseDate(r.DueDate)
	if err != nil {
		return task.Draft{}, err
	}
	return task.Draft{
		TaskName:    r.TaskName,
		DueDate:     due,
		Priority:    r.Priority,
		Description: r.Description,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Options переводит запрос в опции частичного обновления; пустые поля пропускаются
func (r UpdateTaskRequest) Options() ([]task.FieldOption, error) {
	opts := []task.FieldOption{
		task.WithTaskName(deref(r.TaskName)),
		task.WithPriority(deref(r.Priority)),
		task.WithDescription(deref(r.Description)),
		task.WithStatus(task.Status(deref(r.Status))),
	}

	if raw := deref(r.DueDate); raw != "" {
		due, err := task.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithDueDate(due))
	}
	return opts, nil
}

type TaskResponse struct {
	ID          string    `json:"id"`
	TaskName    string    `json:"taskName"`
	DueDate     time.Time `json:"dueDate"`
	Priority    string    `json:"priority"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	HasOverDue  bool      `json:"hasOverDue"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		TaskName:    t.TaskName,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Description: t.Description,
		Status:      string(t.Status),
		HasOverDue:  t.HasOverDue,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type PromptResponse struct {
	PromptID  string    `json:"prompt_id"`
	Action    string    `json:"action"`
	Question  string    `json:"question"`
	TaskID    string    `json:"task_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
