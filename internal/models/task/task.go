package task

import (
	"fmt"
	"time"
)

type Task struct {
	ID          string    `json:"id" mapstructure:"-"`
	TaskName    string    `json:"taskName" mapstructure:"taskName"`
	DueDate     time.Time `json:"dueDate" mapstructure:"dueDate"`
	Priority    string    `json:"priority" mapstructure:"priority"`
	Description string    `json:"description" mapstructure:"description"`
	Status      Status    `json:"status" mapstructure:"status"`
	HasOverDue  bool      `json:"hasOverDue" mapstructure:"hasOverDue"`
}

// Draft - задача до сохранения, id назначает хранилище
type Draft struct {
	TaskName    string
	DueDate     time.Time
	Priority    string
	Description string
	Status      Status
}

type Status string

const StatusPending Status = "Pending"
const StatusCompleted Status = "Completed"

// приоритеты, которые предлагает интерфейс; хранилище принимает любую строку
const PriorityLow = "Low"
const PriorityMedium = "Medium"
const PriorityHigh = "High"

// имена полей документа в коллекции
const (
	FieldTaskName    = "taskName"
	FieldDueDate     = "dueDate"
	FieldPriority    = "priority"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldHasOverDue  = "hasOverDue"
)

// Collection - единственная коллекция, в которой живут задачи
const Collection = "tasks"

// DateLayouts - форматы срока: RFC 3339 и просто дата
var DateLayouts = []string{time.RFC3339, time.DateOnly}

// ParseDate разбирает срок в одном из DateLayouts; дата без времени считается UTC
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("не удалось разобрать дату %q", raw)
}
