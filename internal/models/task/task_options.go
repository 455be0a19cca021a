package task

import (
	"time"
)

// Fields - частичное обновление документа: имя поля -> новое значение
type Fields map[string]any

type FieldOption func(Fields)

// NewFields собирает частичное обновление, nil-опции пропускаются
func NewFields(opts ...FieldOption) Fields {
	fields := Fields{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(fields)
	}
	return fields
}

func (f Fields) IsEmpty() bool {
	return len(f) == 0
}

func WithTaskName(name string) FieldOption {
	if name == "" {
		return nil
	}
	return func(f Fields) {
		f[FieldTaskName] = name
	}
}

func WithDescription(description string) FieldOption {
	if description == "" {
		return nil
	}
	return func(f Fields) {
		f[FieldDescription] = description
	}
}

func WithPriority(priority string) FieldOption {
	if priority == "" {
		return nil
	}
	return func(f Fields) {
		f[FieldPriority] = priority
	}
}

func WithStatus(status Status) FieldOption {
	if status == "" {
		return nil
	}
	return func(f Fields) {
		f[FieldStatus] = string(status)
	}
}

func WithDueDate(dueDate time.Time) FieldOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(f Fields) {
		f[FieldDueDate] = dueDate
	}
}

func WithOverDue(overdue bool) FieldOption {
	return func(f Fields) {
		f[FieldHasOverDue] = overdue
	}
}
