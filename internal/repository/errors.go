package repository

import (
	"fmt"
)

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodePersistence     = "PERSISTENCE_ERROR"
)

// Error - стабильная ошибка репозитория, которую можно показать пользователю.
// Исходная ошибка хранилища доступна только через Cause и в текст не попадает.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	cause   error
}

// эталоны для errors.Is, сравнение идёт по коду
var (
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrPersistence     = &Error{Code: CodePersistence}
)

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) Cause() error {
	return e.cause
}

func NewInvalidArgument(field, reason string) *Error {
	return &Error{
		Code:    CodeInvalidArgument,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewNotFound(id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("задача %s не найдена", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewPersistence(operation string, cause error) *Error {
	return &Error{
		Code:    CodePersistence,
		Message: "Не удалось выполнить операцию. Попробуйте позже.",
		Details: map[string]any{
			"operation": operation,
		},
		cause: cause,
	}
}
