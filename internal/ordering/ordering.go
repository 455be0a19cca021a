package ordering

import (
	"slices"
	"time"
	"todoTracker/internal/models/task"
)

// dateFields - поля задачи, по которым можно сортировать
var dateFields = map[string]func(*task.Task) time.Time{
	task.FieldDueDate: func(t *task.Task) time.Time { return t.DueDate },
}

// OrderByDate возвращает задачи по возрастанию даты из поля dateField.
// Пустой или nil вход, пустое или неизвестное поле - вход возвращается как есть.
// Сортировка стабильная и идёт по копии, исходный срез не меняется.
func OrderByDate(tasks []*task.Task, dateField string) []*task.Task {
	if len(tasks) == 0 || dateField == "" {
		return tasks
	}

	dateOf, ok := dateFields[dateField]
	if !ok {
		return tasks
	}

	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b *task.Task) int {
		return dateOf(a).Compare(dateOf(b))
	})
	return sorted
}

// IsDateField сообщает, поддерживается ли сортировка по полю
func IsDateField(name string) bool {
	_, ok := dateFields[name]
	return ok
}
