package overdue

import (
	"context"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/metrics"
	"todoTracker/internal/models/task"

	"go.uber.org/zap"
)

type TaskUpdater interface {
	Update(ctx context.Context, id string, fields task.Fields) error
}

// Evaluator помечает задачу просроченной, если срок прошёл, а задача не выполнена.
// Флаг только выставляется: перенос срока или завершение задачи его не снимают.
type Evaluator struct {
	repo TaskUpdater
	now  func() time.Time
}

func NewEvaluator(repo TaskUpdater) *Evaluator {
	return &Evaluator{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock подменяет источник текущего времени
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// dayKey обрезает время до календарного дня в UTC: YYYY-MM-DD
func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// IsOverdue - чистая проверка без записи в хранилище
func IsOverdue(dueDate time.Time, status task.Status, now time.Time) bool {
	if dueDate.IsZero() || status == task.StatusCompleted {
		return false
	}
	return dayKey(dueDate) < dayKey(now)
}

// Evaluate возвращает true, если флаг hasOverDue был записан.
// Ошибку записи вызывающий логирует и не пробрасывает дальше.
func (e *Evaluator) Evaluate(ctx context.Context, id string, dueDate time.Time, status task.Status) (bool, error) {
	if !IsOverdue(dueDate, status, e.now()) {
		return false, nil
	}

	if err := e.repo.Update(ctx, id, task.NewFields(task.WithOverDue(true))); err != nil {
		return false, fmt.Errorf("пометка просроченной задачи: %w", err)
	}

	metrics.OverdueMarked.Inc()
	logger.Info("Overdue: Задача помечена просроченной",
		zap.String("task_id", id),
		zap.String("due_date", dayKey(dueDate)))
	return true, nil
}
