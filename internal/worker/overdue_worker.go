package worker

import (
	"context"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"

	"go.uber.org/zap"
)

type TaskLister interface {
	List(ctx context.Context) ([]*task.Task, error)
}

type OverdueEvaluator interface {
	Evaluate(ctx context.Context, id string, dueDate time.Time, status task.Status) (bool, error)
}

const (
	DefaultBatchSize = 100
)

// OverdueWorker периодически проходит по задачам и помечает просроченные.
// Включается только при interval > 0, чтение задачи по id делает то же самое.
type OverdueWorker struct {
	repo      TaskLister
	evaluator OverdueEvaluator
	interval  time.Duration
	batchSize int
}

// SweepResult - итог одного прохода
type SweepResult struct {
	Checked int
	Marked  int
	Failed  int
}

func NewOverdueWorker(repo TaskLister, evaluator OverdueEvaluator, interval time.Duration, batchSize int) *OverdueWorker {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &OverdueWorker{
		repo:      repo,
		evaluator: evaluator,
		interval:  interval,
		batchSize: batchSize,
	}
}

func (w *OverdueWorker) Enabled() bool {
	return w.interval > 0
}

// Start блокируется до отмены ctx
func (w *OverdueWorker) Start(ctx context.Context) {
	if !w.Enabled() {
		logger.Info("Worker: Фоновая проверка просрочки отключена")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Фоновая проверка просрочки запущена", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: Ошибка получения задач", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Check делает один проход. За проход помечается не больше batchSize задач,
// остальные достанутся следующему тику.
func (w *OverdueWorker) Check(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	var res SweepResult

	tasks, err := w.repo.List(ctx)
	if err != nil {
		return res, fmt.Errorf("получение задач: %w", err)
	}

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		if t.HasOverDue || t.Status == task.StatusCompleted {
			continue
		}
		res.Checked++

		marked, err := w.evaluator.Evaluate(ctx, t.ID, t.DueDate, t.Status)
		if err != nil {
			res.Failed++
			logger.Warn("Worker: Ошибка обновления задачи", zap.String("task_id", t.ID), zap.Error(err))
			continue
		}
		if marked {
			res.Marked++
		}
		if res.Marked >= w.batchSize {
			break
		}
	}

	logger.Info("Worker: Завершение проверки задач",
		zap.Duration("duration", time.Since(start)),
		zap.Int("checked", res.Checked),
		zap.Int("overdue", res.Marked),
		zap.Int("failed", res.Failed))
	return res, nil
}
