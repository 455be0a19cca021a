package service

import (
	"context"
	"time"
	"todoTracker/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, draft task.Draft) (string, error)
	List(ctx context.Context) ([]*task.Task, error)
	GetByID(ctx context.Context, id string) (*task.Task, error)
	Update(ctx context.Context, id string, fields task.Fields) error
	Delete(ctx context.Context, id string) error
}

type OverdueEvaluator interface {
	Evaluate(ctx context.Context, id string, dueDate time.Time, status task.Status) (bool, error)
}
