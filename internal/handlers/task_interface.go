package handlers

import (
	"context"
	"time"
	"todoTracker/internal/confirm"
	"todoTracker/internal/models/task"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, draft task.Draft) (string, error)
	ListTasks(ctx context.Context, sortField string) ([]*task.Task, error)
	GetTaskByID(ctx context.Context, id string) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, opts ...task.FieldOption) error
	DeleteTask(ctx context.Context, id string) error
}

// PromptRegistry - открытые запросы подтверждения create и delete
type PromptRegistry interface {
	Open(name, question string, action confirm.ResultAction) (string, time.Time, error)
	Confirm(ctx context.Context, id string) (confirm.Resolution, error)
	Cancel(id string) error
}
