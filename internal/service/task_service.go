package service

import (
	"context"
	"strings"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/ordering"
	"todoTracker/internal/repository"

	"go.uber.org/zap"
)

// здесь собираются сценарии для HTTP и CLI: репозиторий, просрочка и сортировка

type TaskService struct {
	repo    TaskRepository
	overdue OverdueEvaluator
}

func NewTaskService(repo TaskRepository, evaluator OverdueEvaluator) *TaskService {
	return &TaskService{
		repo:    repo,
		overdue: evaluator,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// ValidateDraft проверяет обязательные поля новой задачи.
// Вызывается до открытия запроса на подтверждение.
func ValidateDraft(draft task.Draft) error {
	switch {
	case strings.TrimSpace(draft.TaskName) == "":
		return repository.NewInvalidArgument(task.FieldTaskName, "обязательное поле")
	case draft.DueDate.IsZero():
		return repository.NewInvalidArgument(task.FieldDueDate, "обязательное поле")
	case strings.TrimSpace(draft.Priority) == "":
		return repository.NewInvalidArgument(task.FieldPriority, "обязательное поле")
	case strings.TrimSpace(draft.Description) == "":
		return repository.NewInvalidArgument(task.FieldDescription, "обязательное поле")
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, draft task.Draft) (string, error) {
	if err := ValidateDraft(draft); err != nil {
		logger.Warn("Service: Черновик задачи отклонён", zap.Error(err))
		return "", err
	}
	return s.repo.Create(ctx, draft)
}

// ListTasks возвращает все задачи; sortField "dueDate" сортирует по сроку
func (s *TaskService) ListTasks(ctx context.Context, sortField string) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ordering.OrderByDate(tasks, sortField), nil
}

// GetTaskByID читает задачу и проверяет просрочку. Ошибка проверки только логируется.
func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.overdue == nil {
		return t, nil
	}

	marked, err := s.overdue.Evaluate(ctx, t.ID, t.DueDate, t.Status)
	if err != nil {
		logger.Warn("Service: Не удалось отметить просрочку",
			zap.String("task_id", t.ID),
			zap.Error(err))
		return t, nil
	}
	if marked {
		t.HasOverDue = true
	}
	return t, nil
}

// UpdateTask применяет частичное обновление. Пустой набор полей отклоняет репозиторий.
func (s *TaskService) UpdateTask(ctx context.Context, id string, opts ...task.FieldOption) error {
	return s.repo.Update(ctx, id, task.NewFields(opts...))
}

func (s *TaskService) RescheduleTask(ctx context.Context, id string, dueDate time.Time) error {
	if dueDate.IsZero() {
		return repository.NewInvalidArgument(task.FieldDueDate, "обязательное поле")
	}
	return s.UpdateTask(ctx, id, task.WithDueDate(dueDate))
}

func (s *TaskService) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	if strings.TrimSpace(string(status)) == "" {
		return repository.NewInvalidArgument(task.FieldStatus, "обязательное поле")
	}
	return s.UpdateTask(ctx, id, task.WithStatus(status))
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
