// Package repository - единственная точка доступа к записям задач.
// Все ошибки хранилища переводятся здесь в *Error с кодами
// INVALID_ARGUMENT, NOT_FOUND и PERSISTENCE_ERROR.
package repository

import (
	"context"
	"errors"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/metrics"
	"todoTracker/internal/models/task"
	"todoTracker/internal/store"

	"go.uber.org/zap"
)

type TaskRepository struct {
	store      store.DocumentStore
	collection string
}

func NewTaskRepository(s store.DocumentStore) *TaskRepository {
	return &TaskRepository{
		store:      s,
		collection: task.Collection,
	}
}

// fail логирует исходную ошибку и возвращает стабильную
func (r *TaskRepository) fail(op, id string, err *Error) *Error {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("error_code", err.Code),
	}
	if id != "" {
		fields = append(fields, zap.String("task_id", id))
	}

	switch err.Code {
	case CodePersistence:
		logger.Error("Repository: Ошибка хранилища", err.Cause(), fields...)
	default:
		logger.Warn("Repository: Операция отклонена", fields...)
	}

	metrics.RepositoryOperations.WithLabelValues(op, err.Code).Inc()
	return err
}

func observe(op string, start time.Time) {
	metrics.RepositoryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func succeed(op string) {
	metrics.RepositoryOperations.WithLabelValues(op, "OK").Inc()
}

func (r *TaskRepository) HealthCheck(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return r.fail("health_check", "", NewPersistence("health_check", err))
	}
	return nil
}

// Create сохраняет черновик; id назначает хранилище, hasOverDue всегда false,
// пустой статус становится Pending. Обязательные поля проверяет вызывающий.
func (r *TaskRepository) Create(ctx context.Context, draft task.Draft) (string, error) {
	const op = "create"
	defer observe(op, time.Now())

	id, err := r.store.Insert(ctx, r.collection, draftToRecord(draft))
	if err != nil {
		return "", r.fail(op, "", NewPersistence(op, err))
	}

	succeed(op)
	logger.Info("Repository: Задача создана", zap.String("task_id", id))
	return id, nil
}

// List возвращает все задачи целиком или ошибку, порядок не определён
func (r *TaskRepository) List(ctx context.Context) ([]*task.Task, error) {
	const op = "list"
	defer observe(op, time.Now())

	docs, err := r.store.FetchAll(ctx, r.collection)
	if err != nil {
		return nil, r.fail(op, "", NewPersistence(op, err))
	}

	tasks := make([]*task.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := recordToTask(doc.ID, doc.Record)
		if err != nil {
			return nil, r.fail(op, doc.ID, NewPersistence(op, err))
		}
		tasks = append(tasks, t)
	}

	succeed(op)
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*task.Task, error) {
	const op = "get_by_id"
	defer observe(op, time.Now())

	if id == "" {
		return nil, r.fail(op, id, NewInvalidArgument("id", "id не может быть пустым"))
	}

	record, ok, err := r.store.FetchOne(ctx, r.collection, id)
	if err != nil {
		return nil, r.fail(op, id, NewPersistence(op, err))
	}
	if !ok {
		return nil, r.fail(op, id, NewNotFound(id))
	}

	t, err := recordToTask(id, record)
	if err != nil {
		return nil, r.fail(op, id, NewPersistence(op, err))
	}

	succeed(op)
	return t, nil
}

// Update сливает переданные поля с документом, остальные поля не трогает
func (r *TaskRepository) Update(ctx context.Context, id string, fields task.Fields) error {
	const op = "update"
	defer observe(op, time.Now())

	if id == "" {
		return r.fail(op, id, NewInvalidArgument("id", "id не может быть пустым"))
	}
	if fields.IsEmpty() {
		return r.fail(op, id, NewInvalidArgument("fields", "нет полей для обновления"))
	}

	partial, err := fieldsToRecord(fields)
	if err != nil {
		return r.fail(op, id, NewInvalidArgument("fields", err.Error()))
	}

	if err := r.store.Merge(ctx, r.collection, id, partial); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return r.fail(op, id, NewNotFound(id))
		}
		return r.fail(op, id, NewPersistence(op, err))
	}

	succeed(op)
	logger.Info("Repository: Задача обновлена", zap.String("task_id", id), zap.Int("fields", len(partial)))
	return nil
}

// Delete удаляет документ; повторное удаление не идемпотентно и вернёт NOT_FOUND
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	const op = "delete"
	defer observe(op, time.Now())

	if id == "" {
		return r.fail(op, id, NewInvalidArgument("id", "id не может быть пустым"))
	}

	if err := r.store.Remove(ctx, r.collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return r.fail(op, id, NewNotFound(id))
		}
		return r.fail(op, id, NewPersistence(op, err))
	}

	succeed(op)
	logger.Info("Repository: Задача удалена", zap.String("task_id", id))
	return nil
}
