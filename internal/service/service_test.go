package service_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/repository"
	"todoTracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, draft task.Draft) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id string, fields task.Fields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockEvaluator - мок проверки просрочки
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, id string, dueDate time.Time, status task.Status) (bool, error) {
	args := m.Called(ctx, id, dueDate, status)
	return args.Bool(0), args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validDraft() task.Draft {
	return task.Draft{
		TaskName:    "Купить молоко",
		DueDate:     day(2024, 5, 1),
		Priority:    task.PriorityHigh,
		Description: "2 литра",
	}
}

// TestTaskService_HealthCheck тестирует HealthCheck
func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(repository.NewPersistence("health_check", errors.New("db down")))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo, new(MockEvaluator))
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.ErrorIs(t, err, repository.ErrPersistence)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_CreateTask тестирует создание задачи
func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mutate        func(*task.Draft)
		invalidField  string
		expectRepoHit bool
	}{
		{name: "success - valid draft", mutate: func(*task.Draft) {}, expectRepoHit: true},
		{name: "error - empty name", mutate: func(d *task.Draft) { d.TaskName = "  " }, invalidField: task.FieldTaskName},
		{name: "error - no due date", mutate: func(d *task.Draft) { d.DueDate = time.Time{} }, invalidField: task.FieldDueDate},
		{name: "error - no priority", mutate: func(d *task.Draft) { d.Priority = "" }, invalidField: task.FieldPriority},
		{name: "error - no description", mutate: func(d *task.Draft) { d.Description = "" }, invalidField: task.FieldDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			mockRepo := new(MockTaskRepository)
			if tt.expectRepoHit {
				mockRepo.On("Create", mock.Anything, draft).Return("task-1", nil)
			}

			svc := service.NewTaskService(mockRepo, new(MockEvaluator))
			id, err := svc.CreateTask(ctx, draft)

			if tt.expectRepoHit {
				require.NoError(t, err)
				assert.Equal(t, "task-1", id)
			} else {
				assert.ErrorIs(t, err, repository.ErrInvalidArgument)
				var repoErr *repository.Error
				require.ErrorAs(t, err, &repoErr)
				assert.Equal(t, tt.invalidField, repoErr.Details["field"])
				assert.Empty(t, id)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_ListTasks тестирует список и сортировку
func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	stored := []*task.Task{
		{ID: "a", DueDate: day(2024, 5, 10)},
		{ID: "b", DueDate: day(2024, 5, 1)},
		{ID: "c", DueDate: day(2024, 5, 10)},
	}

	t.Run("sorted by due date", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything).Return(stored, nil)

		tasks, err := service.NewTaskService(mockRepo, nil).ListTasks(ctx, task.FieldDueDate)

		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "b", tasks[0].ID)
		assert.Equal(t, "a", tasks[1].ID)
		assert.Equal(t, "c", tasks[2].ID)
	})

	t.Run("unsorted keeps repository order", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything).Return(stored, nil)

		tasks, err := service.NewTaskService(mockRepo, nil).ListTasks(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, stored, tasks)
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything).Return(nil, repository.NewPersistence("list", errors.New("timeout")))

		tasks, err := service.NewTaskService(mockRepo, nil).ListTasks(ctx, task.FieldDueDate)

		assert.ErrorIs(t, err, repository.ErrPersistence)
		assert.Nil(t, tasks)
	})
}

// TestTaskService_GetTaskByID тестирует чтение задачи с проверкой просрочки
func TestTaskService_GetTaskByID(t *testing.T) {
	ctx := context.Background()

	newTask := func() *task.Task {
		return &task.Task{ID: "task-1", DueDate: day(2024, 5, 1), Status: task.StatusPending}
	}

	tests := []struct {
		name            string
		setupMocks      func(*MockTaskRepository, *MockEvaluator)
		expectedErr     error
		expectedOverDue bool
	}{
		{
			name: "marked overdue",
			setupMocks: func(r *MockTaskRepository, e *MockEvaluator) {
				r.On("GetByID", mock.Anything, "task-1").Return(newTask(), nil)
				e.On("Evaluate", mock.Anything, "task-1", day(2024, 5, 1), task.StatusPending).Return(true, nil)
			},
			expectedOverDue: true,
		},
		{
			name: "not overdue",
			setupMocks: func(r *MockTaskRepository, e *MockEvaluator) {
				r.On("GetByID", mock.Anything, "task-1").Return(newTask(), nil)
				e.On("Evaluate", mock.Anything, "task-1", day(2024, 5, 1), task.StatusPending).Return(false, nil)
			},
		},
		{
			name: "evaluator error is swallowed",
			setupMocks: func(r *MockTaskRepository, e *MockEvaluator) {
				r.On("GetByID", mock.Anything, "task-1").Return(newTask(), nil)
				e.On("Evaluate", mock.Anything, "task-1", day(2024, 5, 1), task.StatusPending).Return(false, errors.New("write failed"))
			},
		},
		{
			name: "not found",
			setupMocks: func(r *MockTaskRepository, e *MockEvaluator) {
				r.On("GetByID", mock.Anything, "task-1").Return(nil, repository.NewNotFound("task-1"))
			},
			expectedErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockEval := new(MockEvaluator)
			tt.setupMocks(mockRepo, mockEval)

			result, err := service.NewTaskService(mockRepo, mockEval).GetTaskByID(ctx, "task-1")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, result)
				mockEval.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedOverDue, result.HasOverDue)
			}
			mockRepo.AssertExpectations(t)
			mockEval.AssertExpectations(t)
		})
	}
}

// TestTaskService_UpdateTask тестирует частичное обновление
func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("only given fields are sent", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, "task-1", task.Fields{
			task.FieldTaskName: "Новое имя",
			task.FieldPriority: task.PriorityLow,
		}).Return(nil)

		err := service.NewTaskService(mockRepo, nil).UpdateTask(ctx, "task-1",
			task.WithTaskName("Новое имя"),
			task.WithDescription(""),
			task.WithPriority(task.PriorityLow))

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty update is rejected by repository", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, "task-1", task.Fields{}).
			Return(repository.NewInvalidArgument("fields", "пустое обновление"))

		err := service.NewTaskService(mockRepo, nil).UpdateTask(ctx, "task-1")

		assert.ErrorIs(t, err, repository.ErrInvalidArgument)
	})
}

func TestTaskService_RescheduleTask(t *testing.T) {
	ctx := context.Background()
	due := day(2024, 7, 1)

	mockRepo := new(MockTaskRepository)
	mockRepo.On("Update", mock.Anything, "task-1", task.Fields{task.FieldDueDate: due}).Return(nil)
	svc := service.NewTaskService(mockRepo, nil)

	assert.NoError(t, svc.RescheduleTask(ctx, "task-1", due))
	assert.ErrorIs(t, svc.RescheduleTask(ctx, "task-1", time.Time{}), repository.ErrInvalidArgument)
	mockRepo.AssertNumberOfCalls(t, "Update", 1)
}

// TestTaskService_UpdateStatus фиксирует, что завершение задачи не снимает hasOverDue
func TestTaskService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("Update", mock.Anything, "task-1", task.Fields{task.FieldStatus: "Completed"}).Return(nil)
	svc := service.NewTaskService(mockRepo, nil)

	assert.NoError(t, svc.UpdateStatus(ctx, "task-1", task.StatusCompleted))
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "task-1", ""), repository.ErrInvalidArgument)
	mockRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("Delete", mock.Anything, "task-1").Return(nil).Once()
	mockRepo.On("Delete", mock.Anything, "task-1").Return(repository.NewNotFound("task-1")).Once()
	svc := service.NewTaskService(mockRepo, nil)

	assert.NoError(t, svc.DeleteTask(ctx, "task-1"))
	assert.ErrorIs(t, svc.DeleteTask(ctx, "task-1"), repository.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
