package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	"todoTracker/internal/models/task"
	"todoTracker/internal/overdue"
	"todoTracker/internal/repository"
	"todoTracker/internal/store/inmemory"
	"todoTracker/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) List(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

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

// TestOverdueWorker_CheckWithStore прогоняет проход по реальному репозиторию в памяти
func TestOverdueWorker_CheckWithStore(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTaskRepository(inmemory.New())

	pastID, err := repo.Create(ctx, task.Draft{TaskName: "старая", DueDate: day(2024, 5, 1), Priority: task.PriorityLow, Description: "a"})
	require.NoError(t, err)
	doneID, err := repo.Create(ctx, task.Draft{TaskName: "сделана", DueDate: day(2024, 5, 1), Priority: task.PriorityLow, Description: "b", Status: task.StatusCompleted})
	require.NoError(t, err)
	futureID, err := repo.Create(ctx, task.Draft{TaskName: "будущая", DueDate: day(2024, 7, 1), Priority: task.PriorityLow, Description: "c"})
	require.NoError(t, err)

	evaluator := overdue.NewEvaluator(repo).WithClock(func() time.Time { return day(2024, 6, 1) })
	w := worker.NewOverdueWorker(repo, evaluator, time.Minute, 0)

	res, err := w.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, worker.SweepResult{Checked: 2, Marked: 1}, res)

	for id, expected := range map[string]bool{pastID: true, doneID: false, futureID: false} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, expected, got.HasOverDue, id)
	}

	// второй проход пропускает уже помеченные
	res, err = w.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, worker.SweepResult{Checked: 1}, res)
}

func TestOverdueWorker_CheckBatchLimit(t *testing.T) {
	ctx := context.Background()
	tasks := []*task.Task{
		{ID: "1", DueDate: day(2024, 5, 1), Status: task.StatusPending},
		{ID: "2", DueDate: day(2024, 5, 2), Status: task.StatusPending},
		{ID: "3", DueDate: day(2024, 5, 3), Status: task.StatusPending},
	}

	lister := new(MockLister)
	lister.On("List", mock.Anything).Return(tasks, nil)
	eval := new(MockEvaluator)
	eval.On("Evaluate", mock.Anything, mock.Anything, mock.Anything, task.StatusPending).Return(true, nil)

	res, err := worker.NewOverdueWorker(lister, eval, time.Minute, 2).Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Marked)
	eval.AssertNumberOfCalls(t, "Evaluate", 2)
}

func TestOverdueWorker_CheckContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	tasks := []*task.Task{
		{ID: "1", DueDate: day(2024, 5, 1), Status: task.StatusPending},
		{ID: "2", DueDate: day(2024, 5, 2), Status: task.StatusPending},
	}

	lister := new(MockLister)
	lister.On("List", mock.Anything).Return(tasks, nil)
	eval := new(MockEvaluator)
	eval.On("Evaluate", mock.Anything, "1", mock.Anything, mock.Anything).Return(false, errors.New("write failed"))
	eval.On("Evaluate", mock.Anything, "2", mock.Anything, mock.Anything).Return(true, nil)

	res, err := worker.NewOverdueWorker(lister, eval, time.Minute, 10).Check(ctx)

	require.NoError(t, err)
	assert.Equal(t, worker.SweepResult{Checked: 2, Marked: 1, Failed: 1}, res)
}

func TestOverdueWorker_CheckListFailure(t *testing.T) {
	lister := new(MockLister)
	lister.On("List", mock.Anything).Return(nil, repository.NewPersistence("list", errors.New("timeout")))

	_, err := worker.NewOverdueWorker(lister, new(MockEvaluator), time.Minute, 10).Check(context.Background())

	assert.ErrorIs(t, err, repository.ErrPersistence)
}

func TestOverdueWorker_DisabledReturnsImmediately(t *testing.T) {
	w := worker.NewOverdueWorker(new(MockLister), new(MockEvaluator), 0, 10)
	assert.False(t, w.Enabled())

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled worker did not return")
	}
}

func TestOverdueWorker_StartStopsOnCancel(t *testing.T) {
	var ticks atomic.Int32
	lister := new(MockLister)
	lister.On("List", mock.Anything).Return([]*task.Task{}, nil).Run(func(mock.Arguments) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	w := worker.NewOverdueWorker(lister, new(MockEvaluator), 5*time.Millisecond, 10)

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return ticks.Load() > 0
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
