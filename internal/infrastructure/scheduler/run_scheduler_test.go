package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/application/reconcile"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// fakeExecutor lets tests control how a pass ends
type fakeExecutor struct {
	calls   atomic.Int32
	stats   *reconcile.Stats
	err     error
	block   chan struct{} // when set, Execute waits for close or cancellation
	started chan struct{}
}

func (f *fakeExecutor) Execute(ctx context.Context, cfg reconcile.Config) (*reconcile.Stats, error) {
	f.calls.Add(1)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.stats, f.err
}

func newTestScheduler(t *testing.T, executor PassExecutor) *RunScheduler {
	t.Helper()
	s, err := NewRunScheduler(DefaultRunSchedulerConfig(), executor, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func waitForRun(t *testing.T, s *RunScheduler, id uuid.UUID) *Run {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		runs := s.History(0)
		for _, run := range runs {
			if run.ID == id {
				return run
			}
		}
		select {
		case <-deadline:
			t.Fatal("run did not complete in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewRun(t *testing.T) {
	run := NewRun(reconcile.Config{FullPass: true})

	assert.Equal(t, RunStatusPending, run.Status)
	assert.True(t, run.Config.FullPass)
	assert.Nil(t, run.StartedAt)
	assert.Nil(t, run.CompletedAt)
	assert.False(t, run.Done())
}

func TestRunLifecycle(t *testing.T) {
	run := NewRun(reconcile.Config{})

	run.Start()
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.NotNil(t, run.StartedAt)
	assert.False(t, run.Done())

	run.Complete(&reconcile.Stats{SheetsProcessed: 7})
	assert.Equal(t, RunStatusSuccess, run.Status)
	assert.NotNil(t, run.CompletedAt)
	assert.Equal(t, 7, run.Stats.SheetsProcessed)
	assert.True(t, run.Done())
}

func TestRunFail(t *testing.T) {
	run := NewRun(reconcile.Config{})
	run.Start()
	run.Fail("source unavailable")

	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "source unavailable", run.Error)
	assert.True(t, run.Done())
}

func TestRunSchedulerConfig_Validate(t *testing.T) {
	cfg := DefaultRunSchedulerConfig()
	assert.NoError(t, cfg.Validate())

	cfg.RunTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultRunSchedulerConfig()
	cfg.MaxHistory = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestRunScheduler_SubmitCompletes(t *testing.T) {
	executor := &fakeExecutor{stats: &reconcile.Stats{SheetsProcessed: 3, OrdersCreated: 2}}
	s := newTestScheduler(t, executor)

	run, err := s.Submit(context.Background(), reconcile.Config{})
	require.NoError(t, err)

	done := waitForRun(t, s, run.ID)
	assert.Equal(t, RunStatusSuccess, done.Status)
	assert.Equal(t, 3, done.Stats.SheetsProcessed)
	assert.Equal(t, 2, done.Stats.OrdersCreated)
	assert.Equal(t, int32(1), executor.calls.Load())
}

func TestRunScheduler_SubmitFailure(t *testing.T) {
	executor := &fakeExecutor{err: errors.New("worksheet fetch failed")}
	s := newTestScheduler(t, executor)

	run, err := s.Submit(context.Background(), reconcile.Config{})
	require.NoError(t, err)

	done := waitForRun(t, s, run.ID)
	assert.Equal(t, RunStatusFailed, done.Status)
	assert.Equal(t, "worksheet fetch failed", done.Error)
}

func TestRunScheduler_RejectsConcurrentRuns(t *testing.T) {
	executor := &fakeExecutor{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s := newTestScheduler(t, executor)

	first, err := s.Submit(context.Background(), reconcile.Config{})
	require.NoError(t, err)
	<-executor.started

	_, err = s.Submit(context.Background(), reconcile.Config{})
	assert.ErrorIs(t, err, ErrRunActive)

	active := s.ActiveRun()
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)

	close(executor.block)
	done := waitForRun(t, s, first.ID)
	assert.Equal(t, RunStatusSuccess, done.Status)

	// After completion a new run is accepted again
	executor.block = nil
	executor.started = nil
	_, err = s.Submit(context.Background(), reconcile.Config{})
	assert.NoError(t, err)
}

func TestRunScheduler_CancelActive(t *testing.T) {
	executor := &fakeExecutor{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s := newTestScheduler(t, executor)

	run, err := s.Submit(context.Background(), reconcile.Config{})
	require.NoError(t, err)
	<-executor.started

	require.NoError(t, s.CancelActive())

	done := waitForRun(t, s, run.ID)
	assert.Equal(t, RunStatusCancelled, done.Status)
	assert.Nil(t, s.ActiveRun())

	assert.ErrorIs(t, s.CancelActive(), ErrRunNotFound)
}

func TestRunScheduler_GetRun(t *testing.T) {
	executor := &fakeExecutor{stats: &reconcile.Stats{}}
	s := newTestScheduler(t, executor)

	run, err := s.Submit(context.Background(), reconcile.Config{})
	require.NoError(t, err)
	waitForRun(t, s, run.ID)

	found, err := s.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, found.ID)

	_, err = s.GetRun(NewRun(reconcile.Config{}).ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunScheduler_HistoryBounded(t *testing.T) {
	executor := &fakeExecutor{stats: &reconcile.Stats{}}
	cfg := DefaultRunSchedulerConfig()
	cfg.MaxHistory = 2
	s, err := NewRunScheduler(cfg, executor, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	for i := 0; i < 4; i++ {
		run, err := s.Submit(context.Background(), reconcile.Config{})
		require.NoError(t, err)
		waitForRun(t, s, run.ID)
	}

	assert.Len(t, s.History(0), 2)
}

func TestRunScheduler_SubmitWhenStopped(t *testing.T) {
	executor := &fakeExecutor{stats: &reconcile.Stats{}}
	s, err := NewRunScheduler(DefaultRunSchedulerConfig(), executor, newTestLogger())
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), reconcile.Config{})
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}
