package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/application/reconcile"
)

// ---------------------------------------------------------------------------
// Run Types
// ---------------------------------------------------------------------------

// RunStatus represents the status of a reconciliation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSuccess   RunStatus = "SUCCESS"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusCancelled RunStatus = "CANCELLED"
)

// Run represents one reconciliation pass over the source documents
type Run struct {
	ID          uuid.UUID
	Config      reconcile.Config
	Status      RunStatus
	Error       string
	SubmittedAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	// Pass results, set on completion
	Stats *reconcile.Stats
}

// NewRun creates a new pending run
func NewRun(cfg reconcile.Config) *Run {
	return &Run{
		ID:          uuid.New(),
		Config:      cfg,
		Status:      RunStatusPending,
		SubmittedAt: time.Now(),
	}
}

// Start marks the run as running
func (r *Run) Start() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
	r.Error = ""
}

// Complete marks the run as successful and records its statistics
func (r *Run) Complete(stats *reconcile.Stats) {
	now := time.Now()
	r.Status = RunStatusSuccess
	r.CompletedAt = &now
	r.Stats = stats
}

// Fail marks the run as failed
func (r *Run) Fail(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.CompletedAt = &now
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *Run) Cancel() {
	now := time.Now()
	r.Status = RunStatusCancelled
	r.CompletedAt = &now
}

// Done reports whether the run reached a terminal status
func (r *Run) Done() bool {
	switch r.Status {
	case RunStatusSuccess, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// snapshot returns a copy safe to hand out while the run mutates
func (r *Run) snapshot() *Run {
	cp := *r
	return &cp
}

// ---------------------------------------------------------------------------
// PassExecutor Interface
// ---------------------------------------------------------------------------

// PassExecutor executes a reconciliation pass
type PassExecutor interface {
	Execute(ctx context.Context, cfg reconcile.Config) (*reconcile.Stats, error)
}

// ---------------------------------------------------------------------------
// RunSchedulerConfig
// ---------------------------------------------------------------------------

// RunSchedulerConfig holds configuration for the run scheduler
type RunSchedulerConfig struct {
	// RunTimeout is the maximum time a pass can run
	RunTimeout time.Duration
	// MaxHistory is the number of completed runs kept for inspection
	MaxHistory int
}

// DefaultRunSchedulerConfig returns default configuration
func DefaultRunSchedulerConfig() RunSchedulerConfig {
	return RunSchedulerConfig{
		RunTimeout: 2 * time.Hour,
		MaxHistory: 20,
	}
}

// Validate validates the configuration
func (c *RunSchedulerConfig) Validate() error {
	if c.RunTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.MaxHistory <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// RunScheduler
// ---------------------------------------------------------------------------

// RunScheduler hosts reconciliation passes. At most one run is active at a
// time; passes mutate shared catalog state and must not interleave.
type RunScheduler struct {
	config   RunSchedulerConfig
	executor PassExecutor
	logger   *zap.Logger

	mu        sync.Mutex
	isRunning bool
	active    *Run
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	historyMu sync.RWMutex
	history   []*Run
}

// NewRunScheduler creates a new run scheduler
func NewRunScheduler(config RunSchedulerConfig, executor PassExecutor, logger *zap.Logger) (*RunScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RunScheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		history:  make([]*Run, 0, config.MaxHistory),
	}, nil
}

// Start starts the scheduler
func (s *RunScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	s.logger.Info("Run scheduler started",
		zap.Duration("run_timeout", s.config.RunTimeout),
		zap.Int("max_history", s.config.MaxHistory),
	)
	return nil
}

// Stop cancels the active run, if any, and waits for it to wind down
func (s *RunScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Run scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Run scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit starts a reconciliation run. Returns ErrRunActive when a pass is
// already in flight.
func (s *RunScheduler) Submit(ctx context.Context, cfg reconcile.Config) (*Run, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil, ErrSchedulerNotRunning
	}
	if s.active != nil && !s.active.Done() {
		s.mu.Unlock()
		return nil, ErrRunActive
	}

	run := NewRun(cfg)
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	s.active = run
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.execute(runCtx, cancel, run)

	s.logger.Info("Reconciliation run submitted",
		zap.String("run_id", run.ID.String()),
		zap.Bool("full_pass", cfg.FullPass),
	)
	return run.snapshot(), nil
}

// CancelActive cancels the active run. Returns ErrRunNotFound when nothing
// is in flight.
func (s *RunScheduler) CancelActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.Done() {
		return ErrRunNotFound
	}
	s.cancel()
	return nil
}

// ActiveRun returns a snapshot of the run in flight, or nil
func (s *RunScheduler) ActiveRun() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.Done() {
		return nil
	}
	return s.active.snapshot()
}

// GetRun returns a run by ID from the active slot or history
func (s *RunScheduler) GetRun(id uuid.UUID) (*Run, error) {
	s.mu.Lock()
	if s.active != nil && s.active.ID == id {
		run := s.active.snapshot()
		s.mu.Unlock()
		return run, nil
	}
	s.mu.Unlock()

	s.historyMu.RLock()
	defer s.historyMu.RUnlock()
	for _, run := range s.history {
		if run.ID == id {
			return run.snapshot(), nil
		}
	}
	return nil, ErrRunNotFound
}

// History returns recent completed runs, newest first
func (s *RunScheduler) History(limit int) []*Run {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	result := make([]*Run, limit)
	for i := 0; i < limit; i++ {
		result[i] = s.history[i].snapshot()
	}
	return result
}

// execute drives one pass to completion
func (s *RunScheduler) execute(ctx context.Context, cancel context.CancelFunc, run *Run) {
	defer s.wg.Done()
	defer cancel()

	s.locked(func() { run.Start() })
	s.logger.Info("Reconciliation run started",
		zap.String("run_id", run.ID.String()),
	)

	stats, err := s.executor.Execute(ctx, run.Config)
	switch {
	case err == nil:
		s.locked(func() { run.Complete(stats) })
		s.logger.Info("Reconciliation run completed",
			zap.String("run_id", run.ID.String()),
			zap.Int("sheets_processed", statsSheets(stats)),
		)
	case ctx.Err() != nil:
		s.locked(func() {
			run.Stats = stats
			run.Cancel()
		})
		s.logger.Warn("Reconciliation run cancelled",
			zap.String("run_id", run.ID.String()),
			zap.NamedError("cause", ctx.Err()),
		)
	default:
		s.locked(func() {
			run.Stats = stats
			run.Fail(err.Error())
		})
		s.logger.Error("Reconciliation run failed",
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
	}

	s.addToHistory(run)
}

// locked mutates the active run under the scheduler lock so snapshots stay
// consistent
func (s *RunScheduler) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func statsSheets(stats *reconcile.Stats) int {
	if stats == nil {
		return 0
	}
	return stats.SheetsProcessed
}

// addToHistory adds a completed run to history, newest first
func (s *RunScheduler) addToHistory(run *Run) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*Run{run}, s.history...)
	if len(s.history) > s.config.MaxHistory {
		s.history = s.history[:s.config.MaxHistory]
	}
}
