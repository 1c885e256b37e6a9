package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting a run to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrRunActive is returned when a reconciliation run is already in progress
	ErrRunActive = errors.New("a reconciliation run is already in progress")

	// ErrRunNotFound is returned when a run is not found in history
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
