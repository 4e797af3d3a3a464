package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning rejects submissions before Start or after Stop.
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull rejects submissions when the queue is at capacity.
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidConfig rejects an unusable scheduler configuration.
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
