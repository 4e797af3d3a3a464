// Package scheduler runs the portal's background work: cron-driven
// score refreshes and the automation tick, executed on a bounded worker
// pool with per-job timeout and retry.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus tracks a job through its lifecycle.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// JobKind names the background work a job carries.
type JobKind string

const (
	// JobKindScoreRefresh recalculates engagement scores for active deals.
	JobKindScoreRefresh JobKind = "score_refresh"
	// JobKindAutomationTick advances due automation enrollments.
	JobKindAutomationTick JobKind = "automation_tick"
)

const queueCapacity = 100

// Job is one unit of background work plus its execution state.
type Job struct {
	ID          uuid.UUID
	Kind        JobKind
	Force       bool // score refresh only: ignore unchanged engagement
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob mints a pending job.
func NewJob(kind JobKind, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Kind:       kind,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func stamp() *time.Time {
	now := time.Now()
	return &now
}

// Start marks the job running and clears any previous failure.
func (j *Job) Start() {
	j.Status = JobStatusRunning
	j.StartedAt = stamp()
	j.Error = ""
}

// Complete marks the job successful.
func (j *Job) Complete() {
	j.Status = JobStatusSuccess
	j.CompletedAt = stamp()
}

// Fail marks the job failed with the given message.
func (j *Job) Fail(errMsg string) {
	j.Status = JobStatusFailed
	j.CompletedAt = stamp()
	j.Error = errMsg
}

// ShouldRetry reports whether a failed job has retry budget left.
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry resets the job to pending with a not-before time.
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	next := time.Now().Add(delay)
	j.NextRetryAt = &next
	j.Error = ""
}

// JobExecutor runs one job. Implementations dispatch on Job.Kind.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SchedulerConfig sizes the pool and bounds execution.
type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig runs two workers with a 10-minute job timeout,
// which covers a full-pipeline score refresh with room to spare.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 2,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        2 * time.Minute,
	}
}

// Scheduler feeds submitted jobs to a fixed pool of workers.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	queue   chan *Job
	cancel  context.CancelFunc
	workers sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler builds a stopped scheduler; call Start to spin up workers.
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		queue:    make(chan *Job, queueCapacity),
	}
}

// Start launches the worker pool. Starting twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.workers.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Background scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop drains the workers, waiting up to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.cancel()
	close(s.queue)

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Background scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Background scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob enqueues a job without blocking; a full queue is an error
// the caller decides how to handle.
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return ErrSchedulerNotRunning
	}

	select {
	case s.queue <- job:
		s.logger.Debug("Job submitted", jobFields(job, -1)...)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func jobFields(job *Job, workerID int) []zap.Field {
	fields := []zap.Field{
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
	}
	if workerID >= 0 {
		fields = append(fields, zap.Int("worker_id", workerID))
	}
	return fields
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.workers.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.queue:
			if !ok {
				return
			}
			// A retry that is not due yet goes back on the queue.
			if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
				s.requeue(job)
				continue
			}
			s.run(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job *Job, workerID int) {
	job.Start()
	s.logger.Info("Processing job", jobFields(job, workerID)...)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		s.logger.Error("Job failed", append(jobFields(job, workerID), zap.Error(err))...)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			s.requeue(job)
		}
		return
	}

	job.Complete()
	s.logger.Info("Job completed", jobFields(job, workerID)...)
}

func (s *Scheduler) requeue(job *Job) {
	select {
	case s.queue <- job:
	default:
		s.logger.Warn("Failed to re-queue job", zap.String("job_id", job.ID.String()))
	}
}
