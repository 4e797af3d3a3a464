package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agencyos/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// cronTickerInterval is the interval at which the cron loop checks for execution
const cronTickerInterval = 1 * time.Minute

// PortalSchedulerConfig holds configuration for the portal's background scheduler
type PortalSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// CronHour is the hour (0-23) to run the nightly score refresh
	CronHour int
	// CronMinute is the minute (0-59) to run the nightly score refresh
	CronMinute int
	// ScoreCronSchedule is the cron expression (parsed to extract hour/minute)
	ScoreCronSchedule string
	// AutomationInterval is how often due enrollments are polled
	AutomationInterval time.Duration
	// JobTimeout is the maximum time a single job can run
	JobTimeout time.Duration
	// MaxConcurrentJobs is the maximum number of concurrent jobs
	MaxConcurrentJobs int
	// RetryAttempts is the number of retry attempts for failed jobs
	RetryAttempts int
	// RetryDelay is the delay between retries
	RetryDelay time.Duration
}

// DefaultPortalSchedulerConfig returns default scheduler configuration.
// The score refresh defaults to 3:00 AM daily; automation polls every minute.
func DefaultPortalSchedulerConfig() PortalSchedulerConfig {
	return PortalSchedulerConfig{
		Enabled:            true,
		CronHour:           3,
		CronMinute:         0,
		ScoreCronSchedule:  "0 3 * * *",
		AutomationInterval: 1 * time.Minute,
		JobTimeout:         10 * time.Minute,
		MaxConcurrentJobs:  2,
		RetryAttempts:      3,
		RetryDelay:         2 * time.Minute,
	}
}

// PortalSchedulerConfigFrom builds a scheduler config from the application configuration
func PortalSchedulerConfigFrom(cfg config.SchedulerConfig) PortalSchedulerConfig {
	out := DefaultPortalSchedulerConfig()
	out.Enabled = cfg.Enabled
	if cfg.ScoreCronSchedule != "" {
		out.ScoreCronSchedule = cfg.ScoreCronSchedule
		if hour, minute, err := ParseCronSchedule(cfg.ScoreCronSchedule); err == nil {
			out.CronHour = hour
			out.CronMinute = minute
		}
	}
	if cfg.AutomationInterval > 0 {
		out.AutomationInterval = cfg.AutomationInterval
	}
	if cfg.JobTimeout > 0 {
		out.JobTimeout = cfg.JobTimeout
	}
	return out
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute.
// Returns defaults (3:00) if parsing fails or expression is empty.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	// Default values
	hour = 3
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	// Use strings.Fields for simple whitespace splitting
	parts := strings.Fields(cronExpr)

	if len(parts) < 2 {
		return hour, minute, nil
	}

	// Parse minute
	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}

	// Parse hour
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 3); parseErr == nil {
			hour = val
		}
	}

	// Validate ranges
	if minute < 0 || minute > 59 {
		return 3, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 3, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// SchedulerJobRecord represents a record of a scheduled job execution
type SchedulerJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Kind        string     `gorm:"column:kind;size:50;not null"`
	Status      string     `gorm:"column:last_run_status;size:20"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   *time.Time `gorm:"column:last_run_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (SchedulerJobRecord) TableName() string {
	return "scheduler_jobs"
}

// SchedulerJobRepository handles persistence of scheduler job records
type SchedulerJobRepository struct {
	db *gorm.DB
}

// NewSchedulerJobRepository creates a new SchedulerJobRepository
func NewSchedulerJobRepository(db *gorm.DB) *SchedulerJobRepository {
	return &SchedulerJobRepository{db: db}
}

// RecordJobStart records the start of a job execution
func (r *SchedulerJobRepository) RecordJobStart(ctx context.Context, kind JobKind) (uuid.UUID, error) {
	now := time.Now()
	record := &SchedulerJobRecord{
		ID:        uuid.New(),
		Kind:      string(kind),
		Status:    string(JobStatusRunning),
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordJobComplete records the completion of a job
func (r *SchedulerJobRepository) RecordJobComplete(ctx context.Context, jobID uuid.UUID, success bool, errMsg string) error {
	now := time.Now()
	status := string(JobStatusSuccess)
	if !success {
		status = string(JobStatusFailed)
	}
	return r.db.WithContext(ctx).
		Model(&SchedulerJobRecord{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"last_run_status": status,
			"last_error":      errMsg,
			"completed_at":    now,
			"updated_at":      now,
		}).Error
}

// GetLastJobStatus gets the last job record for a job kind
func (r *SchedulerJobRepository) GetLastJobStatus(ctx context.Context, kind JobKind) (*SchedulerJobRecord, error) {
	var record SchedulerJobRecord
	if err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("last_run_at DESC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// PortalScheduler drives the portal's two recurring jobs: the nightly
// engagement score refresh and the automation enrollment poll.
type PortalScheduler struct {
	config    PortalSchedulerConfig
	executor  JobExecutor
	jobRepo   *SchedulerJobRepository
	logger    *zap.Logger
	scheduler *Scheduler

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Last execution tracking for the score refresh
	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewPortalScheduler creates a new portal scheduler
func NewPortalScheduler(
	config PortalSchedulerConfig,
	executor JobExecutor,
	jobRepo *SchedulerJobRepository,
	logger *zap.Logger,
) *PortalScheduler {
	schedulerConfig := SchedulerConfig{
		Enabled:           config.Enabled,
		MaxConcurrentJobs: config.MaxConcurrentJobs,
		JobTimeout:        config.JobTimeout,
		RetryAttempts:     config.RetryAttempts,
		RetryDelay:        config.RetryDelay,
	}
	scheduler := NewScheduler(schedulerConfig, executor, logger)

	return &PortalScheduler{
		config:    config,
		executor:  executor,
		jobRepo:   jobRepo,
		logger:    logger,
		scheduler: scheduler,
	}
}

// Start starts the scheduler and its trigger loops
func (s *PortalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	// Start the underlying job scheduler
	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Calculate next run time
	s.calculateNextRunTime()

	// Start the cron and automation loops
	s.wg.Add(2)
	go s.cronLoop(ctx)
	go s.automationLoop(ctx)

	s.logger.Info("Portal scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Duration("automation_interval", s.config.AutomationInterval),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the scheduler
func (s *PortalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	// Cancel the trigger loops
	if s.cancel != nil {
		s.cancel()
	}

	// Wait for loops to finish
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Now stop the underlying scheduler
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("Error stopping underlying scheduler", zap.Error(err))
		}
		s.logger.Info("Portal scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Portal scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the nightly score refresh trigger
func (s *PortalScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	// Use a ticker that checks every minute for cron execution
	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runScoreRefresh(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// automationLoop polls for due automation enrollments
func (s *PortalScheduler) automationLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.AutomationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Automation ticks are cheap when nothing is due; failures
			// surface on the next tick so no retries are configured.
			job := NewJob(JobKindAutomationTick, 0)
			if err := s.scheduler.SubmitJob(job); err != nil {
				s.logger.Warn("Failed to submit automation tick", zap.Error(err))
			}
		}
	}
}

// shouldRun checks if the score refresh should run at the given time
func (s *PortalScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next score refresh time
func (s *PortalScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	// If we've already passed today's run time, schedule for tomorrow
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runScoreRefresh submits the nightly score refresh job
func (s *PortalScheduler) runScoreRefresh(ctx context.Context) {
	s.logger.Info("Starting nightly score refresh")

	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	// Record job start
	var jobID uuid.UUID
	if s.jobRepo != nil {
		var recordErr error
		jobID, recordErr = s.jobRepo.RecordJobStart(ctx, JobKindScoreRefresh)
		if recordErr != nil {
			s.logger.Warn("Failed to record job start", zap.Error(recordErr))
		}
	}

	job := NewJob(JobKindScoreRefresh, s.config.RetryAttempts)
	if err := s.scheduler.SubmitJob(job); err != nil {
		s.logger.Error("Failed to submit score refresh job", zap.Error(err))
		if s.jobRepo != nil && jobID != uuid.Nil {
			_ = s.jobRepo.RecordJobComplete(ctx, jobID, false, err.Error())
		}
	}
}

// TriggerScoreRefresh triggers a manual score refresh.
// Uses a fresh job so it does not disturb the nightly schedule.
func (s *PortalScheduler) TriggerScoreRefresh(force bool) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	job := NewJob(JobKindScoreRefresh, s.config.RetryAttempts)
	job.Force = force
	return s.scheduler.SubmitJob(job)
}

// GetStatus returns the current status of the scheduler
func (s *PortalScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":             s.config.Enabled,
		"is_running":          s.isRunning,
		"cron_hour":           s.config.CronHour,
		"cron_minute":         s.config.CronMinute,
		"automation_interval": s.config.AutomationInterval.String(),
		"last_run_at":         s.lastRunAt,
		"next_run_at":         s.nextRunAt,
	}
}

// GetNextRunAt returns when the next score refresh will occur
func (s *PortalScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last score refresh occurred
func (s *PortalScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
