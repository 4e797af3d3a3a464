package scheduler

import (
	"context"
	"fmt"

	autoapp "github.com/agencyos/backend/internal/application/automation"
	pipelineapp "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/agencyos/backend/internal/domain/pipeline"
	"go.uber.org/zap"
)

// ScoreRefreshService recalculates engagement scores for all active deals.
// Satisfied by the pipeline scorer service.
type ScoreRefreshService interface {
	RecalculateAllActive(ctx context.Context, trigger pipeline.TriggerSource, force bool) (*pipelineapp.BulkRecalcResponse, error)
}

// AutomationRunService processes due automation enrollments.
// Satisfied by the automation runner.
type AutomationRunService interface {
	RunOnce(ctx context.Context) (*autoapp.RunReport, error)
}

// PortalJobExecutor dispatches scheduler jobs to the application services
type PortalJobExecutor struct {
	scorer ScoreRefreshService
	runner AutomationRunService
	logger *zap.Logger
}

// NewPortalJobExecutor creates a new PortalJobExecutor
func NewPortalJobExecutor(scorer ScoreRefreshService, runner AutomationRunService, logger *zap.Logger) *PortalJobExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalJobExecutor{
		scorer: scorer,
		runner: runner,
		logger: logger,
	}
}

// Execute runs a single job based on its kind
func (e *PortalJobExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case JobKindScoreRefresh:
		return e.executeScoreRefresh(ctx, job)
	case JobKindAutomationTick:
		return e.executeAutomationTick(ctx)
	default:
		return fmt.Errorf("unknown job kind: %s", job.Kind)
	}
}

func (e *PortalJobExecutor) executeScoreRefresh(ctx context.Context, job *Job) error {
	result, err := e.scorer.RecalculateAllActive(ctx, pipeline.TriggerCron, job.Force)
	if err != nil {
		return fmt.Errorf("score refresh failed: %w", err)
	}

	e.logger.Info("Score refresh completed",
		zap.String("job_id", job.ID.String()),
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return nil
}

func (e *PortalJobExecutor) executeAutomationTick(ctx context.Context) error {
	report, err := e.runner.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("automation run failed: %w", err)
	}

	if report.Due > 0 {
		e.logger.Info("Automation run completed",
			zap.Int("due", report.Due),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
			zap.Int("completed", report.Completed),
		)
	}
	return nil
}
