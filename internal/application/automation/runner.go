package automation

import (
	"context"
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/content"
	"go.uber.org/zap"
)

// EmailSender is the outbound port the runner uses to deliver step emails
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DefaultRunnerBatchSize caps how many due enrollments one pass picks up
const DefaultRunnerBatchSize = 50

// Runner advances due enrollments: it resolves the current step's template,
// sends the email, and moves the enrollment forward. Failed sends are
// retried on the next pass; they never abort the whole batch.
type Runner struct {
	flowRepo       automation.FlowRepository
	enrollmentRepo automation.EnrollmentRepository
	templateRepo   content.TemplateRepository
	clientRepo     client.ClientRepository
	sender         EmailSender
	logger         *zap.Logger
	batchSize      int
}

// NewRunner creates a new automation Runner
func NewRunner(
	flowRepo automation.FlowRepository,
	enrollmentRepo automation.EnrollmentRepository,
	templateRepo content.TemplateRepository,
	clientRepo client.ClientRepository,
	sender EmailSender,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		flowRepo:       flowRepo,
		enrollmentRepo: enrollmentRepo,
		templateRepo:   templateRepo,
		clientRepo:     clientRepo,
		sender:         sender,
		logger:         logger,
		batchSize:      DefaultRunnerBatchSize,
	}
}

// RunOnce processes one batch of due enrollments
func (r *Runner) RunOnce(ctx context.Context) (*RunReport, error) {
	now := time.Now()

	due, err := r.enrollmentRepo.FindDue(ctx, now, r.batchSize)
	if err != nil {
		return nil, err
	}

	report := &RunReport{Due: len(due)}

	for i := range due {
		if err := ctx.Err(); err != nil {
			break
		}

		enrollment := &due[i]
		if err := r.processEnrollment(ctx, enrollment, now, report); err != nil {
			report.Failed++
			r.logger.Warn("automation step failed",
				zap.String("enrollment_id", enrollment.ID.String()),
				zap.Int("step", enrollment.CurrentStep),
				zap.Error(err))

			if markErr := enrollment.MarkSendFailed(err.Error(), now); markErr == nil {
				if saveErr := r.enrollmentRepo.Save(ctx, enrollment); saveErr != nil {
					r.logger.Error("failed to persist retry schedule",
						zap.String("enrollment_id", enrollment.ID.String()),
						zap.Error(saveErr))
				}
			}
		}
	}

	if report.Due > 0 {
		r.logger.Info("automation pass finished",
			zap.Int("due", report.Due),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
			zap.Int("completed", report.Completed))
	}

	return report, nil
}

func (r *Runner) processEnrollment(ctx context.Context, enrollment *automation.Enrollment, now time.Time, report *RunReport) error {
	flow, err := r.flowRepo.FindByID(ctx, enrollment.FlowID)
	if err != nil {
		return err
	}

	// Paused flows hold their enrollments in place until resumed
	if !flow.IsActive() {
		return nil
	}

	step := flow.StepAt(enrollment.CurrentStep)
	if step == nil {
		// step was removed while the flow was paused; complete the run
		if err := enrollment.Advance(flow, now); err != nil {
			return err
		}
		report.Completed++
		return r.enrollmentRepo.Save(ctx, enrollment)
	}

	template, err := r.templateRepo.FindByID(ctx, step.TemplateID)
	if err != nil {
		return err
	}

	c, err := r.clientRepo.FindByID(ctx, enrollment.ClientID)
	if err != nil {
		return err
	}

	if err := r.sender.Send(ctx, c.Email, template.Subject, template.Body); err != nil {
		return err
	}
	report.Sent++

	if err := enrollment.Advance(flow, now); err != nil {
		return err
	}
	if !enrollment.IsActive() {
		report.Completed++
	}

	return r.enrollmentRepo.Save(ctx, enrollment)
}
