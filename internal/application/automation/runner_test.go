package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type runnerFixture struct {
	runner         *Runner
	flowRepo       *MockFlowRepository
	enrollmentRepo *MockEnrollmentRepository
	templateRepo   *MockTemplateRepository
	clientRepo     *MockClientRepository
	sender         *MockEmailSender
}

func newRunnerFixture() *runnerFixture {
	f := &runnerFixture{
		flowRepo:       new(MockFlowRepository),
		enrollmentRepo: new(MockEnrollmentRepository),
		templateRepo:   new(MockTemplateRepository),
		clientRepo:     new(MockClientRepository),
		sender:         new(MockEmailSender),
	}
	f.runner = NewRunner(f.flowRepo, f.enrollmentRepo, f.templateRepo, f.clientRepo, f.sender, zap.NewNop())
	return f
}

func dueEnrollment(t *testing.T, flow *automation.Flow, clientID uuid.UUID) *automation.Enrollment {
	t.Helper()
	enrollment, err := automation.NewEnrollment(flow, clientID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	return enrollment
}

func TestRunnerSendsDueSteps(t *testing.T) {
	ctx := context.Background()
	f := newRunnerFixture()

	template := approvedEmailTemplate(t)
	flow, err := automation.NewFlow("Proposal Follow-up", "")
	require.NoError(t, err)
	_, err = flow.AddStep(template.ID, 0)
	require.NoError(t, err)
	require.NoError(t, flow.Activate())

	c, err := client.NewClient("Jordan Reyes", "Acme Corp", "jordan@acme.test")
	require.NoError(t, err)

	enrollment := dueEnrollment(t, flow, c.ID)

	f.enrollmentRepo.On("FindDue", ctx, mock.AnythingOfType("time.Time"), DefaultRunnerBatchSize).
		Return([]automation.Enrollment{*enrollment}, nil)
	f.flowRepo.On("FindByID", ctx, flow.ID).Return(flow, nil)
	f.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)
	f.clientRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	f.sender.On("Send", ctx, "jordan@acme.test", "Checking in", "Hi there").Return(nil)
	f.enrollmentRepo.On("Save", ctx, mock.AnythingOfType("*automation.Enrollment")).Return(nil)

	report, err := f.runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Due)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)
	// single-step flow completes after the send
	assert.Equal(t, 1, report.Completed)
}

func TestRunnerRetriesFailedSends(t *testing.T) {
	ctx := context.Background()
	f := newRunnerFixture()

	template := approvedEmailTemplate(t)
	flow, err := automation.NewFlow("Proposal Follow-up", "")
	require.NoError(t, err)
	_, err = flow.AddStep(template.ID, 0)
	require.NoError(t, err)
	require.NoError(t, flow.Activate())

	c, err := client.NewClient("Jordan Reyes", "Acme Corp", "jordan@acme.test")
	require.NoError(t, err)

	enrollment := dueEnrollment(t, flow, c.ID)

	f.enrollmentRepo.On("FindDue", ctx, mock.AnythingOfType("time.Time"), DefaultRunnerBatchSize).
		Return([]automation.Enrollment{*enrollment}, nil)
	f.flowRepo.On("FindByID", ctx, flow.ID).Return(flow, nil)
	f.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)
	f.clientRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	f.sender.On("Send", ctx, "jordan@acme.test", "Checking in", "Hi there").Return(errors.New("smtp timeout"))

	var saved *automation.Enrollment
	f.enrollmentRepo.On("Save", ctx, mock.AnythingOfType("*automation.Enrollment")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*automation.Enrollment) }).
		Return(nil)

	report, err := f.runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Sent)

	require.NotNil(t, saved)
	assert.Equal(t, "smtp timeout", saved.LastError)
	assert.Equal(t, 0, saved.CurrentStep)
	require.NotNil(t, saved.NextRunAt)
	assert.True(t, saved.NextRunAt.After(time.Now()))
}

func TestRunnerHoldsPausedFlows(t *testing.T) {
	ctx := context.Background()
	f := newRunnerFixture()

	template := approvedEmailTemplate(t)
	flow, err := automation.NewFlow("Proposal Follow-up", "")
	require.NoError(t, err)
	_, err = flow.AddStep(template.ID, 0)
	require.NoError(t, err)
	require.NoError(t, flow.Activate())

	enrollment := dueEnrollment(t, flow, uuid.New())
	require.NoError(t, flow.Pause())

	f.enrollmentRepo.On("FindDue", ctx, mock.AnythingOfType("time.Time"), DefaultRunnerBatchSize).
		Return([]automation.Enrollment{*enrollment}, nil)
	f.flowRepo.On("FindByID", ctx, flow.ID).Return(flow, nil)

	report, err := f.runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 0, report.Failed)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
