package automation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	flow, err := NewFlow("Proposal Follow-up", "Nudges after a proposal goes out")
	require.NoError(t, err)
	return flow
}

func activeFlowWithSteps(t *testing.T, delays ...time.Duration) *Flow {
	t.Helper()
	flow := newTestFlow(t)
	for _, d := range delays {
		_, err := flow.AddStep(uuid.New(), d)
		require.NoError(t, err)
	}
	require.NoError(t, flow.Activate())
	return flow
}

func TestNewFlow(t *testing.T) {
	flow := newTestFlow(t)
	assert.Equal(t, FlowStatusDraft, flow.Status)
	assert.Equal(t, 0, flow.StepCount())

	_, err := NewFlow("", "")
	assert.Error(t, err)
}

func TestFlowSteps(t *testing.T) {
	t.Run("steps are appended in order", func(t *testing.T) {
		flow := newTestFlow(t)
		s1, err := flow.AddStep(uuid.New(), 0)
		require.NoError(t, err)
		s2, err := flow.AddStep(uuid.New(), 48*time.Hour)
		require.NoError(t, err)

		assert.Equal(t, 0, s1.Position)
		assert.Equal(t, 1, s2.Position)
	})

	t.Run("remove renumbers", func(t *testing.T) {
		flow := newTestFlow(t)
		s1, _ := flow.AddStep(uuid.New(), 0)
		_, _ = flow.AddStep(uuid.New(), time.Hour)
		s3, _ := flow.AddStep(uuid.New(), 2*time.Hour)

		require.NoError(t, flow.RemoveStep(s1.ID))
		assert.Equal(t, 2, flow.StepCount())
		assert.Equal(t, 1, flow.StepAt(1).Position)
		assert.Equal(t, s3.ID, flow.StepAt(1).ID)
	})

	t.Run("rejects negative delay", func(t *testing.T) {
		flow := newTestFlow(t)
		_, err := flow.AddStep(uuid.New(), -time.Hour)
		assert.Error(t, err)
	})

	t.Run("active flows are locked", func(t *testing.T) {
		flow := activeFlowWithSteps(t, 0)
		_, err := flow.AddStep(uuid.New(), 0)
		assert.Error(t, err)
		assert.Error(t, flow.RemoveStep(flow.StepAt(0).ID))
		assert.Error(t, flow.UpdateStepDelay(flow.StepAt(0).ID, time.Hour))
	})

	t.Run("paused flows can be edited", func(t *testing.T) {
		flow := activeFlowWithSteps(t, 0)
		require.NoError(t, flow.Pause())
		require.NoError(t, flow.UpdateStepDelay(flow.StepAt(0).ID, 24*time.Hour))
		assert.Equal(t, 24*time.Hour, flow.StepAt(0).Delay)
	})
}

func TestFlowActivation(t *testing.T) {
	t.Run("requires steps", func(t *testing.T) {
		flow := newTestFlow(t)
		assert.Error(t, flow.Activate())
	})

	t.Run("activate pause resume", func(t *testing.T) {
		flow := newTestFlow(t)
		_, err := flow.AddStep(uuid.New(), 0)
		require.NoError(t, err)

		require.NoError(t, flow.Activate())
		assert.True(t, flow.IsActive())

		require.NoError(t, flow.Pause())
		assert.Equal(t, FlowStatusPaused, flow.Status)

		require.NoError(t, flow.Activate())
		assert.True(t, flow.IsActive())
	})

	t.Run("invalid transitions", func(t *testing.T) {
		flow := newTestFlow(t)
		assert.Error(t, flow.Pause())
	})
}

func TestNewEnrollment(t *testing.T) {
	now := time.Now()

	t.Run("schedules first step", func(t *testing.T) {
		flow := activeFlowWithSteps(t, 24*time.Hour, 48*time.Hour)
		enrollment, err := NewEnrollment(flow, uuid.New(), now)
		require.NoError(t, err)

		assert.Equal(t, EnrollmentStatusActive, enrollment.Status)
		assert.Equal(t, 0, enrollment.CurrentStep)
		require.NotNil(t, enrollment.NextRunAt)
		assert.Equal(t, now.Add(24*time.Hour), *enrollment.NextRunAt)
	})

	t.Run("rejects inactive flow", func(t *testing.T) {
		flow := newTestFlow(t)
		_, err := flow.AddStep(uuid.New(), 0)
		require.NoError(t, err)

		_, err = NewEnrollment(flow, uuid.New(), now)
		assert.Error(t, err)
	})
}

func TestEnrollmentAdvance(t *testing.T) {
	now := time.Now()

	t.Run("advances through steps then completes", func(t *testing.T) {
		flow := activeFlowWithSteps(t, 0, 72*time.Hour)
		enrollment, err := NewEnrollment(flow, uuid.New(), now)
		require.NoError(t, err)
		assert.True(t, enrollment.IsDue(now))

		require.NoError(t, enrollment.Advance(flow, now))
		assert.Equal(t, 1, enrollment.CurrentStep)
		assert.Equal(t, now.Add(72*time.Hour), *enrollment.NextRunAt)
		assert.False(t, enrollment.IsDue(now))

		later := now.Add(73 * time.Hour)
		require.NoError(t, enrollment.Advance(flow, later))
		assert.Equal(t, EnrollmentStatusCompleted, enrollment.Status)
		assert.Nil(t, enrollment.NextRunAt)
		assert.NotNil(t, enrollment.CompletedAt)
	})

	t.Run("rejects mismatched flow", func(t *testing.T) {
		flow := activeFlowWithSteps(t, 0)
		other := activeFlowWithSteps(t, 0)
		enrollment, err := NewEnrollment(flow, uuid.New(), now)
		require.NoError(t, err)

		assert.Error(t, enrollment.Advance(other, now))
	})

	t.Run("completed enrollments stay put", func(t *testing.T) {
		flow := activeFlowWithSteps(t, 0)
		enrollment, err := NewEnrollment(flow, uuid.New(), now)
		require.NoError(t, err)
		require.NoError(t, enrollment.Advance(flow, now))

		assert.Error(t, enrollment.Advance(flow, now))
	})
}

func TestEnrollmentSendFailure(t *testing.T) {
	now := time.Now()
	flow := activeFlowWithSteps(t, 0, time.Hour)
	enrollment, err := NewEnrollment(flow, uuid.New(), now)
	require.NoError(t, err)

	require.NoError(t, enrollment.MarkSendFailed("smtp timeout", now))
	assert.Equal(t, 0, enrollment.CurrentStep)
	assert.Equal(t, "smtp timeout", enrollment.LastError)
	assert.Equal(t, now.Add(SendRetryInterval), *enrollment.NextRunAt)

	// a later successful advance clears the error
	require.NoError(t, enrollment.Advance(flow, now.Add(2*SendRetryInterval)))
	assert.Empty(t, enrollment.LastError)
}

func TestEnrollmentCancel(t *testing.T) {
	now := time.Now()
	flow := activeFlowWithSteps(t, time.Hour)
	enrollment, err := NewEnrollment(flow, uuid.New(), now)
	require.NoError(t, err)

	require.NoError(t, enrollment.Cancel())
	assert.Equal(t, EnrollmentStatusCancelled, enrollment.Status)
	assert.Nil(t, enrollment.NextRunAt)
	assert.False(t, enrollment.IsDue(now.Add(2*time.Hour)))

	assert.Error(t, enrollment.Cancel())
}
