package automation

import (
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EnrollmentStatus represents the status of a client's run through a flow
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// IsValid checks if the status is a valid EnrollmentStatus
func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusCancelled:
		return true
	}
	return false
}

// SendRetryInterval is how long the runner waits before retrying a step
// whose send failed.
const SendRetryInterval = time.Hour

// Enrollment tracks one client stepping through an automation flow.
// CurrentStep is the next step due to fire; NextRunAt is when.
type Enrollment struct {
	shared.BaseAggregateRoot
	FlowID      uuid.UUID
	ClientID    uuid.UUID
	Status      EnrollmentStatus
	CurrentStep int
	NextRunAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	LastError   string
}

// NewEnrollment enrolls a client into an active flow.
// The first step is scheduled relative to the enrollment instant.
func NewEnrollment(flow *Flow, clientID uuid.UUID, now time.Time) (*Enrollment, error) {
	if flow == nil || !flow.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Clients can only be enrolled into active flows")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	first := flow.StepAt(0)
	runAt := now.Add(first.Delay)

	return &Enrollment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FlowID:            flow.ID,
		ClientID:          clientID,
		Status:            EnrollmentStatusActive,
		CurrentStep:       0,
		NextRunAt:         &runAt,
	}, nil
}

// IsDue returns true if the current step should fire at the given instant
func (e *Enrollment) IsDue(now time.Time) bool {
	return e.Status == EnrollmentStatusActive && e.NextRunAt != nil && !now.Before(*e.NextRunAt)
}

// Advance moves past the current step after a successful send.
// When no further steps remain the enrollment completes.
func (e *Enrollment) Advance(flow *Flow, now time.Time) error {
	if e.Status != EnrollmentStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot advance a %s enrollment", e.Status))
	}
	if flow == nil || flow.ID != e.FlowID {
		return shared.NewDomainError("INVALID_FLOW", "Enrollment does not belong to this flow")
	}

	e.LastError = ""
	next := flow.StepAt(e.CurrentStep + 1)
	if next == nil {
		e.Status = EnrollmentStatusCompleted
		e.CompletedAt = &now
		e.NextRunAt = nil
		e.UpdatedAt = now
		e.IncrementVersion()
		return nil
	}

	runAt := now.Add(next.Delay)
	e.CurrentStep++
	e.NextRunAt = &runAt
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// MarkSendFailed records a failed send and schedules a retry of the same
// step instead of aborting the run.
func (e *Enrollment) MarkSendFailed(reason string, now time.Time) error {
	if e.Status != EnrollmentStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot retry a %s enrollment", e.Status))
	}

	retryAt := now.Add(SendRetryInterval)
	e.LastError = reason
	e.NextRunAt = &retryAt
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// Cancel stops the enrollment
func (e *Enrollment) Cancel() error {
	if e.Status != EnrollmentStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s enrollment", e.Status))
	}

	now := time.Now()
	e.Status = EnrollmentStatusCancelled
	e.CancelledAt = &now
	e.NextRunAt = nil
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// IsActive returns true if the enrollment is still running
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
