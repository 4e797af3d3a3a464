package automation

import (
	"context"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FlowRepository defines the interface for flow persistence
type FlowRepository interface {
	// FindByID finds a flow by ID, including its steps
	FindByID(ctx context.Context, id uuid.UUID) (*Flow, error)

	// FindAll finds all flows with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Flow, error)

	// FindByStatus finds flows by status
	FindByStatus(ctx context.Context, status FlowStatus, filter shared.Filter) ([]Flow, error)

	// Save creates or updates a flow and its steps
	Save(ctx context.Context, flow *Flow) error

	// Delete deletes a flow
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts flows with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// EnrollmentRepository defines the interface for enrollment persistence
type EnrollmentRepository interface {
	// FindByID finds an enrollment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)

	// FindByFlow finds enrollments for a flow
	FindByFlow(ctx context.Context, flowID uuid.UUID, filter shared.Filter) ([]Enrollment, error)

	// FindByClient finds enrollments for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Enrollment, error)

	// FindActiveByFlowAndClient finds an active enrollment of a client in a flow.
	// Used to prevent duplicate concurrent enrollments.
	FindActiveByFlowAndClient(ctx context.Context, flowID, clientID uuid.UUID) (*Enrollment, error)

	// FindDue finds active enrollments whose next step is due at or before
	// the given instant. The automation runner polls this.
	FindDue(ctx context.Context, now time.Time, limit int) ([]Enrollment, error)

	// Save creates or updates an enrollment
	Save(ctx context.Context, enrollment *Enrollment) error

	// Count counts enrollments with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
