package billing

import (
	"context"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillingEventRepository defines the interface for billing event persistence.
// Append-only: no update or delete operations are exposed.
type BillingEventRepository interface {
	// Append inserts a new billing event record
	Append(ctx context.Context, event *BillingEvent) error

	// FindByStripeEventID finds a record by the provider's event ID
	FindByStripeEventID(ctx context.Context, stripeEventID string) (*BillingEvent, error)

	// FindByClient finds events linked to a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]BillingEvent, error)

	// FindAll finds all events with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]BillingEvent, error)

	// Count counts events with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
