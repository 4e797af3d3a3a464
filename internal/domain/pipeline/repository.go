package pipeline

import (
	"context"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DealRepository defines the interface for deal persistence
type DealRepository interface {
	// FindByID finds a deal by ID, including items and engagements
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)

	// FindAll finds all deals with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Deal, error)

	// FindByClient finds deals for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Deal, error)

	// FindByStatus finds deals by status
	FindByStatus(ctx context.Context, status DealStatus, filter shared.Filter) ([]Deal, error)

	// FindByStatuses finds all deals in any of the given statuses, unpaginated.
	// Used by bulk recalculation to select the active-scoring set.
	FindByStatuses(ctx context.Context, statuses []DealStatus) ([]Deal, error)

	// Save creates or updates a deal and its items
	Save(ctx context.Context, deal *Deal) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, deal *Deal) error

	// Delete deletes a deal (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts deals with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts deals by status
	CountByStatus(ctx context.Context, status DealStatus) (int64, error)
}

// ScoreHistoryRepository defines the interface for score history persistence.
// The table is append-only; no update or delete operations are exposed.
type ScoreHistoryRepository interface {
	// Append inserts a new history entry
	Append(ctx context.Context, entry *ScoreHistoryEntry) error

	// FindByDeal returns the full history for a deal ordered ascending by ScoredAt
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]ScoreHistoryEntry, error)

	// FindLatestByDeal returns the most recent entry for a deal, or nil when none exists
	FindLatestByDeal(ctx context.Context, dealID uuid.UUID) (*ScoreHistoryEntry, error)

	// FindLatestByDeals returns the most recent entry per deal for the given IDs.
	// Deals with no history are absent from the result map.
	FindLatestByDeals(ctx context.Context, dealIDs []uuid.UUID) (map[uuid.UUID]ScoreHistoryEntry, error)

	// CountAll returns the total number of history rows across all deals
	CountAll(ctx context.Context) (int64, error)

	// CountByDeal returns the number of history rows for a deal
	CountByDeal(ctx context.Context, dealID uuid.UUID) (int64, error)
}
