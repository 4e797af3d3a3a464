package persistence

import (
	"context"
	"errors"

	"github.com/agencyos/backend/internal/domain/billing"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillingEventRepository implements BillingEventRepository using GORM.
// The table is append-only.
type GormBillingEventRepository struct {
	db *gorm.DB
}

// NewGormBillingEventRepository creates a new GormBillingEventRepository
func NewGormBillingEventRepository(db *gorm.DB) *GormBillingEventRepository {
	return &GormBillingEventRepository{db: db}
}

// Append inserts a new billing event record
func (r *GormBillingEventRepository) Append(ctx context.Context, event *billing.BillingEvent) error {
	model := models.BillingEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByStripeEventID finds a record by the provider's event ID
func (r *GormBillingEventRepository) FindByStripeEventID(ctx context.Context, stripeEventID string) (*billing.BillingEvent, error) {
	var model models.BillingEventModel
	if err := r.db.WithContext(ctx).
		Where("stripe_event_id = ?", stripeEventID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClient finds events linked to a client
func (r *GormBillingEventRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]billing.BillingEvent, error) {
	var eventModels []models.BillingEventModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BillingEventModel{}).
			Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainBillingEvents(eventModels), nil
}

// FindAll finds all events matching the filter
func (r *GormBillingEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BillingEvent, error) {
	var eventModels []models.BillingEventModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillingEventModel{}), filter)

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainBillingEvents(eventModels), nil
}

// Count counts events with optional filters
func (r *GormBillingEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.BillingEventModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormBillingEventRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order(orderClause(filter, billingEventSortFields, "processed_at", "DESC"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBillingEventRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "deal_id":
			query = query.Where("deal_id = ?", value)
		}
	}
	return query
}

var billingEventSortFields = map[string]bool{
	"id":           true,
	"type":         true,
	"processed_at": true,
}

func toDomainBillingEvents(eventModels []models.BillingEventModel) []billing.BillingEvent {
	events := make([]billing.BillingEvent, len(eventModels))
	for i := range eventModels {
		events[i] = *eventModels[i].ToDomain()
	}
	return events
}

// Ensure GormBillingEventRepository implements BillingEventRepository
var _ billing.BillingEventRepository = (*GormBillingEventRepository)(nil)
