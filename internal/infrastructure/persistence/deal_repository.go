package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by ID, including items and engagements
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Deal, error) {
	var model models.DealModel
	if err := r.preloaded(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all deals matching the filter
func (r *GormDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Deal, error) {
	var dealModels []models.DealModel
	query := r.applyFilter(r.preloaded(r.db.WithContext(ctx)).Model(&models.DealModel{}), filter)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// FindByClient finds deals for a client
func (r *GormDealRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]pipeline.Deal, error) {
	var dealModels []models.DealModel
	query := r.applyFilter(
		r.preloaded(r.db.WithContext(ctx)).Model(&models.DealModel{}).
			Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// FindByStatus finds deals by status
func (r *GormDealRepository) FindByStatus(ctx context.Context, status pipeline.DealStatus, filter shared.Filter) ([]pipeline.Deal, error) {
	var dealModels []models.DealModel
	query := r.applyFilter(
		r.preloaded(r.db.WithContext(ctx)).Model(&models.DealModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// FindByStatuses finds all deals in any of the given statuses, unpaginated
func (r *GormDealRepository) FindByStatuses(ctx context.Context, statuses []pipeline.DealStatus) ([]pipeline.Deal, error) {
	if len(statuses) == 0 {
		return []pipeline.Deal{}, nil
	}

	var dealModels []models.DealModel
	if err := r.preloaded(r.db.WithContext(ctx)).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&dealModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeals(dealModels), nil
}

// Save creates or updates a deal and its items
func (r *GormDealRepository) Save(ctx context.Context, deal *pipeline.Deal) error {
	model := models.DealModelFromDomain(deal)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Engagements").Save(model).Error; err != nil {
			return err
		}
		return r.saveChildren(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDealRepository) SaveWithLock(ctx context.Context, deal *pipeline.Deal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.DealModel{}).
			Where("id = ?", deal.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != deal.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The deal has been modified by another user")
		}

		deal.Version++
		deal.UpdatedAt = time.Now()
		model := models.DealModelFromDomain(deal)

		result := tx.Model(&models.DealModel{}).
			Where("id = ? AND version = ?", deal.ID, currentVersion).
			Updates(map[string]interface{}{
				"client_id":       model.ClientID,
				"client_name":     model.ClientName,
				"title":           model.Title,
				"notes":           model.Notes,
				"monthly_total":   model.MonthlyTotal,
				"onetime_total":   model.OnetimeTotal,
				"status":          model.Status,
				"sent_at":         model.SentAt,
				"decided_at":      model.DecidedAt,
				"archived_at":     model.ArchivedAt,
				"last_contact_at": model.LastContactAt,
				"decline_reason":  model.DeclineReason,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The deal has been modified by another user")
		}

		return r.saveChildren(tx, model)
	})
}

// saveChildren reconciles line items and engagement events with the database
func (r *GormDealRepository) saveChildren(tx *gorm.DB, model *models.DealModel) error {
	itemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		itemIDs[i] = item.ID
	}
	removed := tx.Where("deal_id = ?", model.ID)
	if len(itemIDs) > 0 {
		removed = removed.Where("id NOT IN ?", itemIDs)
	}
	if err := removed.Delete(&models.DealItemModel{}).Error; err != nil {
		return err
	}
	for i := range model.Items {
		model.Items[i].DealID = model.ID
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}

	// Engagements are append-only; existing rows are never rewritten
	for i := range model.Engagements {
		model.Engagements[i].DealID = model.ID
		if err := tx.Where("id = ?", model.Engagements[i].ID).
			FirstOrCreate(&model.Engagements[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a deal and its children
func (r *GormDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", id).Delete(&models.DealItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deal_id = ?", id).Delete(&models.EngagementEventModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DealModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts deals with optional filters
func (r *GormDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.DealModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts deals by status
func (r *GormDealRepository) CountByStatus(ctx context.Context, status pipeline.DealStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DealModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDealRepository) preloaded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Engagements", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		})
}

// applyFilter applies filter options including pagination
func (r *GormDealRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order(orderClause(filter, dealSortFields, "created_at", "DESC"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDealRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR client_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}

	return query
}

func toDomainDeals(dealModels []models.DealModel) []pipeline.Deal {
	deals := make([]pipeline.Deal, len(dealModels))
	for i := range dealModels {
		deals[i] = *dealModels[i].ToDomain()
	}
	return deals
}

// Ensure GormDealRepository implements DealRepository
var _ pipeline.DealRepository = (*GormDealRepository)(nil)
