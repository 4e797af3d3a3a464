package persistence

import (
	"context"
	"errors"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFlowRepository implements FlowRepository using GORM
type GormFlowRepository struct {
	db *gorm.DB
}

// NewGormFlowRepository creates a new GormFlowRepository
func NewGormFlowRepository(db *gorm.DB) *GormFlowRepository {
	return &GormFlowRepository{db: db}
}

// FindByID finds a flow by ID, including its steps
func (r *GormFlowRepository) FindByID(ctx context.Context, id uuid.UUID) (*automation.Flow, error) {
	var model models.FlowModel
	if err := r.preloaded(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all flows matching the filter
func (r *GormFlowRepository) FindAll(ctx context.Context, filter shared.Filter) ([]automation.Flow, error) {
	var flowModels []models.FlowModel
	query := r.applyFilter(r.preloaded(r.db.WithContext(ctx)).Model(&models.FlowModel{}), filter)

	if err := query.Find(&flowModels).Error; err != nil {
		return nil, err
	}
	return toDomainFlows(flowModels), nil
}

// FindByStatus finds flows by status
func (r *GormFlowRepository) FindByStatus(ctx context.Context, status automation.FlowStatus, filter shared.Filter) ([]automation.Flow, error) {
	var flowModels []models.FlowModel
	query := r.applyFilter(
		r.preloaded(r.db.WithContext(ctx)).Model(&models.FlowModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&flowModels).Error; err != nil {
		return nil, err
	}
	return toDomainFlows(flowModels), nil
}

// Save creates or updates a flow and reconciles its steps
func (r *GormFlowRepository) Save(ctx context.Context, flow *automation.Flow) error {
	model := models.FlowModelFromDomain(flow)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Steps").Save(model).Error; err != nil {
			return err
		}

		stepIDs := make([]uuid.UUID, len(model.Steps))
		for i, step := range model.Steps {
			stepIDs[i] = step.ID
		}
		removed := tx.Where("flow_id = ?", model.ID)
		if len(stepIDs) > 0 {
			removed = removed.Where("id NOT IN ?", stepIDs)
		}
		if err := removed.Delete(&models.FlowStepModel{}).Error; err != nil {
			return err
		}

		for i := range model.Steps {
			model.Steps[i].FlowID = model.ID
			if err := tx.Save(&model.Steps[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a flow and its steps
func (r *GormFlowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flow_id = ?", id).Delete(&models.FlowStepModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.FlowModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts flows with optional filters
func (r *GormFlowRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.FlowModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormFlowRepository) preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// applyFilter applies filter options including pagination
func (r *GormFlowRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order(orderClause(filter, commonSortFields, "created_at", "DESC"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormFlowRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

func toDomainFlows(flowModels []models.FlowModel) []automation.Flow {
	flows := make([]automation.Flow, len(flowModels))
	for i := range flowModels {
		flows[i] = *flowModels[i].ToDomain()
	}
	return flows
}

// Ensure GormFlowRepository implements FlowRepository
var _ automation.FlowRepository = (*GormFlowRepository)(nil)
