package persistence

import (
	"context"
	"errors"

	"github.com/agencyos/backend/internal/domain/content"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTemplateRepository implements TemplateRepository using GORM.
// Template carries its own persistence tags, so no mapping model is needed.
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Template, error) {
	var template content.Template
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindAll finds all templates matching the filter
func (r *GormTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.Template, error) {
	var templates []content.Template
	query := r.applyFilter(r.db.WithContext(ctx).Model(&content.Template{}), filter)

	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// FindByKind finds templates by kind
func (r *GormTemplateRepository) FindByKind(ctx context.Context, kind content.TemplateKind, filter shared.Filter) ([]content.Template, error) {
	var templates []content.Template
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&content.Template{}).
			Where("kind = ?", kind),
		filter,
	)

	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// FindApprovedByKind finds approved templates of a kind
func (r *GormTemplateRepository) FindApprovedByKind(ctx context.Context, kind content.TemplateKind) ([]content.Template, error) {
	var templates []content.Template
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, content.TemplateStatusApproved).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, template *content.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete deletes a template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&content.Template{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts templates with optional filters
func (r *GormTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&content.Template{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order(orderClause(filter, templateSortFields, "created_at", "DESC"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR subject ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		}
	}

	return query
}

// Ensure GormTemplateRepository implements TemplateRepository
var _ content.TemplateRepository = (*GormTemplateRepository)(nil)
