package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEnrollmentRepository implements EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// FindByID finds an enrollment by ID
func (r *GormEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*automation.Enrollment, error) {
	var model models.EnrollmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFlow finds enrollments for a flow
func (r *GormEnrollmentRepository) FindByFlow(ctx context.Context, flowID uuid.UUID, filter shared.Filter) ([]automation.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
			Where("flow_id = ?", flowID),
		filter,
	)

	if err := query.Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainEnrollments(enrollmentModels), nil
}

// FindByClient finds enrollments for a client
func (r *GormEnrollmentRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]automation.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
			Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainEnrollments(enrollmentModels), nil
}

// FindActiveByFlowAndClient finds an active enrollment of a client in a flow
func (r *GormEnrollmentRepository) FindActiveByFlowAndClient(ctx context.Context, flowID, clientID uuid.UUID) (*automation.Enrollment, error) {
	var model models.EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("flow_id = ? AND client_id = ? AND status = ?", flowID, clientID, automation.EnrollmentStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDue finds active enrollments whose next step is due at or before now,
// oldest first
func (r *GormEnrollmentRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]automation.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND next_run_at IS NOT NULL AND next_run_at <= ?", automation.EnrollmentStatusActive, now).
		Order("next_run_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainEnrollments(enrollmentModels), nil
}

// Save creates or updates an enrollment
func (r *GormEnrollmentRepository) Save(ctx context.Context, enrollment *automation.Enrollment) error {
	model := models.EnrollmentModelFromDomain(enrollment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts enrollments with optional filters
func (r *GormEnrollmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.EnrollmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination
func (r *GormEnrollmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order(orderClause(filter, commonSortFields, "created_at", "DESC"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEnrollmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "flow_id":
			query = query.Where("flow_id = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}
	return query
}

func toDomainEnrollments(enrollmentModels []models.EnrollmentModel) []automation.Enrollment {
	enrollments := make([]automation.Enrollment, len(enrollmentModels))
	for i := range enrollmentModels {
		enrollments[i] = *enrollmentModels[i].ToDomain()
	}
	return enrollments
}

// Ensure GormEnrollmentRepository implements EnrollmentRepository
var _ automation.EnrollmentRepository = (*GormEnrollmentRepository)(nil)
