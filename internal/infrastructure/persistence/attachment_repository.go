package persistence

import (
	"context"
	"errors"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByID finds an attachment by ID
func (r *GormAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Attachment, error) {
	var model models.AttachmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDeal finds all attachments for a deal
func (r *GormAttachmentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]pipeline.Attachment, error) {
	var attachmentModels []models.AttachmentModel
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&attachmentModels).Error; err != nil {
		return nil, err
	}

	attachments := make([]pipeline.Attachment, len(attachmentModels))
	for i := range attachmentModels {
		attachments[i] = *attachmentModels[i].ToDomain()
	}
	return attachments, nil
}

// Save creates an attachment record
func (r *GormAttachmentRepository) Save(ctx context.Context, attachment *pipeline.Attachment) error {
	model := models.AttachmentModelFromDomain(attachment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an attachment record
func (r *GormAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AttachmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAttachmentRepository implements AttachmentRepository
var _ pipeline.AttachmentRepository = (*GormAttachmentRepository)(nil)
