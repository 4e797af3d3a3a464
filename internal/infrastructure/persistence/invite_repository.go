package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInviteRepository implements InviteRepository using GORM
type GormInviteRepository struct {
	db *gorm.DB
}

// NewGormInviteRepository creates a new GormInviteRepository
func NewGormInviteRepository(db *gorm.DB) *GormInviteRepository {
	return &GormInviteRepository{db: db}
}

// FindByID finds an invite by ID
func (r *GormInviteRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Invite, error) {
	var model models.InviteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClient finds all invites for a client, newest first
func (r *GormInviteRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]client.Invite, error) {
	var inviteModels []models.InviteModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&inviteModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvites(inviteModels), nil
}

// FindPendingByEmail finds pending invites for an email address
func (r *GormInviteRepository) FindPendingByEmail(ctx context.Context, email string) ([]client.Invite, error) {
	var inviteModels []models.InviteModel
	if err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", strings.ToLower(email), client.InviteStatusPending).
		Order("created_at DESC").
		Find(&inviteModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvites(inviteModels), nil
}

// Save creates or updates an invite
func (r *GormInviteRepository) Save(ctx context.Context, invite *client.Invite) error {
	model := models.InviteModelFromDomain(invite)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an invite
func (r *GormInviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InviteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainInvites(inviteModels []models.InviteModel) []client.Invite {
	invites := make([]client.Invite, len(inviteModels))
	for i := range inviteModels {
		invites[i] = *inviteModels[i].ToDomain()
	}
	return invites
}

// Ensure GormInviteRepository implements InviteRepository
var _ client.InviteRepository = (*GormInviteRepository)(nil)
