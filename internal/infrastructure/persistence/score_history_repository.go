package persistence

import (
	"context"
	"errors"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScoreHistoryRepository implements ScoreHistoryRepository using GORM.
// Rows are only ever inserted, never updated or deleted.
type GormScoreHistoryRepository struct {
	db *gorm.DB
}

// NewGormScoreHistoryRepository creates a new GormScoreHistoryRepository
func NewGormScoreHistoryRepository(db *gorm.DB) *GormScoreHistoryRepository {
	return &GormScoreHistoryRepository{db: db}
}

// Append inserts a new history entry
func (r *GormScoreHistoryRepository) Append(ctx context.Context, entry *pipeline.ScoreHistoryEntry) error {
	model := models.ScoreHistoryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByDeal returns the full history for a deal ordered ascending by ScoredAt
func (r *GormScoreHistoryRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]pipeline.ScoreHistoryEntry, error) {
	var historyModels []models.ScoreHistoryModel
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("scored_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]pipeline.ScoreHistoryEntry, len(historyModels))
	for i := range historyModels {
		entries[i] = *historyModels[i].ToDomain()
	}
	return entries, nil
}

// FindLatestByDeal returns the most recent entry for a deal, or nil when none exists
func (r *GormScoreHistoryRepository) FindLatestByDeal(ctx context.Context, dealID uuid.UUID) (*pipeline.ScoreHistoryEntry, error) {
	var model models.ScoreHistoryModel
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("scored_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestByDeals returns the most recent entry per deal for the given IDs.
// Deals with no history are absent from the result map.
func (r *GormScoreHistoryRepository) FindLatestByDeals(ctx context.Context, dealIDs []uuid.UUID) (map[uuid.UUID]pipeline.ScoreHistoryEntry, error) {
	result := make(map[uuid.UUID]pipeline.ScoreHistoryEntry, len(dealIDs))
	if len(dealIDs) == 0 {
		return result, nil
	}

	var historyModels []models.ScoreHistoryModel
	if err := r.db.WithContext(ctx).
		Where("deal_id IN ?", dealIDs).
		Where("(deal_id, scored_at) IN (?)",
			r.db.Model(&models.ScoreHistoryModel{}).
				Select("deal_id, MAX(scored_at)").
				Where("deal_id IN ?", dealIDs).
				Group("deal_id")).
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	for i := range historyModels {
		result[historyModels[i].DealID] = *historyModels[i].ToDomain()
	}
	return result, nil
}

// CountAll returns the total number of history rows across all deals
func (r *GormScoreHistoryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ScoreHistoryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDeal returns the number of history rows for a deal
func (r *GormScoreHistoryRepository) CountByDeal(ctx context.Context, dealID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ScoreHistoryModel{}).
		Where("deal_id = ?", dealID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormScoreHistoryRepository implements ScoreHistoryRepository
var _ pipeline.ScoreHistoryRepository = (*GormScoreHistoryRepository)(nil)
