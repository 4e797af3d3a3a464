package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockScoreHistoryRepository(t *testing.T) (*GormScoreHistoryRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormScoreHistoryRepository(gormDB), mock, mockDB
}

func TestGormScoreHistoryRepository_FindByDeal(t *testing.T) {
	t.Run("returns rows ordered by scored_at ascending", func(t *testing.T) {
		repo, mock, mockDB := newMockScoreHistoryRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()
		earlier := time.Now().Add(-2 * time.Hour)
		later := time.Now().Add(-1 * time.Hour)

		rows := sqlmock.NewRows([]string{"id", "deal_id", "confidence_score", "confidence_percent", "weighted_monthly", "weighted_onetime", "trigger_source", "scored_at"}).
			AddRow(uuid.New(), dealID, decimal.NewFromFloat(0.42), 42, decimal.NewFromInt(630), decimal.NewFromInt(210), "cron", earlier).
			AddRow(uuid.New(), dealID, decimal.NewFromFloat(0.58), 58, decimal.NewFromInt(870), decimal.NewFromInt(290), "manual_refresh", later)

		mock.ExpectQuery(`SELECT \* FROM "score_history" WHERE deal_id = \$1 ORDER BY scored_at ASC`).
			WithArgs(dealID).
			WillReturnRows(rows)

		entries, err := repo.FindByDeal(context.Background(), dealID)

		assert.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].ScoredAt.Before(entries[1].ScoredAt))
		assert.Equal(t, 42, entries[0].ConfidencePercent)
		assert.Equal(t, 58, entries[1].ConfidencePercent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormScoreHistoryRepository_FindLatestByDeal(t *testing.T) {
	t.Run("returns nil without error when no history exists", func(t *testing.T) {
		repo, mock, mockDB := newMockScoreHistoryRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "score_history" WHERE deal_id = \$1 ORDER BY scored_at DESC,.* LIMIT .*`).
			WithArgs(dealID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		entry, err := repo.FindLatestByDeal(context.Background(), dealID)

		assert.NoError(t, err)
		assert.Nil(t, entry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the most recent entry", func(t *testing.T) {
		repo, mock, mockDB := newMockScoreHistoryRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()
		scoredAt := time.Now().Add(-10 * time.Minute)

		rows := sqlmock.NewRows([]string{"id", "deal_id", "confidence_score", "confidence_percent", "weighted_monthly", "weighted_onetime", "trigger_source", "scored_at"}).
			AddRow(uuid.New(), dealID, decimal.NewFromFloat(0.61), 61, decimal.NewFromInt(915), decimal.NewFromInt(305), "webhook", scoredAt)

		mock.ExpectQuery(`SELECT \* FROM "score_history" WHERE deal_id = \$1 ORDER BY scored_at DESC,.* LIMIT .*`).
			WithArgs(dealID, 1).
			WillReturnRows(rows)

		entry, err := repo.FindLatestByDeal(context.Background(), dealID)

		assert.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, 61, entry.ConfidencePercent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormScoreHistoryRepository_FindLatestByDeals(t *testing.T) {
	t.Run("returns empty map for no IDs without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockScoreHistoryRepository(t)
		defer mockDB.Close()

		result, err := repo.FindLatestByDeals(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormScoreHistoryRepository_CountByDeal(t *testing.T) {
	t.Run("counts rows for a deal", func(t *testing.T) {
		repo, mock, mockDB := newMockScoreHistoryRepository(t)
		defer mockDB.Close()

		dealID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(7)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "score_history" WHERE deal_id = \$1`).
			WithArgs(dealID).
			WillReturnRows(rows)

		count, err := repo.CountByDeal(context.Background(), dealID)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
