package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/agencyos/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type dealRow struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Title  string
	Status string
}

func (dealRow) TableName() string { return "deals" }

func openMetricsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dealRow{}))
	return db
}

func newTestDBMetrics(t *testing.T, cfg telemetry.DBMetricsConfig) *telemetry.DBMetrics {
	t.Helper()
	meter := noop.NewMeterProvider().Meter("test")
	m, err := telemetry.NewDBMetrics(meter, cfg, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := telemetry.DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestNewDBMetrics_AppliesDefaults(t *testing.T) {
	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{Enabled: true})
	require.NotNil(t, m)

	// Zero-value thresholds must not classify every query as slow.
	m.RecordQuery(context.Background(), "select", "deals", time.Millisecond, nil)
	m.Stop()
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	ctx := context.Background()
	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 50 * time.Millisecond,
	})
	defer m.Stop()

	m.RecordQuery(ctx, "SELECT", "deals", 10*time.Millisecond, nil)
	m.RecordQuery(ctx, "insert", "score_history", 5*time.Millisecond, nil)
	m.RecordQuery(ctx, "", "", 2*time.Millisecond, nil)

	// Over threshold, with and without a table name.
	m.RecordQuery(ctx, "SELECT", "deals", 80*time.Millisecond, nil)
	m.RecordQuery(ctx, "UPDATE", "", 120*time.Millisecond, nil)
}

func TestDBMetrics_PoolStatsCollection(t *testing.T) {
	db := openMetricsTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{
		Enabled:           true,
		PoolStatsInterval: 10 * time.Millisecond,
	})
	m.SetSQLDB(sqlDB)

	m.StartPoolStatsCollection(context.Background())
	time.Sleep(30 * time.Millisecond)
	m.Stop()
}

func TestDBMetrics_PoolStatsWithoutDB(t *testing.T) {
	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{Enabled: true})

	// No sql.DB attached: collection must refuse to start, and Stop
	// must still return promptly.
	m.StartPoolStatsCollection(context.Background())
	m.Stop()
}

func TestDBMetrics_StopIsIdempotent(t *testing.T) {
	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{Enabled: true})

	m.Stop()
	m.Stop()
	m.Stop()
}

func TestDBMetricsPlugin_RecordsPortalQueries(t *testing.T) {
	db := openMetricsTestDB(t)
	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{Enabled: true})
	defer m.Stop()

	plugin := telemetry.NewDBMetricsPlugin(m, zap.NewNop())
	assert.Equal(t, "db_metrics", plugin.Name())
	require.NoError(t, db.Use(plugin))

	deal := dealRow{ID: uuid.New(), Title: "SEO retainer", Status: "sent"}
	require.NoError(t, db.Create(&deal).Error)

	var loaded dealRow
	require.NoError(t, db.First(&loaded, "id = ?", deal.ID).Error)
	assert.Equal(t, "SEO retainer", loaded.Title)

	require.NoError(t, db.Model(&dealRow{}).Where("id = ?", deal.ID).Update("status", "accepted").Error)
	require.NoError(t, db.Delete(&dealRow{}, "id = ?", deal.ID).Error)

	// Raw path goes through SQL keyword detection.
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM deals").Scan(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDBMetricsPlugin_DoubleRegistration(t *testing.T) {
	db := openMetricsTestDB(t)
	m := newTestDBMetrics(t, telemetry.DBMetricsConfig{Enabled: true})
	defer m.Stop()

	require.NoError(t, db.Use(telemetry.NewDBMetricsPlugin(m, zap.NewNop())))

	// gorm rejects duplicate callback names; queries keep working either way.
	_ = db.Use(telemetry.NewDBMetricsPlugin(m, zap.NewNop()))
	require.NoError(t, db.Create(&dealRow{ID: uuid.New(), Title: "PPC audit", Status: "draft"}).Error)
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := openMetricsTestDB(t)

	m, err := telemetry.RegisterDBMetrics(db, nil, telemetry.DBMetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRegisterDBMetrics_NoMeterProvider(t *testing.T) {
	db := openMetricsTestDB(t)

	m, err := telemetry.RegisterDBMetrics(db, nil, telemetry.DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	db := openMetricsTestDB(t)

	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	m, err := telemetry.RegisterDBMetrics(db, mp, telemetry.DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}
