package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/agencyos/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := telemetry.DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Name(t *testing.T) {
	p := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), zap.NewNop())
	assert.Equal(t, "db_tracing", p.Name())
}

func TestDBTracingPlugin_DisabledRegistersNothing(t *testing.T) {
	db := openMetricsTestDB(t)

	p := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, db.Use(p))

	// Queries work untraced.
	require.NoError(t, db.Create(&dealRow{ID: uuid.New(), Title: "Content retainer", Status: "draft"}).Error)
}

// tracedTestDB opens an in-memory DB with the tracing plugin registered
// against an in-memory span exporter.
func tracedTestDB(t *testing.T, cfg telemetry.DBTracingConfig) (*gorm.DB, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dealRow{}))

	cfg.DBSystem = "sqlite"
	require.NoError(t, db.Use(telemetry.NewDBTracingPlugin(cfg, zap.NewNop())))

	// Route statements through a recording parent span.
	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "portal-request")
	t.Cleanup(func() { span.End() })

	return db.WithContext(ctx), exporter
}

func spanAttrs(span tracetest.SpanStub) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value, len(span.Attributes))
	for _, kv := range span.Attributes {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestDBTracingPlugin_AnnotatesSpans(t *testing.T) {
	db, exporter := tracedTestDB(t, telemetry.DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute, // nothing here should be flagged slow
	})

	deal := dealRow{ID: uuid.New(), Title: "Paid social", Status: "sent"}
	require.NoError(t, db.Create(&deal).Error)

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)

	var found bool
	for _, s := range spans {
		attrs := spanAttrs(s)
		if v, ok := attrs["db.sql.table"]; ok && v.AsString() == "deals" {
			found = true
			assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
			_, slow := attrs["db.slow_query"]
			assert.False(t, slow)
		}
	}
	assert.True(t, found, "expected a span annotated with the deals table")
}

func TestDBTracingPlugin_FlagsSlowQueries(t *testing.T) {
	db, exporter := tracedTestDB(t, telemetry.DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond, // every statement crosses it
	})

	require.NoError(t, db.Create(&dealRow{ID: uuid.New(), Title: "Email sequence", Status: "draft"}).Error)

	var flagged bool
	for _, s := range exporter.GetSpans() {
		attrs := spanAttrs(s)
		if v, ok := attrs["db.slow_query"]; ok && v.AsBool() {
			flagged = true
			assert.GreaterOrEqual(t, attrs["db.query_duration_ms"].AsInt64(), int64(0))

			var event bool
			for _, e := range s.Events {
				if e.Name == "slow_query_warning" {
					event = true
				}
			}
			assert.True(t, event, "slow span should carry the warning event")
		}
	}
	assert.True(t, flagged, "expected at least one slow-flagged span")
}

func TestDBTracingPlugin_RecordNotFoundStaysClean(t *testing.T) {
	db, exporter := tracedTestDB(t, telemetry.DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
	})

	var missing dealRow
	err := db.First(&missing, "id = ?", uuid.New()).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, s := range exporter.GetSpans() {
		assert.NotEqual(t, codes.Error, s.Status.Code,
			"not-found lookups must not mark the span as errored")
	}
}

func TestDBTracingPlugin_MarksRealErrors(t *testing.T) {
	db, exporter := tracedTestDB(t, telemetry.DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
	})

	id := uuid.New()
	require.NoError(t, db.Create(&dealRow{ID: id, Title: "Brand refresh", Status: "draft"}).Error)
	err := db.Create(&dealRow{ID: id, Title: "Duplicate key", Status: "draft"}).Error
	require.Error(t, err)

	var errored bool
	for _, s := range exporter.GetSpans() {
		if s.Status.Code == codes.Error {
			errored = true
		}
	}
	assert.True(t, errored, "constraint violation should mark a span errored")
}
