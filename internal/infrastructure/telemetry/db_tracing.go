package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing settings. LogFullSQL embeds query
// variables in span attributes and must stay off outside development.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the tracing defaults: disabled, variables
// stripped, 200ms slow threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin layers slow-query annotation and error marking on top of
// otelgorm spans. Implements gorm.Plugin.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Name implements gorm.Plugin.
func (p *DBTracingPlugin) Name() string { return "db_tracing" }

// Initialize registers otelgorm plus the timing callbacks. A disabled
// config registers nothing so the plugin can be wired unconditionally.
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	// Timing callbacks must be registered first: after-callbacks run in
	// registration order, and the annotation has to happen while the
	// otelgorm span is still recording.
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("db_tracing:before_create", markQueryStart),
		cb.Create().After("gorm:create").Register("db_tracing:after_create", p.annotateSpan),
		cb.Query().Before("gorm:query").Register("db_tracing:before_query", markQueryStart),
		cb.Query().After("gorm:query").Register("db_tracing:after_query", p.annotateSpan),
		cb.Update().Before("gorm:update").Register("db_tracing:before_update", markQueryStart),
		cb.Update().After("gorm:update").Register("db_tracing:after_update", p.annotateSpan),
		cb.Delete().Before("gorm:delete").Register("db_tracing:before_delete", markQueryStart),
		cb.Delete().After("gorm:delete").Register("db_tracing:after_delete", p.annotateSpan),
		cb.Row().Before("gorm:row").Register("db_tracing:before_row", markQueryStart),
		cb.Row().After("gorm:row").Register("db_tracing:after_row", p.annotateSpan),
		cb.Raw().Before("gorm:raw").Register("db_tracing:before_raw", markQueryStart),
		cb.Raw().After("gorm:raw").Register("db_tracing:after_raw", p.annotateSpan),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

type queryStartKey struct{}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotateSpan runs after each statement: rows affected, table, error
// status, and a slow-query event when the threshold is crossed.
// ErrRecordNotFound stays a clean span since the repositories translate it
// into a domain not-found.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
