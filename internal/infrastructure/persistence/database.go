package persistence

import (
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/catalog"
	"github.com/agencyos/backend/internal/domain/content"
	"github.com/agencyos/backend/internal/infrastructure/config"
	applogger "github.com/agencyos/backend/internal/infrastructure/logger"
	"github.com/agencyos/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm connection shared by all repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabaseWithLogger opens a pooled Postgres connection whose SQL
// logging goes through the zap-backed gorm logger at the given level.
// The pool is pinged before returning so a bad DSN fails at startup,
// not on the first request.
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, log *zap.Logger, logLevel logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 applogger.NewGormLogger(log, logLevel),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Database{DB: db}, nil
}

// Ping reports whether the connection is still alive; the readiness
// endpoint calls it on every check.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Close drains the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the schema for all portal tables.
// Used in development; production migrations run through the migrate
// tool.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&catalog.Product{},
		&content.Template{},
		&models.ClientModel{},
		&models.InviteModel{},
		&models.DealModel{},
		&models.DealItemModel{},
		&models.EngagementEventModel{},
		&models.ScoreHistoryModel{},
		&models.AttachmentModel{},
		&models.FlowModel{},
		&models.FlowStepModel{},
		&models.EnrollmentModel{},
		&models.BillingEventModel{},
	)
}
