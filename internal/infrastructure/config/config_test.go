package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PORTAL_APP_NAME":                     os.Getenv("PORTAL_APP_NAME"),
		"PORTAL_APP_ENV":                      os.Getenv("PORTAL_APP_ENV"),
		"PORTAL_APP_PORT":                     os.Getenv("PORTAL_APP_PORT"),
		"PORTAL_DATABASE_HOST":                os.Getenv("PORTAL_DATABASE_HOST"),
		"PORTAL_DATABASE_PASSWORD":            os.Getenv("PORTAL_DATABASE_PASSWORD"),
		"PORTAL_DATABASE_SSLMODE":             os.Getenv("PORTAL_DATABASE_SSLMODE"),
		"PORTAL_DATABASE_MAX_IDLE_CONNS":      os.Getenv("PORTAL_DATABASE_MAX_IDLE_CONNS"),
		"PORTAL_DATABASE_MAX_OPEN_CONNS":      os.Getenv("PORTAL_DATABASE_MAX_OPEN_CONNS"),
		"PORTAL_JWT_SECRET":                   os.Getenv("PORTAL_JWT_SECRET"),
		"PORTAL_PIPELINE_STALENESS_THRESHOLD": os.Getenv("PORTAL_PIPELINE_STALENESS_THRESHOLD"),
		"PORTAL_PIPELINE_RECALC_BUDGET":       os.Getenv("PORTAL_PIPELINE_RECALC_BUDGET"),
		"PORTAL_STORAGE_PROVIDER":             os.Getenv("PORTAL_STORAGE_PROVIDER"),
		"PORTAL_STORAGE_BUCKET":               os.Getenv("PORTAL_STORAGE_BUCKET"),
		"PORTAL_STRIPE_WEBHOOK_SECRET":        os.Getenv("PORTAL_STRIPE_WEBHOOK_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "portal-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "portal", cfg.Database.DBName)
		assert.Equal(t, 6*time.Hour, cfg.Pipeline.StalenessThreshold)
		assert.Equal(t, 120*time.Second, cfg.Pipeline.RecalcBudget)
		assert.Equal(t, "stub", cfg.Storage.Provider)
		assert.Equal(t, "usd", cfg.Stripe.DefaultCurrency)
	})

	t.Run("loads values from environment variables with PORTAL prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PORTAL_APP_NAME", "test-portal")
		os.Setenv("PORTAL_APP_PORT", "9000")
		os.Setenv("PORTAL_DATABASE_HOST", "testdb.local")
		os.Setenv("PORTAL_PIPELINE_STALENESS_THRESHOLD", "2h")
		os.Setenv("PORTAL_PIPELINE_RECALC_BUDGET", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-portal", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 2*time.Hour, cfg.Pipeline.StalenessThreshold)
		assert.Equal(t, 30*time.Second, cfg.Pipeline.RecalcBudget)
	})

	t.Run("env can set keys that have no usable default", func(t *testing.T) {
		clearEnv()
		os.Setenv("PORTAL_DATABASE_PASSWORD", "s3cret")
		os.Setenv("PORTAL_JWT_SECRET", "portal-signing-key")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "s3cret", cfg.Database.Password)
		assert.Equal(t, "portal-signing-key", cfg.JWT.Secret)
	})

	t.Run("rejects s3 storage without a bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("PORTAL_STORAGE_PROVIDER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects unknown storage provider", func(t *testing.T) {
		clearEnv()
		os.Setenv("PORTAL_STORAGE_PROVIDER", "ftp")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("requires secrets in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("PORTAL_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "portal",
		Password: "p@ss/word",
		DBName:   "portal",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
