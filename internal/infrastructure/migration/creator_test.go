package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration_WritesFilePair(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add score history", "score history table for deals")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), mf.Version)
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_score_history.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_score_history.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add score history")
	assert.Contains(t, string(up), "score history table for deals")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")
}

func TestCreateMigration_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)

	_, err = os.Stat(mf.UpPath)
	assert.NoError(t, err)
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"add_deal_items":        "add_deal_items",
		"Add Deal Items":        "add_deal_items",
		"add--deal  items":      "add_deal_items",
		"Drop Billing Events!!": "drop_billing_events",
		"trailing underscore_":  "trailing_underscore",
		"v2":                    "v2",
	}
	for input, want := range cases {
		assert.Equal(t, want, sanitizeName(input), input)
	}
}

func TestListMigrations_ReturnsSortedPairs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20260102000000_add_deals.up.sql",
		"20260102000000_add_deals.down.sql",
		"20260101000000_init.up.sql",
		"20260101000000_init.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_init", "20260102000000_add_deals"}, migrations)
}

func TestListMigrations_MissingDirIsEmpty(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
