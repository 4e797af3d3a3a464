package persistence

import (
	"testing"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   shared.Filter
		allowed  map[string]bool
		expected string
	}{
		{
			"whitelisted column with explicit direction",
			shared.Filter{OrderBy: "title", OrderDir: "asc"},
			dealSortFields,
			"title ASC",
		},
		{
			"empty filter keeps defaults",
			shared.Filter{},
			dealSortFields,
			"created_at DESC",
		},
		{
			"unknown column falls back",
			shared.Filter{OrderBy: "secret_column", OrderDir: "desc"},
			dealSortFields,
			"created_at DESC",
		},
		{
			"injection attempt in column falls back",
			shared.Filter{OrderBy: "created_at; DROP TABLE deals"},
			dealSortFields,
			"created_at DESC",
		},
		{
			"garbage direction keeps default",
			shared.Filter{OrderBy: "title", OrderDir: "sideways"},
			dealSortFields,
			"title DESC",
		},
		{
			"padded input is tolerated",
			shared.Filter{OrderBy: "  company  ", OrderDir: "  ASC  "},
			clientSortFields,
			"company ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.filter, tt.allowed, "created_at", "DESC"))
		})
	}
}

func TestOrderClause_DefaultDirection(t *testing.T) {
	// Product lists default to the curated display order, ascending.
	clause := orderClause(shared.Filter{}, productSortFields, "sort_order", "ASC")
	assert.Equal(t, "sort_order ASC", clause)
}
