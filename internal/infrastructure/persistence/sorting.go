package persistence

import (
	"strings"

	"github.com/agencyos/backend/internal/domain/shared"
)

// orderClause builds the ORDER BY expression for a list query. The
// requested column must be in the allowed set or the fallback is used,
// so filter input can never reach the SQL text unchecked. An absent or
// unrecognized direction keeps defaultDir.
func orderClause(filter shared.Filter, allowed map[string]bool, fallbackColumn, defaultDir string) string {
	column := fallbackColumn
	if requested := strings.TrimSpace(filter.OrderBy); allowed[requested] {
		column = requested
	}

	dir := defaultDir
	switch strings.ToLower(strings.TrimSpace(filter.OrderDir)) {
	case "asc":
		dir = "ASC"
	case "desc":
		dir = "DESC"
	}
	return column + " " + dir
}

// Sortable columns per aggregate. Only columns a portal list view
// actually sorts on are whitelisted.

var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

var dealSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"title":           true,
	"client_name":     true,
	"status":          true,
	"monthly_total":   true,
	"onetime_total":   true,
	"sent_at":         true,
	"decided_at":      true,
	"last_contact_at": true,
}

var clientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"company":    true,
	"email":      true,
	"status":     true,
}

var productSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"status":        true,
	"sort_order":    true,
	"monthly_price": true,
	"onetime_price": true,
}

var templateSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
	"status":     true,
}
