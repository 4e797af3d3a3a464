package content

import (
	"context"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TemplateRepository defines the interface for template persistence
type TemplateRepository interface {
	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)

	// FindAll finds all templates with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Template, error)

	// FindByKind finds templates by kind
	FindByKind(ctx context.Context, kind TemplateKind, filter shared.Filter) ([]Template, error)

	// FindApprovedByKind finds approved templates of a kind.
	// Automation flows only reference approved email templates.
	FindApprovedByKind(ctx context.Context, kind TemplateKind) ([]Template, error)

	// Save creates or updates a template
	Save(ctx context.Context, template *Template) error

	// Delete deletes a template
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts templates with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
