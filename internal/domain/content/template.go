package content

import (
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
)

// TemplateKind classifies what a content template is used for
type TemplateKind string

const (
	TemplateKindEmail    TemplateKind = "email"
	TemplateKindProposal TemplateKind = "proposal"
)

// IsValid checks if the kind is a valid TemplateKind
func (k TemplateKind) IsValid() bool {
	switch k {
	case TemplateKindEmail, TemplateKindProposal:
		return true
	}
	return false
}

// TemplateStatus represents the approval workflow status of a template
type TemplateStatus string

const (
	TemplateStatusDraft    TemplateStatus = "draft"
	TemplateStatusApproved TemplateStatus = "approved"
	TemplateStatusArchived TemplateStatus = "archived"
)

// IsValid checks if the status is a valid TemplateStatus
func (s TemplateStatus) IsValid() bool {
	switch s {
	case TemplateStatusDraft, TemplateStatusApproved, TemplateStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s TemplateStatus) CanTransitionTo(target TemplateStatus) bool {
	switch s {
	case TemplateStatusDraft:
		return target == TemplateStatusApproved || target == TemplateStatusArchived
	case TemplateStatusApproved:
		return target == TemplateStatusDraft || target == TemplateStatusArchived
	case TemplateStatusArchived:
		return false // Terminal state
	}
	return false
}

// Template represents a reusable piece of client-facing copy
// (automation emails, proposal sections) with an approval workflow.
type Template struct {
	shared.BaseAggregateRoot
	Name       string         `gorm:"type:varchar(200);not null"`
	Kind       TemplateKind   `gorm:"type:varchar(20);not null"`
	Subject    string         `gorm:"type:varchar(300)"`
	Body       string         `gorm:"type:text;not null"`
	Status     TemplateStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	ApprovedAt *time.Time
	ArchivedAt *time.Time
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "templates"
}

// NewTemplate creates a new draft template
func NewTemplate(name string, kind TemplateKind, subject, body string) (*Template, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 200 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown template kind")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Template body cannot be empty")
	}
	if kind == TemplateKindEmail && subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Email templates require a subject")
	}

	return &Template{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Kind:              kind,
		Subject:           subject,
		Body:              body,
		Status:            TemplateStatusDraft,
	}, nil
}

// Update updates the template content
// Approved templates drop back to draft so changes go through review again
func (t *Template) Update(name, subject, body string) error {
	if t.Status == TemplateStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot update an archived template")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 200 characters")
	}
	if body == "" {
		return shared.NewDomainError("INVALID_BODY", "Template body cannot be empty")
	}
	if t.Kind == TemplateKindEmail && subject == "" {
		return shared.NewDomainError("INVALID_SUBJECT", "Email templates require a subject")
	}

	t.Name = name
	t.Subject = subject
	t.Body = body
	if t.Status == TemplateStatusApproved {
		t.Status = TemplateStatusDraft
		t.ApprovedAt = nil
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Approve marks the template as approved for use
func (t *Template) Approve() error {
	if !t.Status.CanTransitionTo(TemplateStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve template in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TemplateStatusApproved
	t.ApprovedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// Archive retires the template
func (t *Template) Archive() error {
	if !t.Status.CanTransitionTo(TemplateStatusArchived) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot archive template in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TemplateStatusArchived
	t.ArchivedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// IsApproved returns true if the template is approved for use
func (t *Template) IsApproved() bool {
	return t.Status == TemplateStatusApproved
}

// IsArchived returns true if the template is archived
func (t *Template) IsArchived() bool {
	return t.Status == TemplateStatusArchived
}
