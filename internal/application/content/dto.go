package content

import (
	"time"

	"github.com/agencyos/backend/internal/domain/content"
	"github.com/google/uuid"
)

// CreateTemplateRequest represents a request to create a template
type CreateTemplateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Kind    string `json:"kind" binding:"required,oneof=email proposal"`
	Subject string `json:"subject" binding:"max=300"`
	Body    string `json:"body" binding:"required"`
}

// UpdateTemplateRequest represents a request to update a template
type UpdateTemplateRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Subject *string `json:"subject" binding:"omitempty,max=300"`
	Body    *string `json:"body"`
}

// TemplateListFilter represents filter options for template list
type TemplateListFilter struct {
	Search   string `form:"search"`
	Kind     string `form:"kind" binding:"omitempty,oneof=email proposal"`
	Status   string `form:"status" binding:"omitempty,oneof=draft approved archived"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Subject    string     `json:"subject,omitempty"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// ToTemplateResponse converts a domain Template to TemplateResponse
func ToTemplateResponse(t *content.Template) TemplateResponse {
	return TemplateResponse{
		ID:         t.ID,
		Name:       t.Name,
		Kind:       string(t.Kind),
		Subject:    t.Subject,
		Body:       t.Body,
		Status:     string(t.Status),
		ApprovedAt: t.ApprovedAt,
		ArchivedAt: t.ArchivedAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		Version:    t.Version,
	}
}

// ToTemplateResponses converts a slice of domain Templates to TemplateResponses
func ToTemplateResponses(templates []content.Template) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTemplateResponse(&templates[i])
	}
	return responses
}
