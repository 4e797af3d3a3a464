package automation

import (
	"time"

	"github.com/agencyos/backend/internal/domain/automation"
	"github.com/google/uuid"
)

// CreateFlowRequest represents a request to create an automation flow
type CreateFlowRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateFlowRequest represents a request to update a flow
type UpdateFlowRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// AddFlowStepRequest represents a request to append a step to a flow
type AddFlowStepRequest struct {
	TemplateID uuid.UUID `json:"template_id" binding:"required"`
	DelayHours int       `json:"delay_hours" binding:"min=0"`
}

// UpdateFlowStepRequest represents a request to change a step's delay
type UpdateFlowStepRequest struct {
	DelayHours int `json:"delay_hours" binding:"min=0"`
}

// EnrollClientRequest represents a request to enroll a client into a flow
type EnrollClientRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
}

// FlowListFilter represents filter options for flow list
type FlowListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active paused"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// FlowStepResponse represents a flow step in API responses
type FlowStepResponse struct {
	ID         uuid.UUID `json:"id"`
	Position   int       `json:"position"`
	TemplateID uuid.UUID `json:"template_id"`
	DelayHours int       `json:"delay_hours"`
}

// FlowResponse represents a flow in API responses
type FlowResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Steps       []FlowStepResponse `json:"steps"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// EnrollmentResponse represents an enrollment in API responses
type EnrollmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	FlowID      uuid.UUID  `json:"flow_id"`
	ClientID    uuid.UUID  `json:"client_id"`
	Status      string     `json:"status"`
	CurrentStep int        `json:"current_step"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RunReport summarizes one automation runner pass
type RunReport struct {
	Due       int `json:"due"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Completed int `json:"completed"`
}

// ToFlowResponse converts a domain Flow to FlowResponse
func ToFlowResponse(f *automation.Flow) FlowResponse {
	steps := make([]FlowStepResponse, len(f.Steps))
	for i, step := range f.Steps {
		steps[i] = FlowStepResponse{
			ID:         step.ID,
			Position:   step.Position,
			TemplateID: step.TemplateID,
			DelayHours: int(step.Delay / time.Hour),
		}
	}

	return FlowResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Status:      string(f.Status),
		Steps:       steps,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		Version:     f.Version,
	}
}

// ToFlowResponses converts a slice of domain Flows to FlowResponses
func ToFlowResponses(flows []automation.Flow) []FlowResponse {
	responses := make([]FlowResponse, len(flows))
	for i := range flows {
		responses[i] = ToFlowResponse(&flows[i])
	}
	return responses
}

// ToEnrollmentResponse converts a domain Enrollment to EnrollmentResponse
func ToEnrollmentResponse(e *automation.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          e.ID,
		FlowID:      e.FlowID,
		ClientID:    e.ClientID,
		Status:      string(e.Status),
		CurrentStep: e.CurrentStep,
		NextRunAt:   e.NextRunAt,
		CompletedAt: e.CompletedAt,
		CancelledAt: e.CancelledAt,
		LastError:   e.LastError,
		CreatedAt:   e.CreatedAt,
	}
}
