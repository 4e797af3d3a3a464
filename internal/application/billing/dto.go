package billing

import (
	"time"

	"github.com/agencyos/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Message   string `json:"message,omitempty"`
}

// LinkCustomerRequest represents a request to create and link a billing
// customer for a client
type LinkCustomerRequest struct {
	Description string `json:"description" binding:"max=500"`
}

// LinkCustomerResponse returns the stored billing customer link
type LinkCustomerResponse struct {
	ClientID         uuid.UUID `json:"client_id"`
	StripeCustomerID string    `json:"stripe_customer_id"`
}

// BillingEventListFilter represents filter options for billing event list
type BillingEventListFilter struct {
	ClientID *uuid.UUID `form:"client_id"`
	Page     int        `form:"page" binding:"min=0"`
	PageSize int        `form:"page_size" binding:"min=0,max=100"`
}

// BillingEventResponse represents a processed billing event in API responses
type BillingEventResponse struct {
	ID            uuid.UUID  `json:"id"`
	StripeEventID string     `json:"stripe_event_id"`
	Type          string     `json:"type"`
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	DealID        *uuid.UUID `json:"deal_id,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	ProcessedAt   time.Time  `json:"processed_at"`
}

// ToBillingEventResponse converts a domain BillingEvent to BillingEventResponse
func ToBillingEventResponse(e *billing.BillingEvent) BillingEventResponse {
	return BillingEventResponse{
		ID:            e.ID,
		StripeEventID: e.StripeEventID,
		Type:          e.Type,
		ClientID:      e.ClientID,
		DealID:        e.DealID,
		Summary:       e.Summary,
		ProcessedAt:   e.ProcessedAt,
	}
}

// ToBillingEventResponses converts a slice of domain BillingEvents
func ToBillingEventResponses(events []billing.BillingEvent) []BillingEventResponse {
	responses := make([]BillingEventResponse, len(events))
	for i := range events {
		responses[i] = ToBillingEventResponse(&events[i])
	}
	return responses
}
