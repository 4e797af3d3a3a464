package client

import (
	"time"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/google/uuid"
)

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Company string `json:"company" binding:"max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Notes   string `json:"notes" binding:"max=5000"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Company *string `json:"company" binding:"omitempty,max=200"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Notes   *string `json:"notes" binding:"omitempty,max=5000"`
}

// ClientListFilter represents filter options for client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=prospect onboarding active churned"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Company          string     `json:"company,omitempty"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	Status           string     `json:"status"`
	StripeCustomerID string     `json:"stripe_customer_id,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	OnboardedAt      *time.Time `json:"onboarded_at,omitempty"`
	ChurnedAt        *time.Time `json:"churned_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// CreateInviteRequest represents a request to invite a client to the portal
type CreateInviteRequest struct {
	Email string `json:"email" binding:"omitempty,email,max=200"`
}

// AcceptInviteRequest represents a public request to accept an invite
type AcceptInviteRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
	Token string `json:"token" binding:"required,min=1,max=200"`
}

// InviteResponse represents an invite in API responses.
// Token is only populated on creation and renewal; it is never recoverable
// afterwards since only a hash is stored.
type InviteResponse struct {
	ID         uuid.UUID  `json:"id"`
	ClientID   uuid.UUID  `json:"client_id"`
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	Token      string     `json:"token,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:               c.ID,
		Name:             c.Name,
		Company:          c.Company,
		Email:            c.Email,
		Phone:            c.Phone,
		Status:           string(c.Status),
		StripeCustomerID: c.StripeCustomerID,
		Notes:            c.Notes,
		OnboardedAt:      c.OnboardedAt,
		ChurnedAt:        c.ChurnedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// ToClientResponses converts a slice of domain Clients to ClientResponses
func ToClientResponses(clients []client.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}

// ToInviteResponse converts a domain Invite to InviteResponse
func ToInviteResponse(i *client.Invite) InviteResponse {
	return InviteResponse{
		ID:         i.ID,
		ClientID:   i.ClientID,
		Email:      i.Email,
		Status:     string(i.Status),
		ExpiresAt:  i.ExpiresAt,
		AcceptedAt: i.AcceptedAt,
		RevokedAt:  i.RevokedAt,
		CreatedAt:  i.CreatedAt,
	}
}
