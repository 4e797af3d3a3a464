package client

import (
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeClient = "Client"
	AggregateTypeInvite = "Invite"
)

// Event type constants
const (
	EventTypeClientCreated       = "ClientCreated"
	EventTypeClientUpdated       = "ClientUpdated"
	EventTypeClientStatusChanged = "ClientStatusChanged"
	EventTypeInviteCreated       = "InviteCreated"
	EventTypeInviteAccepted      = "InviteAccepted"
)

// ClientCreatedEvent is published when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Company  string    `json:"company,omitempty"`
	Email    string    `json:"email"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, c.ID),
		ClientID:        c.ID,
		Name:            c.Name,
		Company:         c.Company,
		Email:           c.Email,
	}
}

// ClientUpdatedEvent is published when client information changes
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

// NewClientUpdatedEvent creates a new ClientUpdatedEvent
func NewClientUpdatedEvent(c *Client) *ClientUpdatedEvent {
	return &ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientUpdated, AggregateTypeClient, c.ID),
		ClientID:        c.ID,
		Name:            c.Name,
		Email:           c.Email,
	}
}

// ClientStatusChangedEvent is published when a client's lifecycle status changes
type ClientStatusChangedEvent struct {
	shared.BaseDomainEvent
	ClientID  uuid.UUID    `json:"client_id"`
	OldStatus ClientStatus `json:"old_status"`
	NewStatus ClientStatus `json:"new_status"`
}

// NewClientStatusChangedEvent creates a new ClientStatusChangedEvent
func NewClientStatusChangedEvent(c *Client, oldStatus, newStatus ClientStatus) *ClientStatusChangedEvent {
	return &ClientStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientStatusChanged, AggregateTypeClient, c.ID),
		ClientID:        c.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// InviteCreatedEvent is published when a portal invite is issued
type InviteCreatedEvent struct {
	shared.BaseDomainEvent
	InviteID uuid.UUID `json:"invite_id"`
	ClientID uuid.UUID `json:"client_id"`
	Email    string    `json:"email"`
}

// NewInviteCreatedEvent creates a new InviteCreatedEvent
func NewInviteCreatedEvent(i *Invite) *InviteCreatedEvent {
	return &InviteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInviteCreated, AggregateTypeInvite, i.ID),
		InviteID:        i.ID,
		ClientID:        i.ClientID,
		Email:           i.Email,
	}
}

// InviteAcceptedEvent is published when a client accepts a portal invite
// Handlers move the client into onboarding
type InviteAcceptedEvent struct {
	shared.BaseDomainEvent
	InviteID uuid.UUID `json:"invite_id"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewInviteAcceptedEvent creates a new InviteAcceptedEvent
func NewInviteAcceptedEvent(i *Invite) *InviteAcceptedEvent {
	return &InviteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInviteAccepted, AggregateTypeInvite, i.ID),
		InviteID:        i.ID,
		ClientID:        i.ClientID,
	}
}
