package pipeline

import (
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeDeal = "Deal"

// Event type constants
const (
	EventTypeDealCreated  = "DealCreated"
	EventTypeDealSent     = "DealSent"
	EventTypeDealAccepted = "DealAccepted"
	EventTypeDealDeclined = "DealDeclined"
	EventTypeDealArchived = "DealArchived"
)

// DealCreatedEvent is raised when a new deal is created
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	DealID     uuid.UUID `json:"deal_id"`
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
	Title      string    `json:"title"`
}

// NewDealCreatedEvent creates a new DealCreatedEvent
func NewDealCreatedEvent(deal *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		ClientID:        deal.ClientID,
		ClientName:      deal.ClientName,
		Title:           deal.Title,
	}
}

// EventType returns the event type name
func (e *DealCreatedEvent) EventType() string {
	return EventTypeDealCreated
}

// DealSentEvent is raised when a deal is sent to the client
// This event enrolls the client in proposal follow-up automations
type DealSentEvent struct {
	shared.BaseDomainEvent
	DealID       uuid.UUID       `json:"deal_id"`
	ClientID     uuid.UUID       `json:"client_id"`
	Title        string          `json:"title"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
	OnetimeTotal decimal.Decimal `json:"onetime_total"`
}

// NewDealSentEvent creates a new DealSentEvent
func NewDealSentEvent(deal *Deal) *DealSentEvent {
	return &DealSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealSent, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		ClientID:        deal.ClientID,
		Title:           deal.Title,
		MonthlyTotal:    deal.MonthlyTotal,
		OnetimeTotal:    deal.OnetimeTotal,
	}
}

// EventType returns the event type name
func (e *DealSentEvent) EventType() string {
	return EventTypeDealSent
}

// DealAcceptedEvent is raised when a deal is accepted
type DealAcceptedEvent struct {
	shared.BaseDomainEvent
	DealID       uuid.UUID       `json:"deal_id"`
	ClientID     uuid.UUID       `json:"client_id"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
	OnetimeTotal decimal.Decimal `json:"onetime_total"`
}

// NewDealAcceptedEvent creates a new DealAcceptedEvent
func NewDealAcceptedEvent(deal *Deal) *DealAcceptedEvent {
	return &DealAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealAccepted, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		ClientID:        deal.ClientID,
		MonthlyTotal:    deal.MonthlyTotal,
		OnetimeTotal:    deal.OnetimeTotal,
	}
}

// EventType returns the event type name
func (e *DealAcceptedEvent) EventType() string {
	return EventTypeDealAccepted
}

// DealDeclinedEvent is raised when a deal is declined
type DealDeclinedEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID `json:"deal_id"`
	Reason string    `json:"reason"`
}

// NewDealDeclinedEvent creates a new DealDeclinedEvent
func NewDealDeclinedEvent(deal *Deal) *DealDeclinedEvent {
	return &DealDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealDeclined, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
		Reason:          deal.DeclineReason,
	}
}

// EventType returns the event type name
func (e *DealDeclinedEvent) EventType() string {
	return EventTypeDealDeclined
}

// DealArchivedEvent is raised when a deal is archived
type DealArchivedEvent struct {
	shared.BaseDomainEvent
	DealID uuid.UUID `json:"deal_id"`
}

// NewDealArchivedEvent creates a new DealArchivedEvent
func NewDealArchivedEvent(deal *Deal) *DealArchivedEvent {
	return &DealArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealArchived, AggregateTypeDeal, deal.ID),
		DealID:          deal.ID,
	}
}

// EventType returns the event type name
func (e *DealArchivedEvent) EventType() string {
	return EventTypeDealArchived
}
