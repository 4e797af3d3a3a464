package billing

import (
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventType classifies the webhook events the portal records
type EventType string

const (
	EventInvoicePaid          EventType = "invoice.paid"
	EventInvoicePaymentFailed EventType = "invoice.payment_failed"
	EventCheckoutCompleted    EventType = "checkout.session.completed"
	EventSubscriptionCreated  EventType = "customer.subscription.created"
	EventSubscriptionUpdated  EventType = "customer.subscription.updated"
	EventSubscriptionDeleted  EventType = "customer.subscription.deleted"
)

// BillingEvent is an immutable audit record of a processed payment-provider
// webhook event. Deduplication happens in the idempotency store before a
// record is written; the table itself is append-only.
type BillingEvent struct {
	ID            uuid.UUID
	StripeEventID string
	Type          string
	ClientID      *uuid.UUID // Resolved portal client, when the payload maps to one
	DealID        *uuid.UUID // Deal affected by the event, when applicable
	Summary       string     // Short human-readable excerpt of the payload
	ProcessedAt   time.Time
}

// NewBillingEvent creates a new billing event record
func NewBillingEvent(stripeEventID, eventType, summary string) (*BillingEvent, error) {
	if stripeEventID == "" {
		return nil, shared.NewDomainError("INVALID_EVENT", "Stripe event ID cannot be empty")
	}
	if eventType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event type cannot be empty")
	}

	return &BillingEvent{
		ID:            uuid.New(),
		StripeEventID: stripeEventID,
		Type:          eventType,
		Summary:       summary,
		ProcessedAt:   time.Now(),
	}, nil
}

// LinkClient associates the event with a portal client
func (e *BillingEvent) LinkClient(clientID uuid.UUID) {
	if clientID != uuid.Nil {
		e.ClientID = &clientID
	}
}

// LinkDeal associates the event with a deal
func (e *BillingEvent) LinkDeal(dealID uuid.UUID) {
	if dealID != uuid.Nil {
		e.DealID = &dealID
	}
}
