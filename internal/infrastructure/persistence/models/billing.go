package models

import (
	"time"

	"github.com/agencyos/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// BillingEventModel is the persistence model for billing audit records.
// The table is append-only.
type BillingEventModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	StripeEventID string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Type          string     `gorm:"type:varchar(50);not null;index"`
	ClientID      *uuid.UUID `gorm:"type:uuid;index"`
	DealID        *uuid.UUID `gorm:"type:uuid;index"`
	Summary       string     `gorm:"type:varchar(500)"`
	ProcessedAt   time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BillingEventModel) TableName() string {
	return "billing_events"
}

// ToDomain converts the persistence model to a domain BillingEvent.
func (m *BillingEventModel) ToDomain() *billing.BillingEvent {
	return &billing.BillingEvent{
		ID:            m.ID,
		StripeEventID: m.StripeEventID,
		Type:          m.Type,
		ClientID:      m.ClientID,
		DealID:        m.DealID,
		Summary:       m.Summary,
		ProcessedAt:   m.ProcessedAt,
	}
}

// BillingEventModelFromDomain creates a new persistence model from a domain BillingEvent.
func BillingEventModelFromDomain(e *billing.BillingEvent) *BillingEventModel {
	return &BillingEventModel{
		ID:            e.ID,
		StripeEventID: e.StripeEventID,
		Type:          e.Type,
		ClientID:      e.ClientID,
		DealID:        e.DealID,
		Summary:       e.Summary,
		ProcessedAt:   e.ProcessedAt,
	}
}
