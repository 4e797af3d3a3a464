package billing

import (
	"time"

	"github.com/google/uuid"
)

// CreateCustomerInput contains the data for creating a Stripe customer
type CreateCustomerInput struct {
	ClientID    uuid.UUID
	Name        string
	Email       string
	Phone       string
	Description string
	Metadata    map[string]string
}

// CustomerOutput contains the Stripe customer data returned by the adapter
type CustomerOutput struct {
	CustomerID string
	Email      string
	Name       string
	CreatedAt  time.Time
}
