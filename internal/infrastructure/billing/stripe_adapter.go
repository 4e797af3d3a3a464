// Package billing integrates the portal with Stripe: customer
// provisioning here, webhook ingestion in the HTTP layer.
package billing

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/customer"
	"go.uber.org/zap"
)

// StripeAdapter provisions and reads Stripe customers for portal
// clients. The client_id always travels in customer metadata so webhook
// events can be traced back to the owning client.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter validates the config and installs the API key.
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.InitStripeClient()

	return &StripeAdapter{config: config, logger: logger}, nil
}

// CreateCustomer creates the Stripe customer backing a portal client.
func (a *StripeAdapter) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerOutput, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
		Name:  stripe.String(input.Name),
	}
	if input.Description != "" {
		params.Description = stripe.String(input.Description)
	}
	if input.Phone != "" {
		params.Phone = stripe.String(input.Phone)
	}

	params.Metadata = map[string]string{"client_id": input.ClientID.String()}
	maps.Copy(params.Metadata, input.Metadata)

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("client_id", input.ClientID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("client_id", input.ClientID.String()),
		zap.String("customer_id", cust.ID))

	return customerOutput(cust), nil
}

// GetCustomer fetches a customer by its Stripe ID.
func (a *StripeAdapter) GetCustomer(ctx context.Context, customerID string) (*CustomerOutput, error) {
	cust, err := customer.Get(customerID, nil)
	if err != nil {
		a.logger.Error("Failed to get Stripe customer",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: get customer: %w", err)
	}
	return customerOutput(cust), nil
}

func customerOutput(cust *stripe.Customer) *CustomerOutput {
	return &CustomerOutput{
		CustomerID: cust.ID,
		Email:      cust.Email,
		Name:       cust.Name,
		CreatedAt:  time.Unix(cust.Created, 0),
	}
}
