package billing

import (
	"context"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/shared"
	infrabilling "github.com/agencyos/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerGateway is the outbound port for creating billing customers.
// Satisfied by the Stripe adapter.
type CustomerGateway interface {
	CreateCustomer(ctx context.Context, input infrabilling.CreateCustomerInput) (*infrabilling.CustomerOutput, error)
}

// CustomerService links portal clients to billing customers
type CustomerService struct {
	clientRepo client.ClientRepository
	gateway    CustomerGateway
	logger     *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(clientRepo client.ClientRepository, gateway CustomerGateway, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		clientRepo: clientRepo,
		gateway:    gateway,
		logger:     logger,
	}
}

// LinkCustomer creates a billing customer for the client and stores the link.
// Clients that already carry a customer ID are returned as-is.
func (s *CustomerService) LinkCustomer(ctx context.Context, clientID uuid.UUID, req LinkCustomerRequest) (*LinkCustomerResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if c.StripeCustomerID != "" {
		return &LinkCustomerResponse{
			ClientID:         c.ID,
			StripeCustomerID: c.StripeCustomerID,
		}, nil
	}

	if s.gateway == nil {
		return nil, shared.NewDomainError("GATEWAY_UNAVAILABLE", "Billing gateway is not configured")
	}

	output, err := s.gateway.CreateCustomer(ctx, infrabilling.CreateCustomerInput{
		ClientID:    c.ID,
		Name:        c.Company,
		Email:       c.Email,
		Phone:       c.Phone,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	if err := c.SetStripeCustomerID(output.CustomerID); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Linked client to billing customer",
		zap.String("client_id", c.ID.String()),
		zap.String("customer_id", output.CustomerID))

	return &LinkCustomerResponse{
		ClientID:         c.ID,
		StripeCustomerID: output.CustomerID,
	}, nil
}
