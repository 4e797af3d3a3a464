package client

import (
	"context"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client lifecycle business operations
type ClientService struct {
	clientRepo     client.ClientRepository
	eventPublisher shared.EventPublisher
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo client.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
	}
}

// SetEventPublisher sets the publisher for client domain events.
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ClientService) publishEvents(ctx context.Context, c *client.Client) {
	if s.eventPublisher == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	c.ClearDomainEvents()
}

// Create creates a new client in prospect status
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	exists, err := s.clientRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this email already exists")
	}

	c, err := client.NewClient(req.Name, req.Company, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		if err := c.Update(req.Name, req.Company, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		c.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	response := ToClientResponse(c)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update updates a client's basic information
func (s *ClientService) Update(ctx context.Context, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Company != nil || req.Phone != nil {
		name := c.Name
		company := c.Company
		phone := c.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.Company != nil {
			company = *req.Company
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := c.Update(name, company, phone); err != nil {
			return nil, err
		}
	}

	if req.Email != nil && *req.Email != c.Email {
		exists, err := s.clientRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this email already exists")
		}
		if err := c.UpdateEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	response := ToClientResponse(c)
	return &response, nil
}

// StartOnboarding moves a client into onboarding
func (s *ClientService) StartOnboarding(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, clientID, func(c *client.Client) error { return c.StartOnboarding() })
}

// Activate marks a client as fully onboarded
func (s *ClientService) Activate(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, clientID, func(c *client.Client) error { return c.Activate() })
}

// Churn marks a client as churned
func (s *ClientService) Churn(ctx context.Context, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, clientID, func(c *client.Client) error { return c.Churn() })
}

func (s *ClientService) transition(ctx context.Context, clientID uuid.UUID, op func(*client.Client) error) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := op(c); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	response := ToClientResponse(c)
	return &response, nil
}

// Delete deletes a client
func (s *ClientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return err
	}

	return s.clientRepo.Delete(ctx, clientID)
}
