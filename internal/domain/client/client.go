package client

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
)

// ClientStatus represents the lifecycle status of an agency client
type ClientStatus string

const (
	ClientStatusProspect   ClientStatus = "prospect"
	ClientStatusOnboarding ClientStatus = "onboarding"
	ClientStatusActive     ClientStatus = "active"
	ClientStatusChurned    ClientStatus = "churned"
)

// IsValid checks if the status is a valid ClientStatus
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusProspect, ClientStatusOnboarding, ClientStatusActive, ClientStatusChurned:
		return true
	}
	return false
}

// String returns the string representation of ClientStatus
func (s ClientStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ClientStatus) CanTransitionTo(target ClientStatus) bool {
	switch s {
	case ClientStatusProspect:
		return target == ClientStatusOnboarding || target == ClientStatusChurned
	case ClientStatusOnboarding:
		return target == ClientStatusActive || target == ClientStatusChurned
	case ClientStatusActive:
		return target == ClientStatusChurned
	case ClientStatusChurned:
		return target == ClientStatusOnboarding
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Client represents an agency client in the portal
// It is the aggregate root for client-related operations
type Client struct {
	shared.BaseAggregateRoot
	Name             string
	Company          string
	Email            string
	Phone            string
	Status           ClientStatus
	StripeCustomerID string
	Notes            string
	OnboardedAt      *time.Time
	ChurnedAt        *time.Time
}

// NewClient creates a new client in prospect status
func NewClient(name, company, email string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if company != "" && len(company) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company name cannot exceed 200 characters")
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Company:           company,
		Email:             strings.ToLower(email),
		Status:            ClientStatusProspect,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's basic information
func (c *Client) Update(name, company, phone string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if company != "" && len(company) > 200 {
		return shared.NewDomainError("INVALID_COMPANY", "Company name cannot exceed 200 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	c.Name = name
	c.Company = company
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

// UpdateEmail updates the client's email address
func (c *Client) UpdateEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	c.Email = strings.ToLower(email)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

// SetNotes sets free-form notes on the client
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetStripeCustomerID links the client to a billing customer record
func (c *Client) SetStripeCustomerID(customerID string) error {
	if customerID == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_ID", "Stripe customer ID cannot be empty")
	}
	if c.StripeCustomerID != "" && c.StripeCustomerID != customerID {
		return shared.NewDomainError("ALREADY_LINKED", "Client is already linked to a different billing customer")
	}

	c.StripeCustomerID = customerID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// HasStripeCustomer returns true if the client is linked to a billing customer
func (c *Client) HasStripeCustomer() bool {
	return c.StripeCustomerID != ""
}

// StartOnboarding moves the client into onboarding
func (c *Client) StartOnboarding() error {
	if !c.Status.CanTransitionTo(ClientStatusOnboarding) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start onboarding for client in %s status", c.Status))
	}

	oldStatus := c.Status
	c.Status = ClientStatusOnboarding
	c.ChurnedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, ClientStatusOnboarding))

	return nil
}

// Activate marks the client as fully onboarded and active
func (c *Client) Activate() error {
	if !c.Status.CanTransitionTo(ClientStatusActive) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot activate client in %s status", c.Status))
	}

	now := time.Now()
	oldStatus := c.Status
	c.Status = ClientStatusActive
	c.OnboardedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, ClientStatusActive))

	return nil
}

// Churn marks the client as churned
func (c *Client) Churn() error {
	if !c.Status.CanTransitionTo(ClientStatusChurned) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot churn client in %s status", c.Status))
	}

	now := time.Now()
	oldStatus := c.Status
	c.Status = ClientStatusChurned
	c.ChurnedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewClientStatusChangedEvent(c, oldStatus, ClientStatusChurned))

	return nil
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// IsChurned returns true if the client has churned
func (c *Client) IsChurned() bool {
	return c.Status == ClientStatusChurned
}

// validateClientName validates the client name
func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

// validateEmail validates an email address
func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
