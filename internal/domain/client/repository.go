package client

import (
	"context"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByEmail finds a client by email
	FindByEmail(ctx context.Context, email string) (*Client, error)

	// FindByStripeCustomerID finds a client by its linked billing customer ID
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Client, error)

	// FindAll finds all clients with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)

	// FindByStatus finds clients by status
	FindByStatus(ctx context.Context, status ClientStatus, filter shared.Filter) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, c *Client) error

	// Delete deletes a client (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts clients with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if a client with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// InviteRepository defines the interface for invite persistence
type InviteRepository interface {
	// FindByID finds an invite by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invite, error)

	// FindByClient finds all invites for a client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Invite, error)

	// FindPendingByEmail finds pending invites for an email address.
	// Accept flows scan these for a token match since only hashes are stored.
	FindPendingByEmail(ctx context.Context, email string) ([]Invite, error)

	// Save creates or updates an invite
	Save(ctx context.Context, invite *Invite) error

	// Delete deletes an invite
	Delete(ctx context.Context, id uuid.UUID) error
}
