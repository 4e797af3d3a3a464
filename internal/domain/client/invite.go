package client

import (
	"strings"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InviteStatus represents the status of a portal invite
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"
	InviteStatusExpired  InviteStatus = "expired"
)

// IsValid checks if the status is a valid InviteStatus
func (s InviteStatus) IsValid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusRevoked, InviteStatusExpired:
		return true
	}
	return false
}

// DefaultInviteTTL is how long a freshly issued invite stays valid
const DefaultInviteTTL = 7 * 24 * time.Hour

// Invite represents a portal onboarding invitation for a client.
// The raw token is handed out exactly once at creation or renewal; only a
// bcrypt hash is kept on the aggregate.
type Invite struct {
	shared.BaseAggregateRoot
	ClientID   uuid.UUID
	Email      string
	TokenHash  string
	Status     InviteStatus
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	RevokedAt  *time.Time
}

// NewInvite creates a new pending invite for a client.
// The caller generates the raw token; the invite stores only its hash.
func NewInvite(clientID uuid.UUID, email, rawToken string, ttl time.Duration) (*Invite, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if rawToken == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invite token cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_HASH_FAILED", "Failed to hash invite token")
	}

	invite := &Invite{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		Email:             strings.ToLower(email),
		TokenHash:         string(hash),
		Status:            InviteStatusPending,
		ExpiresAt:         time.Now().Add(ttl),
	}

	invite.AddDomainEvent(NewInviteCreatedEvent(invite))

	return invite, nil
}

// MatchesToken checks the raw token against the stored hash
func (i *Invite) MatchesToken(rawToken string) bool {
	return bcrypt.CompareHashAndPassword([]byte(i.TokenHash), []byte(rawToken)) == nil
}

// IsExpired returns true if the invite validity window has passed
func (i *Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Accept marks the invite as accepted.
// An invite past its expiry is flagged expired instead and the call fails.
func (i *Invite) Accept(now time.Time) error {
	switch i.Status {
	case InviteStatusAccepted:
		return shared.NewDomainError("INVALID_STATE", "Invite was already accepted")
	case InviteStatusRevoked:
		return shared.NewDomainError("INVALID_STATE", "Invite was revoked")
	case InviteStatusExpired:
		return shared.NewDomainError("INVITE_EXPIRED", "Invite has expired")
	}

	if i.IsExpired(now) {
		i.Status = InviteStatusExpired
		i.UpdatedAt = now
		i.IncrementVersion()
		return shared.NewDomainError("INVITE_EXPIRED", "Invite has expired")
	}

	i.Status = InviteStatusAccepted
	i.AcceptedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInviteAcceptedEvent(i))

	return nil
}

// Revoke invalidates a pending invite
func (i *Invite) Revoke() error {
	if i.Status != InviteStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending invites can be revoked")
	}

	now := time.Now()
	i.Status = InviteStatusRevoked
	i.RevokedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}

// Renew rotates the token and extends the validity window of a pending or
// expired invite. Used by the resend flow.
func (i *Invite) Renew(rawToken string, ttl time.Duration) error {
	if i.Status != InviteStatusPending && i.Status != InviteStatusExpired {
		return shared.NewDomainError("INVALID_STATE", "Only pending or expired invites can be resent")
	}
	if rawToken == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Invite token cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewDomainError("TOKEN_HASH_FAILED", "Failed to hash invite token")
	}

	i.TokenHash = string(hash)
	i.Status = InviteStatusPending
	i.ExpiresAt = time.Now().Add(ttl)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsPending returns true if the invite can still be accepted
func (i *Invite) IsPending() bool {
	return i.Status == InviteStatusPending
}
