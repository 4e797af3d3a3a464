package client

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InviteService handles portal invite issuance and acceptance
type InviteService struct {
	inviteRepo client.InviteRepository
	clientRepo client.ClientRepository
}

// NewInviteService creates a new InviteService
func NewInviteService(inviteRepo client.InviteRepository, clientRepo client.ClientRepository) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		clientRepo: clientRepo,
	}
}

// Create issues a new invite for a client. The raw token is returned exactly
// once in the response; only a hash of it is persisted.
func (s *InviteService) Create(ctx context.Context, clientID uuid.UUID, req CreateInviteRequest) (*InviteResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c.IsChurned() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot invite a churned client")
	}

	email := c.Email
	if req.Email != "" {
		email = req.Email
	}

	// Revoke any still-pending invites for the client so only one token is live
	existing, err := s.inviteRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].IsPending() {
			if err := existing[i].Revoke(); err != nil {
				return nil, err
			}
			if err := s.inviteRepo.Save(ctx, &existing[i]); err != nil {
				return nil, err
			}
		}
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	invite, err := client.NewInvite(clientID, email, token, client.DefaultInviteTTL)
	if err != nil {
		return nil, err
	}

	if err := s.inviteRepo.Save(ctx, invite); err != nil {
		return nil, err
	}

	response := ToInviteResponse(invite)
	response.Token = token
	return &response, nil
}

// ListByClient lists all invites for a client
func (s *InviteService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]InviteResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, err
	}

	invites, err := s.inviteRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	responses := make([]InviteResponse, len(invites))
	for i := range invites {
		responses[i] = ToInviteResponse(&invites[i])
	}
	return responses, nil
}

// Accept validates a raw token against the pending invites for the email and
// moves the matching invite to accepted. The owning client enters onboarding
// when still a prospect.
func (s *InviteService) Accept(ctx context.Context, req AcceptInviteRequest) (*ClientResponse, error) {
	invites, err := s.inviteRepo.FindPendingByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	var matched *client.Invite
	for i := range invites {
		if invites[i].MatchesToken(req.Token) {
			matched = &invites[i]
			break
		}
	}
	if matched == nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "No matching invite for this token")
	}

	if err := matched.Accept(time.Now()); err != nil {
		// persist the expired flag so the invite is not rescanned
		_ = s.inviteRepo.Save(ctx, matched)
		return nil, err
	}

	if err := s.inviteRepo.Save(ctx, matched); err != nil {
		return nil, err
	}

	c, err := s.clientRepo.FindByID(ctx, matched.ClientID)
	if err != nil {
		return nil, err
	}

	if c.Status == client.ClientStatusProspect {
		if err := c.StartOnboarding(); err != nil {
			return nil, err
		}
		if err := s.clientRepo.Save(ctx, c); err != nil {
			return nil, err
		}
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Resend rotates the token of a pending or expired invite and extends its
// validity window. The fresh raw token is returned once.
func (s *InviteService) Resend(ctx context.Context, inviteID uuid.UUID) (*InviteResponse, error) {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	if err := invite.Renew(token, client.DefaultInviteTTL); err != nil {
		return nil, err
	}

	if err := s.inviteRepo.Save(ctx, invite); err != nil {
		return nil, err
	}

	response := ToInviteResponse(invite)
	response.Token = token
	return &response, nil
}

// Revoke invalidates a pending invite
func (s *InviteService) Revoke(ctx context.Context, inviteID uuid.UUID) (*InviteResponse, error) {
	invite, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	if err := invite.Revoke(); err != nil {
		return nil, err
	}

	if err := s.inviteRepo.Save(ctx, invite); err != nil {
		return nil, err
	}

	response := ToInviteResponse(invite)
	return &response, nil
}

// generateInviteToken produces a 32-byte random token, hex encoded
func generateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate invite token")
	}
	return hex.EncodeToString(buf), nil
}
