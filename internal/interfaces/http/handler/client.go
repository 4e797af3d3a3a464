package handler

import (
	clientapp "github.com/agencyos/backend/internal/application/client"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client and portal invite API endpoints
type ClientHandler struct {
	BaseHandler
	clientService *clientapp.ClientService
	inviteService *clientapp.InviteService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *clientapp.ClientService, inviteService *clientapp.InviteService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		inviteService: inviteService,
	}
}

// Create creates a new client as a prospect.
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req clientapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a client by its ID.
// GET /api/v1/clients/:id
func (h *ClientHandler) GetByID(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	result, err := h.clientService.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List lists clients with filtering and pagination.
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	var filter clientapp.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// Update updates a client's contact details.
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req clientapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.clientService.Update(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// StartOnboarding transitions a client from prospect to onboarding.
// POST /api/v1/clients/:id/start-onboarding
func (h *ClientHandler) StartOnboarding(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	result, err := h.clientService.StartOnboarding(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Activate transitions a client to active.
// POST /api/v1/clients/:id/activate
func (h *ClientHandler) Activate(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	result, err := h.clientService.Activate(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Churn transitions a client to churned.
// POST /api/v1/clients/:id/churn
func (h *ClientHandler) Churn(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	result, err := h.clientService.Churn(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete deletes a client with no deals.
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), clientID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateInvite issues a portal invite for a client. The plaintext token is
// returned once and never recoverable afterwards.
// POST /api/v1/clients/:id/invites
func (h *ClientHandler) CreateInvite(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req clientapp.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invite, err := h.inviteService.Create(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invite)
}

// ListInvites lists a client's invites.
// GET /api/v1/clients/:id/invites
func (h *ClientHandler) ListInvites(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	invites, err := h.inviteService.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invites)
}

// AcceptInvite redeems an invite token. This endpoint is public.
// POST /api/v1/invites/accept
func (h *ClientHandler) AcceptInvite(c *gin.Context) {
	var req clientapp.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.inviteService.Accept(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ResendInvite revokes a pending invite and issues a fresh token.
// POST /api/v1/invites/:id/resend
func (h *ClientHandler) ResendInvite(c *gin.Context) {
	inviteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invite ID format")
		return
	}

	invite, err := h.inviteService.Resend(c.Request.Context(), inviteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invite)
}

// RevokeInvite revokes a pending invite.
// POST /api/v1/invites/:id/revoke
func (h *ClientHandler) RevokeInvite(c *gin.Context) {
	inviteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invite ID format")
		return
	}

	invite, err := h.inviteService.Revoke(c.Request.Context(), inviteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invite)
}
