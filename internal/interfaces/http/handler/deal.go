package handler

import (
	"context"

	pipelineapp "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DealHandler handles pipeline deal API endpoints
type DealHandler struct {
	BaseHandler
	dealService *pipelineapp.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *pipelineapp.DealService) *DealHandler {
	return &DealHandler{
		dealService: dealService,
	}
}

// Create creates a new deal in draft.
// POST /api/v1/pipeline/deals
func (h *DealHandler) Create(c *gin.Context) {
	var req pipelineapp.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, deal)
}

// GetByID retrieves a deal with its items and engagements.
// GET /api/v1/pipeline/deals/:id
func (h *DealHandler) GetByID(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	deal, err := h.dealService.GetByID(c.Request.Context(), dealID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

// List lists deals with filtering and pagination.
// GET /api/v1/pipeline/deals
func (h *DealHandler) List(c *gin.Context) {
	var filter pipelineapp.DealListFilter
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

	deals, total, err := h.dealService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, deals, total, filter.Page, filter.PageSize)
}

// Update updates a draft deal's title and notes.
// PUT /api/v1/pipeline/deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req pipelineapp.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Update(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

// Delete deletes a draft deal.
// DELETE /api/v1/pipeline/deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	if err := h.dealService.Delete(c.Request.Context(), dealID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem adds a line item priced from the service catalog.
// POST /api/v1/pipeline/deals/:id/items
func (h *DealHandler) AddItem(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req pipelineapp.AddDealItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.AddItem(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

// UpdateItem changes a line item's quantity or price overrides.
// PUT /api/v1/pipeline/deals/:id/items/:itemId
func (h *DealHandler) UpdateItem(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req pipelineapp.UpdateDealItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.UpdateItem(c.Request.Context(), dealID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

// RemoveItem removes a line item from a draft deal.
// DELETE /api/v1/pipeline/deals/:id/items/:itemId
func (h *DealHandler) RemoveItem(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	deal, err := h.dealService.RemoveItem(c.Request.Context(), dealID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

// Send transitions a deal from draft to sent.
// POST /api/v1/pipeline/deals/:id/send
func (h *DealHandler) Send(c *gin.Context) {
	h.transition(c, h.dealService.Send)
}

// Accept transitions a deal to ACCEPTED.
// POST /api/v1/pipeline/deals/:id/accept
func (h *DealHandler) Accept(c *gin.Context) {
	h.transition(c, h.dealService.Accept)
}

// Decline transitions a deal to DECLINED with an optional reason.
// POST /api/v1/pipeline/deals/:id/decline
func (h *DealHandler) Decline(c *gin.Context) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req pipelineapp.DeclineDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Decline(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

// Archive transitions a deal to archived.
// POST /api/v1/pipeline/deals/:id/archive
func (h *DealHandler) Archive(c *gin.Context) {
	h.transition(c, h.dealService.Archive)
}

// LogView records a proposal view engagement on a sent deal.
// POST /api/v1/pipeline/deals/:id/log-view
func (h *DealHandler) LogView(c *gin.Context) {
	h.logEngagement(c, h.dealService.LogView)
}

// LogCall records a call engagement on a sent deal.
// POST /api/v1/pipeline/deals/:id/log-call
func (h *DealHandler) LogCall(c *gin.Context) {
	h.logEngagement(c, h.dealService.LogCall)
}

// Summary aggregates the pipeline by deal status.
// GET /api/v1/pipeline/summary
func (h *DealHandler) Summary(c *gin.Context) {
	summary, err := h.dealService.Summary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *DealHandler) transition(c *gin.Context, op func(ctx context.Context, dealID uuid.UUID) (*pipelineapp.DealResponse, error)) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	deal, err := op(c.Request.Context(), dealID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}

func (h *DealHandler) logEngagement(c *gin.Context, op func(ctx context.Context, dealID uuid.UUID, req pipelineapp.LogEngagementRequest) (*pipelineapp.DealResponse, error)) {
	dealID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	var req pipelineapp.LogEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := op(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, deal)
}
