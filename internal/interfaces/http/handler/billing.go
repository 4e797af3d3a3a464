package handler

import (
	"io"
	"net/http"

	billingapp "github.com/agencyos/backend/internal/application/billing"
	"github.com/agencyos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxWebhookBodySize caps webhook payloads at 64KB. Stripe events are
// far smaller; anything bigger is not a legitimate delivery.
const MaxWebhookBodySize = 64 * 1024

// BillingHandler handles billing API endpoints including the Stripe webhook
type BillingHandler struct {
	BaseHandler
	customerService *billingapp.CustomerService
	eventService    *billingapp.BillingEventService
	webhookService  *billingapp.StripeWebhookService
	logger          *zap.Logger
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	customerService *billingapp.CustomerService,
	eventService *billingapp.BillingEventService,
	webhookService *billingapp.StripeWebhookService,
	logger *zap.Logger,
) *BillingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingHandler{
		customerService: customerService,
		eventService:    eventService,
		webhookService:  webhookService,
		logger:          logger,
	}
}

// LinkCustomer creates a Stripe customer for a client and stores the link.
// POST /api/v1/billing/clients/:id/customer
func (h *BillingHandler) LinkCustomer(c *gin.Context) {
	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req billingapp.LinkCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.customerService.LinkCustomer(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListEvents lists processed billing events with pagination.
// GET /api/v1/billing/events
func (h *BillingHandler) ListEvents(c *gin.Context) {
	var filter billingapp.BillingEventListFilter
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

	events, total, err := h.eventService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, events, total, filter.Page, filter.PageSize)
}

// HandleStripeWebhook receives Stripe webhook deliveries. The raw body is
// required for signature verification, so this handler reads it directly
// instead of binding JSON. Signature failures return 400 so Stripe stops
// retrying; processing failures return 500 so it retries later.
// POST /api/v1/webhooks/stripe (public)
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBodySize))
	if err != nil {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge, "Webhook payload too large")
		return
	}
	if len(body) == 0 {
		h.BadRequest(c, "Empty webhook payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidSignature, "Missing Stripe-Signature header")
		return
	}

	result, err := h.webhookService.ProcessWebhook(c.Request.Context(), body, signature)
	if err != nil {
		if result == nil {
			// Verification failed before dispatch
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidSignature, "Webhook signature verification failed")
			return
		}
		h.logger.Error("Webhook processing failed",
			zap.String("event_id", result.EventID),
			zap.String("event_type", result.EventType),
			zap.Error(err))
		h.InternalError(c, "Webhook processing failed")
		return
	}

	h.Success(c, result)
}
