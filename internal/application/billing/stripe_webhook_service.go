package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apppipeline "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/agencyos/backend/internal/domain/billing"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	infrabilling "github.com/agencyos/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// DealScorer rescores deals after billing activity. Satisfied by the
// pipeline scorer service.
type DealScorer interface {
	RecalculateBatch(ctx context.Context, dealIDs []uuid.UUID, trigger pipeline.TriggerSource) ([]apppipeline.BatchScoreResult, error)
}

// StripeWebhookService handles Stripe webhook events
type StripeWebhookService struct {
	config      *infrabilling.StripeConfig
	clientRepo  client.ClientRepository
	dealRepo    pipeline.DealRepository
	eventRepo   billing.BillingEventRepository
	idempotency shared.IdempotencyStore
	scorer      DealScorer
	logger      *zap.Logger
}

// StripeWebhookServiceConfig contains configuration for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Config      *infrabilling.StripeConfig
	ClientRepo  client.ClientRepository
	DealRepo    pipeline.DealRepository
	EventRepo   billing.BillingEventRepository
	Idempotency shared.IdempotencyStore
	Scorer      DealScorer
	Logger      *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeWebhookService{
		config:      cfg.Config,
		clientRepo:  cfg.ClientRepo,
		dealRepo:    cfg.DealRepo,
		eventRepo:   cfg.EventRepo,
		idempotency: cfg.Idempotency,
		scorer:      cfg.Scorer,
		logger:      logger,
	}
}

// ProcessWebhook verifies, deduplicates, and dispatches a Stripe webhook event
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Error("Failed to verify webhook signature",
			zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	// Stripe retries deliveries; the same event ID may arrive more than once
	newlyMarked, err := s.idempotency.MarkProcessed(ctx, event.ID, shared.DefaultIdempotencyConfig().TTL)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !newlyMarked {
		s.logger.Info("Skipping duplicate webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		result.Processed = false
		result.Duplicate = true
		result.Message = "Event already processed"
		return result, nil
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = s.handleInvoicePaymentFailed(ctx, event)
	case "checkout.session.completed":
		err = s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.created":
		err = s.handleSubscriptionCreated(ctx, event)
	case "customer.subscription.updated":
		err = s.handleSubscriptionEvent(ctx, event, billing.EventSubscriptionUpdated)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionEvent(ctx, event, billing.EventSubscriptionDeleted)
	default:
		s.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handleInvoicePaid handles invoice.paid events
func (s *StripeWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	c, err := s.resolveClient(ctx, invoiceCustomerID(&invoice))
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Invoice %s paid (%d %s)", invoice.ID, invoice.AmountPaid, invoice.Currency)
	if err := s.recordEvent(ctx, event.ID, billing.EventInvoicePaid, summary, c, uuid.Nil); err != nil {
		return err
	}

	// A paid retainer is a strong engagement signal for any open proposal
	return s.rescoreClientDeals(ctx, c)
}

// handleInvoicePaymentFailed handles invoice.payment_failed events
func (s *StripeWebhookService) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	c, err := s.resolveClient(ctx, invoiceCustomerID(&invoice))
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Invoice %s payment failed (%d %s)", invoice.ID, invoice.AmountDue, invoice.Currency)
	if err := s.recordEvent(ctx, event.ID, billing.EventInvoicePaymentFailed, summary, c, uuid.Nil); err != nil {
		return err
	}

	return s.rescoreClientDeals(ctx, c)
}

// handleCheckoutCompleted handles checkout.session.completed events.
// Checkout sessions created for a proposal carry the deal ID in their
// metadata; a completed session means the client paid, so the deal is
// accepted.
func (s *StripeWebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	c, err := s.resolveClient(ctx, customerID)
	if err != nil {
		return err
	}

	dealID := uuid.Nil
	if raw, ok := session.Metadata["deal_id"]; ok {
		parsed, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			s.logger.Warn("Checkout session has malformed deal_id metadata",
				zap.String("session_id", session.ID),
				zap.String("deal_id", raw))
		} else {
			dealID = parsed
		}
	}

	if dealID != uuid.Nil {
		if err := s.acceptDeal(ctx, dealID); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("Checkout session %s completed", session.ID)
	return s.recordEvent(ctx, event.ID, billing.EventCheckoutCompleted, summary, c, dealID)
}

// handleSubscriptionCreated handles customer.subscription.created events.
// The first subscription marks the end of onboarding for new clients.
func (s *StripeWebhookService) handleSubscriptionCreated(ctx context.Context, event stripe.Event) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}
	c, err := s.resolveClient(ctx, customerID)
	if err != nil {
		return err
	}

	if c != nil && c.Status == client.ClientStatusOnboarding {
		if err := c.Activate(); err != nil {
			return fmt.Errorf("failed to activate client: %w", err)
		}
		if err := s.clientRepo.Save(ctx, c); err != nil {
			return fmt.Errorf("failed to save client: %w", err)
		}
		s.logger.Info("Activated client on first subscription",
			zap.String("client_id", c.ID.String()),
			zap.String("subscription_id", subscription.ID))
	}

	summary := fmt.Sprintf("Subscription %s created (%s)", subscription.ID, subscription.Status)
	return s.recordEvent(ctx, event.ID, billing.EventSubscriptionCreated, summary, c, uuid.Nil)
}

// handleSubscriptionEvent records subscription lifecycle events that need no
// client state change
func (s *StripeWebhookService) handleSubscriptionEvent(ctx context.Context, event stripe.Event, eventType billing.EventType) error {
	var subscription stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	customerID := ""
	if subscription.Customer != nil {
		customerID = subscription.Customer.ID
	}
	c, err := s.resolveClient(ctx, customerID)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Subscription %s %s (%s)", subscription.ID, eventType, subscription.Status)
	return s.recordEvent(ctx, event.ID, eventType, summary, c, uuid.Nil)
}

// resolveClient maps a Stripe customer ID to a portal client.
// Note: ErrNotFound is not treated as an error because webhooks may arrive
// before the client is linked, or for customers not in our system. We
// acknowledge receipt to prevent Stripe retries.
func (s *StripeWebhookService) resolveClient(ctx context.Context, customerID string) (*client.Client, error) {
	if customerID == "" {
		return nil, nil
	}

	c, err := s.clientRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("No client linked to Stripe customer",
				zap.String("customer_id", customerID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return c, nil
}

// recordEvent appends an audit record for a processed webhook event
func (s *StripeWebhookService) recordEvent(ctx context.Context, stripeEventID string, eventType billing.EventType, summary string, c *client.Client, dealID uuid.UUID) error {
	record, err := billing.NewBillingEvent(stripeEventID, string(eventType), summary)
	if err != nil {
		return err
	}
	if c != nil {
		record.LinkClient(c.ID)
	}
	record.LinkDeal(dealID)

	if err := s.eventRepo.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to record billing event: %w", err)
	}
	return nil
}

// acceptDeal moves a paid proposal to accepted. Deals already accepted are
// left alone so replayed sessions stay harmless.
func (s *StripeWebhookService) acceptDeal(ctx context.Context, dealID uuid.UUID) error {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Checkout session references unknown deal",
				zap.String("deal_id", dealID.String()))
			return nil
		}
		return fmt.Errorf("failed to find deal: %w", err)
	}

	if deal.Status == pipeline.DealStatusAccepted {
		return nil
	}

	if err := deal.Accept(); err != nil {
		return fmt.Errorf("failed to accept deal: %w", err)
	}
	if err := s.dealRepo.SaveWithLock(ctx, deal); err != nil {
		return fmt.Errorf("failed to save deal: %w", err)
	}

	s.logger.Info("Accepted deal from completed checkout",
		zap.String("deal_id", dealID.String()))
	return nil
}

// rescoreClientDeals refreshes confidence scores for the client's open deals
func (s *StripeWebhookService) rescoreClientDeals(ctx context.Context, c *client.Client) error {
	if c == nil || s.scorer == nil {
		return nil
	}

	deals, err := s.dealRepo.FindByClient(ctx, c.ID, shared.DefaultFilter())
	if err != nil {
		return fmt.Errorf("failed to list client deals: %w", err)
	}

	dealIDs := make([]uuid.UUID, 0, len(deals))
	for i := range deals {
		if deals[i].Status.IsActiveScoring() {
			dealIDs = append(dealIDs, deals[i].ID)
		}
	}
	if len(dealIDs) == 0 {
		return nil
	}

	// Scoring failures are logged by the scorer; they never fail the webhook
	if _, err := s.scorer.RecalculateBatch(ctx, dealIDs, pipeline.TriggerWebhook); err != nil {
		s.logger.Warn("Failed to rescore deals after billing event",
			zap.String("client_id", c.ID.String()),
			zap.Error(err))
	}
	return nil
}

func invoiceCustomerID(invoice *stripe.Invoice) string {
	if invoice.Customer != nil {
		return invoice.Customer.ID
	}
	return ""
}
