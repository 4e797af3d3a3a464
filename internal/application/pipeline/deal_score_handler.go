package pipeline

import (
	"context"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DealTransitionScoreHandler rescores a deal whenever its pipeline status
// changes. Transitions arrive as domain events from the deal service, so
// the score refresh happens off the request path.
type DealTransitionScoreHandler struct {
	scorer *ScorerService
	logger *zap.Logger
}

// NewDealTransitionScoreHandler creates a new DealTransitionScoreHandler
func NewDealTransitionScoreHandler(scorer *ScorerService, logger *zap.Logger) *DealTransitionScoreHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DealTransitionScoreHandler{
		scorer: scorer,
		logger: logger,
	}
}

// EventTypes returns the deal transition events this handler subscribes to
func (h *DealTransitionScoreHandler) EventTypes() []string {
	return []string{
		pipeline.EventTypeDealSent,
		pipeline.EventTypeDealAccepted,
		pipeline.EventTypeDealDeclined,
	}
}

// Handle recalculates the score for the transitioned deal. Deals that left
// the active-scoring set are skipped by the scorer and produce no history row.
func (h *DealTransitionScoreHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	dealID := event.AggregateID()

	result, err := h.scorer.Recalculate(ctx, dealID, pipeline.TriggerUIAction)
	if err != nil {
		h.logger.Error("Failed to rescore deal after transition",
			zap.String("deal_id", dealID.String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	if result != nil {
		h.logger.Debug("Deal rescored after transition",
			zap.String("deal_id", dealID.String()),
			zap.String("event_type", event.EventType()),
			zap.Int("score", result.ConfidenceScore),
		)
	}
	return nil
}
