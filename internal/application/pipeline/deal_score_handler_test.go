package pipeline

import (
	"context"
	"testing"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDealTransitionScoreHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("subscribes to transition events only", func(t *testing.T) {
		h := NewDealTransitionScoreHandler(nil, nil)

		types := h.EventTypes()
		assert.ElementsMatch(t, []string{
			pipeline.EventTypeDealSent,
			pipeline.EventTypeDealAccepted,
			pipeline.EventTypeDealDeclined,
		}, types)
		assert.NotContains(t, types, pipeline.EventTypeDealCreated)
	})

	t.Run("rescores the deal on a sent event", func(t *testing.T) {
		dealRepo := new(MockDealRepository)
		historyRepo := new(MockScoreHistoryRepository)
		scorer := newScorer(dealRepo, historyRepo, ScorerConfig{})
		h := NewDealTransitionScoreHandler(scorer, zap.NewNop())

		deal := sentTestDeal(t, 0)
		dealRepo.On("FindByID", ctx, deal.ID).Return(deal, nil)
		historyRepo.On("Append", ctx, mock.AnythingOfType("*pipeline.ScoreHistoryEntry")).Return(nil)

		err := h.Handle(ctx, pipeline.NewDealSentEvent(deal))
		require.NoError(t, err)
		historyRepo.AssertNumberOfCalls(t, "Append", 1)
	})

	t.Run("accepted deals are skipped without error", func(t *testing.T) {
		dealRepo := new(MockDealRepository)
		historyRepo := new(MockScoreHistoryRepository)
		scorer := newScorer(dealRepo, historyRepo, ScorerConfig{})
		h := NewDealTransitionScoreHandler(scorer, zap.NewNop())

		deal := sentTestDeal(t, 0)
		require.NoError(t, deal.Accept())
		dealRepo.On("FindByID", ctx, deal.ID).Return(deal, nil)

		err := h.Handle(ctx, pipeline.NewDealAcceptedEvent(deal))
		require.NoError(t, err)
		historyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("propagates scorer failures", func(t *testing.T) {
		dealRepo := new(MockDealRepository)
		historyRepo := new(MockScoreHistoryRepository)
		scorer := newScorer(dealRepo, historyRepo, ScorerConfig{})
		h := NewDealTransitionScoreHandler(scorer, zap.NewNop())

		deal := sentTestDeal(t, 0)
		dealRepo.On("FindByID", ctx, deal.ID).Return(nil, shared.ErrNotFound)

		err := h.Handle(ctx, pipeline.NewDealSentEvent(deal))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
