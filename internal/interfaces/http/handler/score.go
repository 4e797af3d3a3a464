package handler

import (
	"strconv"

	pipelineapp "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScoreHandler handles pipeline scoring API endpoints
type ScoreHandler struct {
	BaseHandler
	scorerService *pipelineapp.ScorerService
}

// NewScoreHandler creates a new ScoreHandler
func NewScoreHandler(scorerService *pipelineapp.ScorerService) *ScoreHandler {
	return &ScoreHandler{
		scorerService: scorerService,
	}
}

// Recalculate recomputes the confidence score for one deal or a batch.
// Exactly one of deal_id or deal_ids must be provided.
// POST /api/v1/pipeline/scores/recalculate
func (h *ScoreHandler) Recalculate(c *gin.Context) {
	var req pipelineapp.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	hasSingle := req.DealID != nil
	hasBatch := len(req.DealIDs) > 0
	if hasSingle == hasBatch {
		h.BadRequest(c, "Exactly one of deal_id or deal_ids must be provided")
		return
	}

	ctx := c.Request.Context()

	if hasSingle {
		score, err := h.scorerService.Recalculate(ctx, *req.DealID, pipeline.TriggerManualRefresh)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, score)
		return
	}

	results, err := h.scorerService.RecalculateBatch(ctx, req.DealIDs, pipeline.TriggerManualRefresh)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, results)
}

// RecalculateAll recomputes scores for every open deal. With force=true,
// deals whose inputs are unchanged are rescored anyway.
// POST /api/v1/pipeline/scores/recalculate-all?force=true
func (h *ScoreHandler) RecalculateAll(c *gin.Context) {
	force, err := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if err != nil {
		h.BadRequest(c, "Invalid force parameter, expected true or false")
		return
	}

	result, err := h.scorerService.RecalculateAllActive(c.Request.Context(), pipeline.TriggerManualRefresh, force)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// History returns all scoring runs for a deal in chronological order,
// oldest first.
// GET /api/v1/pipeline/deals/:id/score-history
func (h *ScoreHandler) History(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	history, err := h.scorerService.History(c.Request.Context(), dealID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}

// Latest returns the most recent score for a deal.
// GET /api/v1/pipeline/deals/:id/score
func (h *ScoreHandler) Latest(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid deal ID format")
		return
	}

	score, err := h.scorerService.Latest(c.Request.Context(), dealID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, score)
}
