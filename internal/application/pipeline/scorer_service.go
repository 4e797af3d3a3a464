package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultStalenessThreshold gates non-force bulk runs: deals scored more
	// recently than this are skipped.
	DefaultStalenessThreshold = 6 * time.Hour

	// DefaultRecalcBudget is the wall-clock budget for a bulk run. When the
	// budget is exhausted the run stops and reports partial results.
	DefaultRecalcBudget = 120 * time.Second
)

// ScorerConfig carries the tunable knobs of the scorer
type ScorerConfig struct {
	StalenessThreshold time.Duration
	RecalcBudget       time.Duration
}

// ScorerService computes deal confidence scores and appends the results to
// the score history. It is the only writer of history rows.
type ScorerService struct {
	dealRepo    pipeline.DealRepository
	historyRepo pipeline.ScoreHistoryRepository
	logger      *zap.Logger
	cfg         ScorerConfig
}

// NewScorerService creates a new ScorerService
func NewScorerService(
	dealRepo pipeline.DealRepository,
	historyRepo pipeline.ScoreHistoryRepository,
	logger *zap.Logger,
	cfg ScorerConfig,
) *ScorerService {
	if cfg.StalenessThreshold <= 0 {
		cfg.StalenessThreshold = DefaultStalenessThreshold
	}
	if cfg.RecalcBudget <= 0 {
		cfg.RecalcBudget = DefaultRecalcBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScorerService{
		dealRepo:    dealRepo,
		historyRepo: historyRepo,
		logger:      logger,
		cfg:         cfg,
	}
}

// Recalculate scores a single deal and appends a history row.
//
// Deals whose status is outside the active-scoring set are skipped: the call
// returns (nil, nil) and no row is written. A missing deal surfaces as
// NOT_FOUND; malformed pricing surfaces as COMPUTATION_ERROR.
func (s *ScorerService) Recalculate(ctx context.Context, dealID uuid.UUID, trigger pipeline.TriggerSource) (*ScoreResponse, error) {
	if !trigger.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRIGGER", "Unknown trigger source")
	}

	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if !deal.Status.IsActiveScoring() {
		return nil, nil
	}

	entry, err := s.scoreAndAppend(ctx, deal, trigger, time.Now())
	if err != nil {
		return nil, err
	}

	response := ToScoreResponse(entry)
	return &response, nil
}

// RecalculateBatch scores a set of deals with per-deal failure isolation.
//
// The result slice is positionally aligned with dealIDs: failed slots carry
// an error code with a nil score, skipped slots carry nil for both. One bad
// deal never aborts the rest of the batch.
func (s *ScorerService) RecalculateBatch(ctx context.Context, dealIDs []uuid.UUID, trigger pipeline.TriggerSource) ([]BatchScoreResult, error) {
	if !trigger.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRIGGER", "Unknown trigger source")
	}

	results := make([]BatchScoreResult, len(dealIDs))
	now := time.Now()

	for i, dealID := range dealIDs {
		results[i].DealID = dealID

		if err := ctx.Err(); err != nil {
			msg := "CANCELLED"
			results[i].Error = &msg
			continue
		}

		deal, err := s.dealRepo.FindByID(ctx, dealID)
		if err != nil {
			code := errorCode(err)
			results[i].Error = &code
			continue
		}

		if !deal.Status.IsActiveScoring() {
			continue
		}

		entry, err := s.scoreAndAppend(ctx, deal, trigger, now)
		if err != nil {
			code := errorCode(err)
			results[i].Error = &code
			s.logger.Warn("batch scoring failed for deal",
				zap.String("deal_id", dealID.String()),
				zap.String("code", code),
				zap.Error(err))
			continue
		}

		response := ToScoreResponse(entry)
		results[i].Score = &response
	}

	return results, nil
}

// RecalculateAllActive scores every deal in the active-scoring statuses.
//
// Without force, deals scored within the staleness threshold are skipped.
// The run stops when the wall-clock budget is exhausted and reports whatever
// it finished; per-deal failures are contained and listed in Errors.
func (s *ScorerService) RecalculateAllActive(ctx context.Context, trigger pipeline.TriggerSource, force bool) (*BulkRecalcResponse, error) {
	if !trigger.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRIGGER", "Unknown trigger source")
	}

	start := time.Now()
	deadline := start.Add(s.cfg.RecalcBudget)

	rowsBefore, err := s.historyRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	deals, err := s.dealRepo.FindByStatuses(ctx, pipeline.ActiveScoringStatuses())
	if err != nil {
		return nil, err
	}

	var latest map[uuid.UUID]pipeline.ScoreHistoryEntry
	if !force {
		ids := make([]uuid.UUID, len(deals))
		for i := range deals {
			ids[i] = deals[i].ID
		}
		latest, err = s.historyRepo.FindLatestByDeals(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	result := &BulkRecalcResponse{Errors: make([]BulkRecalcError, 0)}

	for i := range deals {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("bulk recalculation cancelled",
				zap.Int("processed", result.Processed),
				zap.Int("remaining", len(deals)-i))
			break
		}
		if time.Now().After(deadline) {
			s.logger.Warn("bulk recalculation budget exhausted",
				zap.Duration("budget", s.cfg.RecalcBudget),
				zap.Int("processed", result.Processed),
				zap.Int("remaining", len(deals)-i))
			break
		}

		deal := &deals[i]
		result.Processed++

		if !force {
			if entry, ok := latest[deal.ID]; ok && start.Sub(entry.ScoredAt) < s.cfg.StalenessThreshold {
				result.Skipped++
				continue
			}
		}

		if _, err := s.scoreAndAppend(ctx, deal, trigger, time.Now()); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkRecalcError{
				DealID:  deal.ID,
				Code:    errorCode(err),
				Message: err.Error(),
			})
			continue
		}

		result.Succeeded++
	}

	rowsAfter, err := s.historyRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	result.HistoryRowsBefore = rowsBefore
	result.HistoryRowsAfter = rowsAfter
	result.DurationMs = time.Since(start).Milliseconds()

	s.logger.Info("bulk recalculation finished",
		zap.String("trigger", trigger.String()),
		zap.Bool("force", force),
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int64("duration_ms", result.DurationMs))

	return result, nil
}

// History returns the full score history for a deal, oldest first
func (s *ScorerService) History(ctx context.Context, dealID uuid.UUID) ([]ScoreResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	return ToScoreResponses(entries), nil
}

// Latest returns the most recent score for a deal, or nil when never scored
func (s *ScorerService) Latest(ctx context.Context, dealID uuid.UUID) (*ScoreResponse, error) {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return nil, err
	}

	entry, err := s.historyRepo.FindLatestByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	response := ToScoreResponse(entry)
	return &response, nil
}

// scoreAndAppend computes one deal's score and appends the history row.
// Panics from the computation are contained and reported as computation
// errors so a single corrupt deal cannot take down a batch.
func (s *ScorerService) scoreAndAppend(ctx context.Context, deal *pipeline.Deal, trigger pipeline.TriggerSource, now time.Time) (entry *pipeline.ScoreHistoryEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entry = nil
			err = shared.NewDomainError("COMPUTATION_ERROR", fmt.Sprintf("Scoring panicked: %v", r))
		}
	}()

	result, err := pipeline.ComputeScore(deal, now)
	if err != nil {
		return nil, err
	}

	entry, err = pipeline.NewScoreHistoryEntry(deal.ID, *result, trigger, now)
	if err != nil {
		return nil, err
	}

	if err := s.historyRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// errorCode extracts the domain error code, falling back to INTERNAL_ERROR
func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL_ERROR"
}
