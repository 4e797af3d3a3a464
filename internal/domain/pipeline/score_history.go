package pipeline

import (
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TriggerSource identifies the caller category that initiated a recalculation
type TriggerSource string

const (
	TriggerManualRefresh TriggerSource = "manual_refresh"
	TriggerWebhook       TriggerSource = "webhook"
	TriggerCron          TriggerSource = "cron"
	TriggerUIAction      TriggerSource = "ui_action"
)

// IsValid checks if the trigger source is one of the known caller categories
func (t TriggerSource) IsValid() bool {
	switch t {
	case TriggerManualRefresh, TriggerWebhook, TriggerCron, TriggerUIAction:
		return true
	}
	return false
}

// String returns the string representation of TriggerSource
func (t TriggerSource) String() string {
	return string(t)
}

// ScoreHistoryEntry is an immutable, append-only record of one scoring run
// for a deal. Entries are created solely by the scorer, never updated or
// deleted, and retained indefinitely for trend analysis.
type ScoreHistoryEntry struct {
	ID                uuid.UUID
	DealID            uuid.UUID
	ConfidenceScore   int             // 0-100 integer band
	ConfidencePercent float64         // [0,1] probability mapping
	WeightedMonthly   decimal.Decimal // MonthlyTotal * ConfidencePercent
	WeightedOnetime   decimal.Decimal // OnetimeTotal * ConfidencePercent
	TriggerSource     TriggerSource
	ScoredAt          time.Time
}

// NewScoreHistoryEntry creates a new score history entry from a scoring result
func NewScoreHistoryEntry(dealID uuid.UUID, result ScoreResult, trigger TriggerSource, scoredAt time.Time) (*ScoreHistoryEntry, error) {
	if dealID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEAL", "Deal ID cannot be empty")
	}
	if !trigger.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRIGGER", "Unknown trigger source")
	}
	if result.ConfidenceScore < 0 || result.ConfidenceScore > 100 {
		return nil, shared.NewDomainError("INVALID_SCORE", "Confidence score must be within [0,100]")
	}
	if result.ConfidencePercent < 0 || result.ConfidencePercent > 1 {
		return nil, shared.NewDomainError("INVALID_SCORE", "Confidence percent must be within [0,1]")
	}

	return &ScoreHistoryEntry{
		ID:                uuid.New(),
		DealID:            dealID,
		ConfidenceScore:   result.ConfidenceScore,
		ConfidencePercent: result.ConfidencePercent,
		WeightedMonthly:   result.WeightedMonthly,
		WeightedOnetime:   result.WeightedOnetime,
		TriggerSource:     trigger,
		ScoredAt:          scoredAt,
	}, nil
}
