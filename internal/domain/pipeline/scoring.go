package pipeline

import (
	"fmt"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Scoring policy constants. The weighting table is a deliberate policy choice
// and must stay stable across runs so history rows remain comparable.
const (
	scoreBase = 50

	// Penalties
	stalenessPenaltyPerWeek = 2
	stalenessPenaltyCap     = 30
	noContactPenaltySoft    = 10 // no contact for more than 14 days
	noContactPenaltyHard    = 20 // no contact for more than 30 days
	declinedPenalty         = 25

	// Bonuses
	recentViewBonus     = 3
	recentViewBonusCap  = 15
	recentCallBonus     = 10
	freshlySentBonus    = 5
	engagementWindow    = 14 * 24 * time.Hour
	freshlySentWindow   = 7 * 24 * time.Hour
	noContactSoftWindow = 14 * 24 * time.Hour
	noContactHardWindow = 30 * 24 * time.Hour
)

// ScoreResult holds the output of one scoring computation
type ScoreResult struct {
	BaseScore         int
	TotalPenalties    int
	TotalBonus        int
	ConfidenceScore   int
	ConfidencePercent float64
	WeightedMonthly   decimal.Decimal
	WeightedOnetime   decimal.Decimal
}

// ComputeScore computes the confidence score and weighted revenue for a deal
// at the given instant.
//
// The caller is responsible for checking the deal's status eligibility; this
// function scores whatever it is handed. It returns a COMPUTATION_ERROR when
// the deal's pricing data is malformed (no items, negative prices or totals),
// which batch callers convert into per-deal error entries.
func ComputeScore(deal *Deal, now time.Time) (*ScoreResult, error) {
	if err := validatePricing(deal); err != nil {
		return nil, err
	}

	penalties := 0
	bonus := 0

	// Staleness decay: the longer a proposal sits unanswered, the colder it gets
	if deal.SentAt != nil {
		weeks := int(now.Sub(*deal.SentAt).Hours() / (24 * 7))
		decay := weeks * stalenessPenaltyPerWeek
		if decay > stalenessPenaltyCap {
			decay = stalenessPenaltyCap
		}
		if decay > 0 {
			penalties += decay
		}

		if now.Sub(*deal.SentAt) <= freshlySentWindow {
			bonus += freshlySentBonus
		}
	}

	// Contact recency: fall back to the send date when no contact was ever logged
	lastContact := deal.LastContactAt
	if lastContact == nil {
		lastContact = deal.SentAt
	}
	if lastContact != nil {
		sinceContact := now.Sub(*lastContact)
		if sinceContact > noContactHardWindow {
			penalties += noContactPenaltyHard
		} else if sinceContact > noContactSoftWindow {
			penalties += noContactPenaltySoft
		}
	}

	if deal.Status == DealStatusDeclined {
		penalties += declinedPenalty
	}

	cutoff := now.Add(-engagementWindow)
	viewBonus := deal.EngagementsSince(EngagementView, cutoff) * recentViewBonus
	if viewBonus > recentViewBonusCap {
		viewBonus = recentViewBonusCap
	}
	bonus += viewBonus

	if deal.EngagementsSince(EngagementCall, cutoff) > 0 {
		bonus += recentCallBonus
	}

	score := scoreBase - penalties + bonus
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	percent := decimal.NewFromInt(int64(score)).Div(decimal.NewFromInt(100))
	percentFloat, _ := percent.Float64()

	return &ScoreResult{
		BaseScore:         scoreBase,
		TotalPenalties:    penalties,
		TotalBonus:        bonus,
		ConfidenceScore:   score,
		ConfidencePercent: percentFloat,
		WeightedMonthly:   deal.MonthlyTotal.Mul(percent),
		WeightedOnetime:   deal.OnetimeTotal.Mul(percent),
	}, nil
}

func validatePricing(deal *Deal) error {
	if len(deal.Items) == 0 {
		return shared.NewDomainError("COMPUTATION_ERROR", "Deal has no priced items")
	}
	for _, item := range deal.Items {
		if item.Quantity <= 0 {
			return shared.NewDomainError("COMPUTATION_ERROR", fmt.Sprintf("Item %s has non-positive quantity", item.ProductName))
		}
		if item.MonthlyPrice.IsNegative() || item.OnetimePrice.IsNegative() {
			return shared.NewDomainError("COMPUTATION_ERROR", fmt.Sprintf("Item %s has negative pricing", item.ProductName))
		}
	}
	if deal.MonthlyTotal.IsNegative() || deal.OnetimeTotal.IsNegative() {
		return shared.NewDomainError("COMPUTATION_ERROR", "Deal totals are negative")
	}
	return nil
}
