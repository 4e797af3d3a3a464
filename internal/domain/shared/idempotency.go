package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events
// (Stripe retries, bus redeliveries) are handled once.
type IdempotencyStore interface {
	// MarkProcessed claims an event ID for ttl. It returns true when this
	// call made the claim and false when the ID was already claimed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID holds a live claim.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig tunes deduplication. TTL bounds how long a claim
// blocks redelivery; disabled checking processes every delivery.
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig dedupes for 24 hours, which outlasts
// Stripe's webhook retry schedule.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
