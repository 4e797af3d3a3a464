// Package cache holds the idempotency stores that keep replayed domain
// events, such as redelivered Stripe webhooks, from being handled twice.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/agencyos/backend/internal/domain/shared"
)

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// InMemoryIdempotencyStore tracks processed event IDs in a local map.
// Good for single-instance portals and tests; multiple instances each
// keep their own view, so distributed deployments want Redis instead.
type InMemoryIdempotencyStore struct {
	mu   sync.RWMutex
	seen map[string]time.Time

	done sync.Once
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewInMemoryIdempotencyStore starts the store and its janitor that
// sweeps expired IDs every few minutes.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		seen: make(map[string]time.Time),
		stop: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// MarkProcessed records the event ID for ttl. It reports true when the
// ID was new, false when a live entry already existed.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.seen[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.seen[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether the event ID has a live entry.
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.seen[eventID]
	return exists && time.Now().Before(expiresAt), nil
}

// Close stops the janitor. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.done.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

// Size reports the number of tracked IDs, expired entries included
// until the next sweep.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.seen {
		if now.After(expiresAt) {
			delete(s.seen, eventID)
		}
	}
}
