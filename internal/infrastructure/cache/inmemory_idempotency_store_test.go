package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarksOnce(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "stripe-evt-1001", time.Hour)
	require.NoError(t, err)
	assert.True(t, first, "first delivery claims the event")

	second, err := store.MarkProcessed(ctx, "stripe-evt-1001", time.Hour)
	require.NoError(t, err)
	assert.False(t, second, "redelivery must not claim it again")
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "deal-sent-42")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "deal-sent-42", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "deal-sent-42")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ExpiredEntryCanBeReclaimed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "invoice-paid-7", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "invoice-paid-7")
	require.NoError(t, err)
	assert.False(t, processed, "expired claim reads as unprocessed")

	reclaimed, err := store.MarkProcessed(ctx, "invoice-paid-7", time.Hour)
	require.NoError(t, err)
	assert.True(t, reclaimed, "expired claim can be taken again")
}

func TestInMemoryIdempotencyStore_ConcurrentClaimsSingleWinner(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.MarkProcessed(ctx, "score-recalc-batch-9", time.Hour)
			require.NoError(t, err)
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one goroutine claims the event")
}

func TestInMemoryIdempotencyStore_SweepRemovesExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("evt-%d", i), time.Millisecond)
		require.NoError(t, err)
	}
	_, err := store.MarkProcessed(ctx, "evt-live", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 6, store.Size())

	time.Sleep(5 * time.Millisecond)
	store.sweep()

	assert.Equal(t, 1, store.Size(), "only the live claim survives the sweep")
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
