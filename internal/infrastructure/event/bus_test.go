package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/agencyos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sentDealEvent(t *testing.T) *pipeline.DealSentEvent {
	t.Helper()
	deal, err := pipeline.NewDeal(uuid.New(), "Acme Studios", "SEO retainer renewal")
	require.NoError(t, err)
	return pipeline.NewDealSentEvent(deal)
}

// recordingHandler collects the events it receives.
type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	err        error
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

// panickyHandler blows up on every delivery.
type panickyHandler struct{}

func (panickyHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("handler exploded")
}

func (panickyHandler) EventTypes() []string { return nil }

func TestInMemoryEventBus_DeliversToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler(pipeline.EventTypeDealSent)
	bus.Subscribe(handler)

	event := sentDealEvent(t)
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Equal(t, 1, handler.count())
	assert.Equal(t, event, handler.received[0])
}

func TestInMemoryEventBus_FansOutToAllHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	scorer := newRecordingHandler(pipeline.EventTypeDealSent)
	audit := newRecordingHandler() // catch-all
	bus.Subscribe(scorer)
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(), sentDealEvent(t)))

	assert.Equal(t, 1, scorer.count())
	assert.Equal(t, 1, audit.count(), "catch-all handler sees every event")
}

func TestInMemoryEventBus_HandlerFailureDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newRecordingHandler(pipeline.EventTypeDealSent)
	failing.err = errors.New("score refresh failed")
	healthy := newRecordingHandler(pipeline.EventTypeDealSent)
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), sentDealEvent(t)))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	bus.Subscribe(panickyHandler{}, pipeline.EventTypeDealSent)
	survivor := newRecordingHandler(pipeline.EventTypeDealSent)
	bus.Subscribe(survivor)

	require.NotPanics(t, func() {
		require.NoError(t, bus.Publish(context.Background(), sentDealEvent(t)))
	})
	assert.Equal(t, 1, survivor.count())
}

func TestInMemoryEventBus_NoHandlersIsANoop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler(pipeline.EventTypeDealAccepted)
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), sentDealEvent(t)))
	assert.Zero(t, handler.count(), "accepted-deal handler must not see sent-deal events")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler(pipeline.EventTypeDealSent)
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), sentDealEvent(t)))
	require.Equal(t, 1, handler.count())

	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), sentDealEvent(t)))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_PublishesMultipleEventsInOrder(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newRecordingHandler(pipeline.EventTypeDealSent)
	bus.Subscribe(handler)

	first := sentDealEvent(t)
	second := sentDealEvent(t)
	require.NoError(t, bus.Publish(context.Background(), first, second))

	require.Equal(t, 2, handler.count())
	assert.Equal(t, first.EventID(), handler.received[0].EventID())
	assert.Equal(t, second.EventID(), handler.received[1].EventID())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}
