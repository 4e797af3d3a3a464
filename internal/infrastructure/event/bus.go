// Package event carries domain events between bounded contexts: an
// in-process bus, the handler registry, idempotent handler wrapping,
// and JSON serialization of event payloads.
package event

import (
	"context"

	"github.com/agencyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// InMemoryEventBus delivers domain events synchronously to every
// subscribed handler within the process.
type InMemoryEventBus struct {
	registry   *HandlerRegistry
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewInMemoryEventBus builds a bus with every portal event type
// registered for payload serialization.
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)
	return &InMemoryEventBus{
		registry:   NewHandlerRegistry(),
		serializer: serializer,
		logger:     logger,
	}
}

// Publish fans each event out to its handlers. A failing handler is
// logged and does not stop delivery to the others.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		b.logPublished(event)

		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit event types the
// handler's own EventTypes() declaration is used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("Event handler unsubscribed")
}

// Start marks the bus ready. Delivery is synchronous, so there is no
// background machinery to spin up.
func (b *InMemoryEventBus) Start(context.Context) error {
	b.logger.Info("Event bus started")
	return nil
}

// Stop shuts the bus down.
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.logger.Info("Event bus stopped")
	return nil
}

// logPublished writes the serialized payload at debug level only, so
// production log volume stays flat.
func (b *InMemoryEventBus) logPublished(event shared.DomainEvent) {
	if !b.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	payload, err := b.serializer.Serialize(event)
	if err != nil {
		b.logger.Debug("Event published",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return
	}
	b.logger.Debug("Event published",
		zap.String("event_type", event.EventType()),
		zap.ByteString("payload", payload),
	)
}

// dispatch isolates handler panics so one broken subscriber cannot take
// the publisher down.
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, event)
}
