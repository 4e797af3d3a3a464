package event

import (
	"github.com/agencyos/backend/internal/domain/catalog"
	"github.com/agencyos/backend/internal/domain/client"
	"github.com/agencyos/backend/internal/domain/pipeline"
)

// RegisterAllEvents registers all domain event types with the serializer
// so event payloads can be deserialized by type name.
func RegisterAllEvents(serializer *EventSerializer) {
	// Pipeline domain - Deal events
	serializer.Register(pipeline.EventTypeDealCreated, &pipeline.DealCreatedEvent{})
	serializer.Register(pipeline.EventTypeDealSent, &pipeline.DealSentEvent{})
	serializer.Register(pipeline.EventTypeDealAccepted, &pipeline.DealAcceptedEvent{})
	serializer.Register(pipeline.EventTypeDealDeclined, &pipeline.DealDeclinedEvent{})
	serializer.Register(pipeline.EventTypeDealArchived, &pipeline.DealArchivedEvent{})

	// Catalog domain - Service events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})

	// Client domain - Client and invite events
	serializer.Register(client.EventTypeClientCreated, &client.ClientCreatedEvent{})
	serializer.Register(client.EventTypeClientUpdated, &client.ClientUpdatedEvent{})
	serializer.Register(client.EventTypeClientStatusChanged, &client.ClientStatusChangedEvent{})
	serializer.Register(client.EventTypeInviteCreated, &client.InviteCreatedEvent{})
	serializer.Register(client.EventTypeInviteAccepted, &client.InviteAcceptedEvent{})
}
