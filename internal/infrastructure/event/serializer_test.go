package event

import (
	"testing"

	"github.com/agencyos/backend/internal/domain/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTripsDealSentEvent(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	original := sentDealEvent(t)
	payload, err := serializer.Serialize(original)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "SEO retainer renewal")

	decoded, err := serializer.Deserialize(pipeline.EventTypeDealSent, payload)
	require.NoError(t, err)

	sent, ok := decoded.(*pipeline.DealSentEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), sent.EventID())
	assert.Equal(t, original.DealID, sent.DealID)
	assert.Equal(t, original.Title, sent.Title)
}

func TestEventSerializer_UnknownTypeErrors(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("DealTeleported", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_MalformedPayloadErrors(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	_, err := serializer.Deserialize(pipeline.EventTypeDealSent, []byte(`{not json`))
	require.Error(t, err)
}

func TestEventSerializer_IsRegistered(t *testing.T) {
	serializer := NewEventSerializer()
	assert.False(t, serializer.IsRegistered(pipeline.EventTypeDealSent))

	RegisterAllEvents(serializer)
	assert.True(t, serializer.IsRegistered(pipeline.EventTypeDealSent))
	assert.True(t, serializer.IsRegistered(pipeline.EventTypeDealAccepted))
	assert.False(t, serializer.IsRegistered("DealTeleported"))
}
