package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/pubsub/mempubsub"

	eventsdomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
)

func TestTopicPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	topic := mempubsub.NewTopic()
	defer func() { _ = topic.Shutdown(ctx) }()
	subscription := mempubsub.NewSubscription(topic, time.Minute)
	defer func() { _ = subscription.Shutdown(ctx) }()

	event := &domain.OutboxEvent{
		IdempotencyKey: "ORDER_CREATED_EVENT:order-1",
		EventName:      eventsdomain.OrderCreatedEvent,
		Payload:        []byte(`{"detail":{"eventName":"ORDER_CREATED_EVENT"}}`),
	}

	err := NewTopicPublisher(topic).Publish(ctx, event)
	require.NoError(t, err)

	receiveCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg, err := subscription.Receive(receiveCtx)
	require.NoError(t, err)
	msg.Ack()

	assert.Equal(t, event.Payload, msg.Body)
	assert.Equal(t, "ORDER_CREATED_EVENT", msg.Metadata[MetadataEventName])
	assert.Equal(t, "ORDER_CREATED_EVENT:order-1", msg.Metadata[MetadataIdempotencyKey])
}

func TestTopicPublisher_Publish_ClosedTopic(t *testing.T) {
	ctx := context.Background()

	topic := mempubsub.NewTopic()
	require.NoError(t, topic.Shutdown(ctx))

	err := NewTopicPublisher(topic).Publish(ctx, &domain.OutboxEvent{
		EventName: eventsdomain.OrderCreatedEvent,
		Payload:   []byte(`{}`),
	})

	assert.Error(t, err)
}
