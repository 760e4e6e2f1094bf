package usecase

import (
	"context"

	"gocloud.dev/pubsub"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
)

// Message metadata keys set on every published event.
const (
	MetadataEventName      = "eventName"
	MetadataIdempotencyKey = "idempotencyKey"
)

// TopicPublisher publishes outbox events to a gocloud.dev pubsub topic.
type TopicPublisher struct {
	topic *pubsub.Topic
}

// NewTopicPublisher creates a new TopicPublisher
func NewTopicPublisher(topic *pubsub.Topic) *TopicPublisher {
	return &TopicPublisher{topic: topic}
}

// Publish sends the event envelope as the message body.
func (p *TopicPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	err := p.topic.Send(ctx, &pubsub.Message{
		Body: event.Payload,
		Metadata: map[string]string{
			MetadataEventName:      string(event.EventName),
			MetadataIdempotencyKey: event.IdempotencyKey,
		},
	})
	if err != nil {
		return apperrors.Wrapf(err, "failed to publish %s", event.EventName)
	}
	return nil
}
