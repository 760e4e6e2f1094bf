package domain

import (
	"encoding/json"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
)

// OutgoingEvent is an event a worker emits downstream. IdempotencyKey is derived from the
// event name and the natural key of the entity, so re-emitting the same fact is detectable.
type OutgoingEvent struct {
	EventName      EventName
	EventData      json.RawMessage
	IdempotencyKey string
}

// NewOutgoingEvent marshals data and derives the idempotency key "<eventName>:<naturalKey>".
func NewOutgoingEvent(name EventName, naturalKey string, data any) (OutgoingEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return OutgoingEvent{}, apperrors.Wrapf(err, "failed to marshal %s data", name)
	}
	return OutgoingEvent{
		EventName:      name,
		EventData:      raw,
		IdempotencyKey: IdempotencyKey(name, naturalKey),
	}, nil
}

// IdempotencyKey builds the key that identifies one emission of an event for an entity.
func IdempotencyKey(name EventName, naturalKey string) string {
	return string(name) + ":" + naturalKey
}
