// Package domain defines the transactional outbox: events written in the same transaction
// as the ledger change that produced them and relayed to the event topic afterwards.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	eventsdomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
)

// OutboxEventStatus represents the relay status of an outbox event.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// OutboxEvent is one pending emission. IdempotencyKey is unique: writing the same key twice
// keeps the first row. Payload is the queue message body, already wrapped in an envelope.
type OutboxEvent struct {
	ID             uuid.UUID
	IdempotencyKey string
	EventName      eventsdomain.EventName
	Payload        []byte
	Status         OutboxEventStatus
	Retries        int
	LastError      *string
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOutboxEvent builds a pending outbox row for an outgoing event.
func NewOutboxEvent(event eventsdomain.OutgoingEvent, now time.Time) (*OutboxEvent, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate outbox event id")
	}

	payload, err := eventsdomain.MarshalEnvelope(eventsdomain.IncomingEvent{
		EventName:      event.EventName,
		EventData:      event.EventData,
		IdempotencyKey: event.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		ID:             id,
		IdempotencyKey: event.IdempotencyKey,
		EventName:      event.EventName,
		Payload:        payload,
		Status:         OutboxEventStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
