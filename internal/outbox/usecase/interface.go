// Package usecase implements the transactional outbox: the Emitter that records outgoing
// events next to the ledger change that produced them, and the relay that publishes
// pending events to the event topic.
package usecase

import (
	"context"

	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
)

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	// Create reports false when an event with the same idempotency key already exists.
	Create(ctx context.Context, event *domain.OutboxEvent) (bool, error)
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// Publisher delivers one outbox event to the downstream transport.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the interface for the outbox relay
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}
