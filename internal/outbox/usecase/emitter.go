package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/mutchinick/ecomm-workers/internal/database"
	eventsdomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// Emitter writes outgoing events to the outbox. It runs on the transaction carried by ctx,
// so an emission commits or rolls back together with the ledger write beside it.
type Emitter struct {
	outboxRepo OutboxEventRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewEmitter creates a new Emitter
func NewEmitter(outboxRepo OutboxEventRepository, logger *slog.Logger) *Emitter {
	return &Emitter{
		outboxRepo: outboxRepo,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Emit records the event. An event whose idempotency key was already recorded is a no-op
// success.
func (e *Emitter) Emit(ctx context.Context, event eventsdomain.OutgoingEvent) outcome.Outcome[outcome.Void] {
	row, err := domain.NewOutboxEvent(event, e.now())
	if err != nil {
		return outcome.Failure[outcome.Void](outcome.KindUnrecognized, err, true)
	}

	inserted, err := e.outboxRepo.Create(ctx, row)
	if err != nil {
		return database.StorageFailure[outcome.Void](err, "failed to write outbox event")
	}

	if !inserted && e.logger != nil {
		e.logger.Debug("outbox event already recorded",
			slog.String("event_name", string(event.EventName)),
			slog.String("idempotency_key", event.IdempotencyKey),
		)
	}

	return outcome.Done()
}
