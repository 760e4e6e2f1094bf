// Package worker adapts the order use cases to queue message handlers.
package worker

import (
	"context"
	"slices"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	ordersUseCase "github.com/mutchinick/ecomm-workers/internal/orders/usecase"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	"github.com/mutchinick/ecomm-workers/internal/queue"
)

// SyncOrderEvents lists the events the sync-orders worker accepts.
var SyncOrderEvents = slices.Concat(
	[]eventsDomain.EventName{eventsDomain.OrderPlacedEvent},
	eventsDomain.OrderUpdateEvents,
)

// SyncOrderHandler handles order lifecycle messages.
type SyncOrderHandler struct {
	syncOrderUseCase ordersUseCase.SyncOrderUseCase
}

// NewSyncOrderHandler creates a new SyncOrderHandler
func NewSyncOrderHandler(syncOrderUseCase ordersUseCase.SyncOrderUseCase) *SyncOrderHandler {
	return &SyncOrderHandler{syncOrderUseCase: syncOrderUseCase}
}

// Handle parses the message envelope and synchronizes the order it describes.
func (h *SyncOrderHandler) Handle(ctx context.Context, msg queue.Message) outcome.Outcome[outcome.Void] {
	event := eventsDomain.ParseIncomingEvent(msg.Body, SyncOrderEvents...)
	if event.IsFailure() {
		return outcome.Propagate[outcome.Void](event)
	}

	return outcome.Propagate[outcome.Void](h.syncOrderUseCase.Sync(ctx, event.Value()))
}
