// Package worker adapts the inventory use cases to queue message handlers.
package worker

import (
	"context"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	inventoryUseCase "github.com/mutchinick/ecomm-workers/internal/inventory/usecase"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	"github.com/mutchinick/ecomm-workers/internal/queue"
)

// RestockSkuHandler handles SKU_RESTOCKED_EVENT messages.
type RestockSkuHandler struct {
	restockSkuUseCase inventoryUseCase.RestockSkuUseCase
}

// NewRestockSkuHandler creates a new RestockSkuHandler
func NewRestockSkuHandler(restockSkuUseCase inventoryUseCase.RestockSkuUseCase) *RestockSkuHandler {
	return &RestockSkuHandler{restockSkuUseCase: restockSkuUseCase}
}

// Handle parses the message envelope and records the restock.
func (h *RestockSkuHandler) Handle(ctx context.Context, msg queue.Message) outcome.Outcome[outcome.Void] {
	event := eventsDomain.ParseIncomingEvent(msg.Body, eventsDomain.SkuRestockedEvent)
	if event.IsFailure() {
		return outcome.Propagate[outcome.Void](event)
	}

	return outcome.Propagate[outcome.Void](h.restockSkuUseCase.Restock(ctx, event.Value()))
}

// AllocateOrderStockHandler handles ORDER_CREATED_EVENT messages.
type AllocateOrderStockHandler struct {
	allocateUseCase inventoryUseCase.AllocateOrderStockUseCase
}

// NewAllocateOrderStockHandler creates a new AllocateOrderStockHandler
func NewAllocateOrderStockHandler(
	allocateUseCase inventoryUseCase.AllocateOrderStockUseCase,
) *AllocateOrderStockHandler {
	return &AllocateOrderStockHandler{allocateUseCase: allocateUseCase}
}

// Handle parses the message envelope and allocates stock for the order.
func (h *AllocateOrderStockHandler) Handle(ctx context.Context, msg queue.Message) outcome.Outcome[outcome.Void] {
	event := eventsDomain.ParseIncomingEvent(msg.Body, eventsDomain.OrderCreatedEvent)
	if event.IsFailure() {
		return outcome.Propagate[outcome.Void](event)
	}

	return outcome.Propagate[outcome.Void](h.allocateUseCase.Allocate(ctx, event.Value()))
}
