// Package usecase implements the inventory workers: recording SKU restocks and
// allocating stock to newly created orders.
package usecase

import (
	"context"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// InventoryRepository defines the idempotent inventory ledger operations. Both writes issue
// more than one statement and must run inside a transaction.
type InventoryRepository interface {
	RestockSku(ctx context.Context, cmd inventoryDomain.RestockSkuCommand) outcome.Outcome[inventoryDomain.Restock]
	AllocateOrderStock(
		ctx context.Context,
		cmd inventoryDomain.AllocateOrderStockCommand,
	) outcome.Outcome[inventoryDomain.Allocation]
}

// Emitter publishes downstream events through the transactional outbox.
type Emitter interface {
	Emit(ctx context.Context, event eventsDomain.OutgoingEvent) outcome.Outcome[outcome.Void]
}

// RestockSkuUseCase records SKU_RESTOCKED_EVENT deliveries.
type RestockSkuUseCase interface {
	Restock(ctx context.Context, event eventsDomain.IncomingEvent) outcome.Outcome[inventoryDomain.Restock]
}

// AllocateOrderStockUseCase reserves stock for ORDER_CREATED_EVENT deliveries.
type AllocateOrderStockUseCase interface {
	Allocate(
		ctx context.Context,
		event eventsDomain.IncomingEvent,
	) outcome.Outcome[inventoryDomain.AllocationResult]
}
