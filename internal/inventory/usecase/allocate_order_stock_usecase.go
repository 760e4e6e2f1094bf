package usecase

import (
	"context"
	"time"

	"github.com/mutchinick/ecomm-workers/internal/database"
	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

type allocateOrderStockUseCase struct {
	txManager     database.TxManager
	inventoryRepo InventoryRepository
	emitter       Emitter
	now           func() time.Time
}

// NewAllocateOrderStockUseCase creates an AllocateOrderStockUseCase.
func NewAllocateOrderStockUseCase(
	txManager database.TxManager,
	inventoryRepo InventoryRepository,
	emitter Emitter,
) AllocateOrderStockUseCase {
	return &allocateOrderStockUseCase{
		txManager:     txManager,
		inventoryRepo: inventoryRepo,
		emitter:       emitter,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Allocate reserves the order units and emits ORDER_STOCK_ALLOCATED_EVENT in the same
// transaction. Depleted stock rolls the reservation back and emits
// ORDER_STOCK_DEPLETED_EVENT instead. An allocation applied by an earlier delivery is a
// no-op success: its event was committed with it.
func (u *allocateOrderStockUseCase) Allocate(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[inventoryDomain.AllocationResult] {
	build := inventoryDomain.NewAllocateOrderStockCommand(event, u.now())
	if build.IsFailure() {
		return outcome.Propagate[inventoryDomain.AllocationResult](build)
	}
	cmd := build.Value()

	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		allocated := u.inventoryRepo.AllocateOrderStock(txCtx, cmd)
		if allocated.IsFailure() {
			return allocated.Err()
		}
		return u.emit(txCtx, eventsDomain.OrderStockAllocatedEvent, allocated.Value())
	})

	result := outcome.FromResult(inventoryDomain.AllocationAllocated, err)
	switch {
	case result.IsFailureOfKind(outcome.KindDuplicateOperation):
		return outcome.Success(inventoryDomain.AllocationAlreadyApplied)

	case result.IsFailureOfKind(outcome.KindDepletedStock):
		err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
			return u.emit(txCtx, eventsDomain.OrderStockDepletedEvent, cmd.Allocation())
		})
		return outcome.FromResult(inventoryDomain.AllocationDepleted, err)
	}

	return result
}

func (u *allocateOrderStockUseCase) emit(
	ctx context.Context,
	name eventsDomain.EventName,
	allocation inventoryDomain.Allocation,
) error {
	outgoing, err := eventsDomain.NewOutgoingEvent(name, allocation.OrderID, allocation)
	if err != nil {
		return err
	}
	return u.emitter.Emit(ctx, outgoing).Err()
}
