package usecase

import (
	"context"
	"time"

	"github.com/mutchinick/ecomm-workers/internal/database"
	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

type restockSkuUseCase struct {
	txManager     database.TxManager
	inventoryRepo InventoryRepository
	now           func() time.Time
}

// NewRestockSkuUseCase creates a RestockSkuUseCase.
func NewRestockSkuUseCase(txManager database.TxManager, inventoryRepo InventoryRepository) RestockSkuUseCase {
	return &restockSkuUseCase{
		txManager:     txManager,
		inventoryRepo: inventoryRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Restock records the lot and adds its units to the SKU. A lot seen before is reported as
// DuplicateOperation so the redelivered message is dropped without adding units twice.
func (u *restockSkuUseCase) Restock(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[inventoryDomain.Restock] {
	build := inventoryDomain.NewRestockSkuCommand(event, u.now())
	if build.IsFailure() {
		return outcome.Propagate[inventoryDomain.Restock](build)
	}

	var restock inventoryDomain.Restock
	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		result := u.inventoryRepo.RestockSku(txCtx, build.Value())
		restock = result.Value()
		return result.Err()
	})

	return outcome.FromResult(restock, err)
}
