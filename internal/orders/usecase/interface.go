// Package usecase implements the order synchronization decision engine: it reads the
// stored order, decides from its existence and status what an incoming event means, and
// writes the outcome through the idempotent order repository.
package usecase

import (
	"context"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// OrderRepository defines the idempotent ledger operations on orders.
type OrderRepository interface {
	// GetOrder returns Success(nil) when the order does not exist.
	GetOrder(ctx context.Context, cmd ordersDomain.GetOrderCommand) outcome.Outcome[*ordersDomain.Order]
	// CreateOrder returns the stored order when it already exists.
	CreateOrder(ctx context.Context, cmd ordersDomain.CreateOrderCommand) outcome.Outcome[ordersDomain.Order]
	UpdateOrder(ctx context.Context, cmd ordersDomain.UpdateOrderCommand) outcome.Outcome[ordersDomain.Order]
}

// Emitter publishes downstream events through the transactional outbox.
type Emitter interface {
	Emit(ctx context.Context, event eventsDomain.OutgoingEvent) outcome.Outcome[outcome.Void]
}

// SyncOrderUseCase applies order lifecycle events to the stored order.
type SyncOrderUseCase interface {
	Sync(ctx context.Context, event eventsDomain.IncomingEvent) outcome.Outcome[ordersDomain.Order]
}
