package usecase

import (
	"context"
	"time"

	"github.com/mutchinick/ecomm-workers/internal/database"
	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	appValidation "github.com/mutchinick/ecomm-workers/internal/validation"
)

// syncOrderUseCase implements SyncOrderUseCase.
type syncOrderUseCase struct {
	txManager database.TxManager
	orderRepo OrderRepository
	emitter   Emitter
	now       func() time.Time
}

// NewSyncOrderUseCase creates a SyncOrderUseCase. The order creation and the
// ORDER_CREATED_EVENT emission share one transaction.
func NewSyncOrderUseCase(
	txManager database.TxManager,
	orderRepo OrderRepository,
	emitter Emitter,
) SyncOrderUseCase {
	return &syncOrderUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		emitter:   emitter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Sync decides what the event means for the stored order. Existence of the order selects
// the branch: a creation event for an existing order and an update event repeating the
// current status are both redeliveries and resolve to Success(existing).
func (u *syncOrderUseCase) Sync(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[ordersDomain.Order] {
	get := ordersDomain.NewGetOrderCommand(event)
	if get.IsFailure() {
		return outcome.Propagate[ordersDomain.Order](get)
	}

	read := u.orderRepo.GetOrder(ctx, get.Value())
	if read.IsFailure() {
		return outcome.Propagate[ordersDomain.Order](read)
	}
	existing := read.Value()

	switch {
	case event.EventName.IsOrderCreation():
		if existing != nil {
			return outcome.Success(*existing)
		}
		return u.createOrder(ctx, event)

	case event.EventName.IsOrderUpdate():
		if existing == nil {
			return outcome.Failure[ordersDomain.Order](
				outcome.KindInvalidOperation,
				apperrors.Wrapf(ordersDomain.ErrOrderNotFound, "%s for order %q",
					event.EventName, get.Value().OrderID()),
				false,
			)
		}
		return u.updateOrder(ctx, *existing, event)

	default:
		return appValidation.InvalidArguments[ordersDomain.Order](
			apperrors.Wrapf(apperrors.ErrInvalidInput, "event %q is not an order event", event.EventName),
		)
	}
}

func (u *syncOrderUseCase) createOrder(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[ordersDomain.Order] {
	create := ordersDomain.NewCreateOrderCommand(event, u.now())
	if create.IsFailure() {
		return outcome.Propagate[ordersDomain.Order](create)
	}
	cmd := create.Value()

	var order ordersDomain.Order
	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		created := u.orderRepo.CreateOrder(txCtx, cmd)
		if created.IsFailure() {
			return created.Err()
		}
		order = created.Value()

		outgoing, err := eventsDomain.NewOutgoingEvent(eventsDomain.OrderCreatedEvent, order.OrderID, order)
		if err != nil {
			return err
		}
		return u.emitter.Emit(txCtx, outgoing).Err()
	})

	return outcome.FromResult(order, err)
}

func (u *syncOrderUseCase) updateOrder(
	ctx context.Context,
	existing ordersDomain.Order,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[ordersDomain.Order] {
	update := ordersDomain.NewUpdateOrderCommand(existing, event, u.now())
	if update.IsFailure() {
		return outcome.Propagate[ordersDomain.Order](update)
	}
	cmd := update.Value()

	if cmd.IsNoOp() {
		return outcome.Success(existing)
	}
	if !cmd.IsAllowed() {
		return outcome.Failure[ordersDomain.Order](
			outcome.KindInvalidStateTransition,
			apperrors.Wrapf(ordersDomain.ErrInvalidOrderTransition, "%s from %s",
				cmd.EventName(), cmd.ExpectedStatus()),
			false,
		)
	}

	return u.orderRepo.UpdateOrder(ctx, cmd)
}
