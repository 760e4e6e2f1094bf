package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/mutchinick/ecomm-workers/internal/database/mocks"
	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	ordersMocks "github.com/mutchinick/ecomm-workers/internal/orders/usecase/mocks"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

var testNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

type syncFixture struct {
	txManager *databaseMocks.MockTxManager
	orderRepo *ordersMocks.MockOrderRepository
	emitter   *ordersMocks.MockEmitter
	useCase   *syncOrderUseCase
}

func newSyncFixture() *syncFixture {
	f := &syncFixture{
		txManager: &databaseMocks.MockTxManager{},
		orderRepo: &ordersMocks.MockOrderRepository{},
		emitter:   &ordersMocks.MockEmitter{},
	}
	f.useCase = NewSyncOrderUseCase(f.txManager, f.orderRepo, f.emitter).(*syncOrderUseCase)
	f.useCase.now = func() time.Time { return testNow }
	return f
}

func (f *syncFixture) assertExpectations(t *testing.T) {
	f.txManager.AssertExpectations(t)
	f.orderRepo.AssertExpectations(t)
	f.emitter.AssertExpectations(t)
}

func orderPlaced() eventsDomain.IncomingEvent {
	return eventsDomain.IncomingEvent{
		EventName: eventsDomain.OrderPlacedEvent,
		EventData: json.RawMessage(`{"orderId":"order-1","userId":"user-1","sku":"sku-1","units":2,"price":9.99}`),
	}
}

func orderUpdate(name eventsDomain.EventName) eventsDomain.IncomingEvent {
	return eventsDomain.IncomingEvent{
		EventName: name,
		EventData: json.RawMessage(`{"orderId":"order-1"}`),
	}
}

func storedOrder(status ordersDomain.OrderStatus) ordersDomain.Order {
	return ordersDomain.Order{
		OrderID:   "order-1",
		UserID:    "user-1",
		Sku:       "sku-1",
		Units:     2,
		Price:     9.99,
		Status:    status,
		CreatedAt: testNow.Add(-time.Hour),
		UpdatedAt: testNow.Add(-time.Hour),
	}
}

func TestSyncOrderUseCase_Sync_Creation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreatesOrderAndEmitsCreatedEvent", func(t *testing.T) {
		f := newSyncFixture()
		created := storedOrder(ordersDomain.OrderCreatedStatus)
		created.CreatedAt, created.UpdatedAt = testNow, testNow

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orderRepo.On("CreateOrder", ctx, mock.MatchedBy(func(cmd ordersDomain.CreateOrderCommand) bool {
			return cmd.Valid() && cmd.Order() == created
		})).Return(outcome.Success(created)).Once()
		f.emitter.On("Emit", ctx, mock.MatchedBy(func(event eventsDomain.OutgoingEvent) bool {
			return event.EventName == eventsDomain.OrderCreatedEvent &&
				event.IdempotencyKey == "ORDER_CREATED_EVENT:order-1"
		})).Return(outcome.Done()).Once()

		result := f.useCase.Sync(ctx, orderPlaced())

		require.True(t, result.IsSuccess(), result.String())
		assert.Equal(t, created, result.Value())
		f.assertExpectations(t)
	})

	t.Run("Success_RedeliveredCreationReturnsExistingWithoutWrites", func(t *testing.T) {
		f := newSyncFixture()
		existing := storedOrder(ordersDomain.OrderStockAllocatedStatus)

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success(&existing)).Once()

		result := f.useCase.Sync(ctx, orderPlaced())

		require.True(t, result.IsSuccess())
		assert.Equal(t, existing, result.Value())
		f.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		f.emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure_CreateFailurePropagatesUnchanged", func(t *testing.T) {
		f := newSyncFixture()
		cause := errors.New("connection reset")

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orderRepo.On("CreateOrder", ctx, mock.Anything).
			Return(outcome.Failure[ordersDomain.Order](outcome.KindUnrecognized, cause, true)).Once()

		result := f.useCase.Sync(ctx, orderPlaced())

		require.True(t, result.IsFailureOfKind(outcome.KindUnrecognized))
		assert.True(t, result.IsRetryable())
		assert.ErrorIs(t, result.Err(), cause)
		f.emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure_EmitFailureRollsBack", func(t *testing.T) {
		f := newSyncFixture()
		created := storedOrder(ordersDomain.OrderCreatedStatus)

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orderRepo.On("CreateOrder", ctx, mock.Anything).Return(outcome.Success(created)).Once()
		f.emitter.On("Emit", ctx, mock.Anything).
			Return(outcome.Failure[outcome.Void](outcome.KindUnrecognized, errors.New("outbox down"), true)).Once()

		result := f.useCase.Sync(ctx, orderPlaced())

		assert.True(t, result.IsFailureOfKind(outcome.KindUnrecognized))
		assert.True(t, result.IsRetryable())
		f.assertExpectations(t)
	})

	t.Run("Failure_CommitErrorIsRetryable", func(t *testing.T) {
		f := newSyncFixture()

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()
		f.txManager.On("WithTx", ctx, mock.Anything).Return(errors.New("commit failed")).Once()

		result := f.useCase.Sync(ctx, orderPlaced())

		assert.True(t, result.IsFailureOfKind(outcome.KindUnrecognized))
		assert.True(t, result.IsRetryable())
		f.assertExpectations(t)
	})

	t.Run("Failure_InvalidEventDataDoesNotTouchStorage", func(t *testing.T) {
		f := newSyncFixture()
		event := orderPlaced()
		event.EventData = json.RawMessage(`{"orderId":"order-1","units":"many"}`)

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()

		result := f.useCase.Sync(ctx, event)

		assert.True(t, result.IsFailureOfKind(outcome.KindInvalidArguments))
		assert.False(t, result.IsRetryable())
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failure_MissingOrderIDSkipsRead", func(t *testing.T) {
		f := newSyncFixture()
		event := orderPlaced()
		event.EventData = json.RawMessage(`{"sku":"sku-1"}`)

		result := f.useCase.Sync(ctx, event)

		assert.True(t, result.IsFailureOfKind(outcome.KindInvalidArguments))
		f.orderRepo.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure_ReadFailurePropagates", func(t *testing.T) {
		f := newSyncFixture()

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Failure[*ordersDomain.Order](outcome.KindUnrecognized, errors.New("throttled"), true)).
			Once()

		result := f.useCase.Sync(ctx, orderPlaced())

		assert.True(t, result.IsFailureOfKind(outcome.KindUnrecognized))
		assert.True(t, result.IsRetryable())
		f.assertExpectations(t)
	})
}

func TestSyncOrderUseCase_Sync_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure_UpdateBeforeCreationIsInvalidOperation", func(t *testing.T) {
		f := newSyncFixture()

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()

		result := f.useCase.Sync(ctx, orderUpdate(eventsDomain.OrderShippedEvent))

		require.True(t, result.IsFailureOfKind(outcome.KindInvalidOperation))
		assert.False(t, result.IsRetryable())
		assert.True(t, apperrors.Is(result.Err(), ordersDomain.ErrOrderNotFound))
		f.orderRepo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Success_AppliesAllowedTransition", func(t *testing.T) {
		f := newSyncFixture()
		existing := storedOrder(ordersDomain.OrderCreatedStatus)
		updated := existing
		updated.Status = ordersDomain.OrderStockAllocatedStatus
		updated.UpdatedAt = testNow

		f.orderRepo.On("GetOrder", ctx, mock.Anything).Return(outcome.Success(&existing)).Once()
		f.orderRepo.On("UpdateOrder", ctx, mock.MatchedBy(func(cmd ordersDomain.UpdateOrderCommand) bool {
			return cmd.ExpectedStatus() == ordersDomain.OrderCreatedStatus &&
				cmd.NewStatus() == ordersDomain.OrderStockAllocatedStatus &&
				cmd.UpdatedAt().Equal(testNow)
		})).Return(outcome.Success(updated)).Once()

		result := f.useCase.Sync(ctx, orderUpdate(eventsDomain.OrderStockAllocatedEvent))

		require.True(t, result.IsSuccess())
		assert.Equal(t, updated, result.Value())
		f.assertExpectations(t)
	})

	t.Run("Success_RedeliveredUpdateIsNoOp", func(t *testing.T) {
		f := newSyncFixture()
		existing := storedOrder(ordersDomain.OrderStockAllocatedStatus)

		f.orderRepo.On("GetOrder", ctx, mock.Anything).Return(outcome.Success(&existing)).Once()

		result := f.useCase.Sync(ctx, orderUpdate(eventsDomain.OrderStockAllocatedEvent))

		require.True(t, result.IsSuccess())
		assert.Equal(t, existing, result.Value())
		f.orderRepo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure_IllegalTransition", func(t *testing.T) {
		f := newSyncFixture()
		existing := storedOrder(ordersDomain.OrderDeliveredStatus)

		f.orderRepo.On("GetOrder", ctx, mock.Anything).Return(outcome.Success(&existing)).Once()

		result := f.useCase.Sync(ctx, orderUpdate(eventsDomain.OrderCanceledEvent))

		require.True(t, result.IsFailureOfKind(outcome.KindInvalidStateTransition))
		assert.False(t, result.IsRetryable())
		assert.True(t, apperrors.Is(result.Err(), ordersDomain.ErrInvalidOrderTransition))
		f.orderRepo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure_ConcurrentStatusChangeIsRetryable", func(t *testing.T) {
		f := newSyncFixture()
		existing := storedOrder(ordersDomain.OrderCreatedStatus)

		f.orderRepo.On("GetOrder", ctx, mock.Anything).Return(outcome.Success(&existing)).Once()
		f.orderRepo.On("UpdateOrder", ctx, mock.Anything).
			Return(outcome.Failure[ordersDomain.Order](
				outcome.KindUnrecognized, ordersDomain.ErrOrderStatusConflict, true,
			)).Once()

		result := f.useCase.Sync(ctx, orderUpdate(eventsDomain.OrderStockDepletedEvent))

		assert.True(t, result.IsRetryable())
		assert.True(t, apperrors.Is(result.Err(), ordersDomain.ErrOrderStatusConflict))
		f.assertExpectations(t)
	})

	t.Run("Failure_NonOrderEvent", func(t *testing.T) {
		f := newSyncFixture()

		f.orderRepo.On("GetOrder", ctx, mock.Anything).
			Return(outcome.Success[*ordersDomain.Order](nil)).Once()

		event := orderUpdate(eventsDomain.SkuRestockedEvent)
		result := f.useCase.Sync(ctx, event)

		assert.True(t, result.IsFailureOfKind(outcome.KindInvalidArguments))
		assert.False(t, result.IsRetryable())
	})
}
