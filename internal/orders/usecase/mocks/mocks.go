// Package mocks provides mock implementations of the orders use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// MockOrderRepository is a mock implementation of usecase.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

// GetOrder mocks the GetOrder method.
func (m *MockOrderRepository) GetOrder(
	ctx context.Context,
	cmd ordersDomain.GetOrderCommand,
) outcome.Outcome[*ordersDomain.Order] {
	args := m.Called(ctx, cmd)
	return args.Get(0).(outcome.Outcome[*ordersDomain.Order])
}

// CreateOrder mocks the CreateOrder method.
func (m *MockOrderRepository) CreateOrder(
	ctx context.Context,
	cmd ordersDomain.CreateOrderCommand,
) outcome.Outcome[ordersDomain.Order] {
	args := m.Called(ctx, cmd)
	return args.Get(0).(outcome.Outcome[ordersDomain.Order])
}

// UpdateOrder mocks the UpdateOrder method.
func (m *MockOrderRepository) UpdateOrder(
	ctx context.Context,
	cmd ordersDomain.UpdateOrderCommand,
) outcome.Outcome[ordersDomain.Order] {
	args := m.Called(ctx, cmd)
	return args.Get(0).(outcome.Outcome[ordersDomain.Order])
}

// MockEmitter is a mock implementation of usecase.Emitter.
type MockEmitter struct {
	mock.Mock
}

// Emit mocks the Emit method.
func (m *MockEmitter) Emit(ctx context.Context, event eventsDomain.OutgoingEvent) outcome.Outcome[outcome.Void] {
	args := m.Called(ctx, event)
	return args.Get(0).(outcome.Outcome[outcome.Void])
}

// MockSyncOrderUseCase is a mock implementation of usecase.SyncOrderUseCase.
type MockSyncOrderUseCase struct {
	mock.Mock
}

// Sync mocks the Sync method.
func (m *MockSyncOrderUseCase) Sync(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[ordersDomain.Order] {
	args := m.Called(ctx, event)
	return args.Get(0).(outcome.Outcome[ordersDomain.Order])
}
