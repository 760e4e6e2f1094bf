// Package mocks provides mock implementations of the inventory use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// MockInventoryRepository is a mock implementation of usecase.InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

// RestockSku mocks the RestockSku method.
func (m *MockInventoryRepository) RestockSku(
	ctx context.Context,
	cmd inventoryDomain.RestockSkuCommand,
) outcome.Outcome[inventoryDomain.Restock] {
	args := m.Called(ctx, cmd)
	return args.Get(0).(outcome.Outcome[inventoryDomain.Restock])
}

// AllocateOrderStock mocks the AllocateOrderStock method.
func (m *MockInventoryRepository) AllocateOrderStock(
	ctx context.Context,
	cmd inventoryDomain.AllocateOrderStockCommand,
) outcome.Outcome[inventoryDomain.Allocation] {
	args := m.Called(ctx, cmd)
	return args.Get(0).(outcome.Outcome[inventoryDomain.Allocation])
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

// MockRestockSkuUseCase is a mock implementation of usecase.RestockSkuUseCase.
type MockRestockSkuUseCase struct {
	mock.Mock
}

// Restock mocks the Restock method.
func (m *MockRestockSkuUseCase) Restock(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[inventoryDomain.Restock] {
	args := m.Called(ctx, event)
	return args.Get(0).(outcome.Outcome[inventoryDomain.Restock])
}

// MockAllocateOrderStockUseCase is a mock implementation of usecase.AllocateOrderStockUseCase.
type MockAllocateOrderStockUseCase struct {
	mock.Mock
}

// Allocate mocks the Allocate method.
func (m *MockAllocateOrderStockUseCase) Allocate(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[inventoryDomain.AllocationResult] {
	args := m.Called(ctx, event)
	return args.Get(0).(outcome.Outcome[inventoryDomain.AllocationResult])
}
