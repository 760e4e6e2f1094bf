package usecase

import (
	"context"
	"time"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/metrics"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

type restockSkuUseCaseWithMetrics struct {
	next    RestockSkuUseCase
	metrics metrics.BusinessMetrics
}

// NewRestockSkuUseCaseWithMetrics wraps a RestockSkuUseCase with metrics recording.
func NewRestockSkuUseCaseWithMetrics(useCase RestockSkuUseCase, m metrics.BusinessMetrics) RestockSkuUseCase {
	return &restockSkuUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *restockSkuUseCaseWithMetrics) Restock(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[inventoryDomain.Restock] {
	start := time.Now()
	result := r.next.Restock(ctx, event)

	status := metrics.OutcomeStatus(result.Failure())
	r.metrics.RecordOperation(ctx, "inventory", "sku_restock", status)
	r.metrics.RecordDuration(ctx, "inventory", "sku_restock", time.Since(start), status)

	return result
}

type allocateOrderStockUseCaseWithMetrics struct {
	next    AllocateOrderStockUseCase
	metrics metrics.BusinessMetrics
}

// NewAllocateOrderStockUseCaseWithMetrics wraps an AllocateOrderStockUseCase with metrics
// recording. Depleted allocations are counted under their own status.
func NewAllocateOrderStockUseCaseWithMetrics(
	useCase AllocateOrderStockUseCase,
	m metrics.BusinessMetrics,
) AllocateOrderStockUseCase {
	return &allocateOrderStockUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *allocateOrderStockUseCaseWithMetrics) Allocate(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[inventoryDomain.AllocationResult] {
	start := time.Now()
	result := a.next.Allocate(ctx, event)

	status := metrics.OutcomeStatus(result.Failure())
	if result.IsSuccess() && result.Value() == inventoryDomain.AllocationDepleted {
		status = "depleted"
	}
	a.metrics.RecordOperation(ctx, "inventory", "order_stock_allocate", status)
	a.metrics.RecordDuration(ctx, "inventory", "order_stock_allocate", time.Since(start), status)

	return result
}
