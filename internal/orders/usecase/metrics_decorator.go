package usecase

import (
	"context"
	"time"

	eventsDomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	"github.com/mutchinick/ecomm-workers/internal/metrics"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// syncOrderUseCaseWithMetrics decorates SyncOrderUseCase with metrics instrumentation.
type syncOrderUseCaseWithMetrics struct {
	next    SyncOrderUseCase
	metrics metrics.BusinessMetrics
}

// NewSyncOrderUseCaseWithMetrics wraps a SyncOrderUseCase with metrics recording.
func NewSyncOrderUseCaseWithMetrics(useCase SyncOrderUseCase, m metrics.BusinessMetrics) SyncOrderUseCase {
	return &syncOrderUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Sync records metrics for order synchronization.
func (s *syncOrderUseCaseWithMetrics) Sync(
	ctx context.Context,
	event eventsDomain.IncomingEvent,
) outcome.Outcome[ordersDomain.Order] {
	start := time.Now()
	result := s.next.Sync(ctx, event)

	status := metrics.OutcomeStatus(result.Failure())

	s.metrics.RecordOperation(ctx, "orders", "order_sync", status)
	s.metrics.RecordDuration(ctx, "orders", "order_sync", time.Since(start), status)

	return result
}
