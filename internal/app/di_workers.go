package app

import (
	"context"
	"fmt"

	inventoryWorker "github.com/mutchinick/ecomm-workers/internal/inventory/worker"
	ordersWorker "github.com/mutchinick/ecomm-workers/internal/orders/worker"
	"github.com/mutchinick/ecomm-workers/internal/queue"
)

// Worker names, used in logs, spans and metrics.
const (
	SyncOrdersWorker    = "sync-orders"
	AllocateStockWorker = "allocate-stock"
	RestockSkuWorker    = "restock-sku"
)

// SyncOrdersConsumer returns the consumer of the sync-orders worker.
func (c *Container) SyncOrdersConsumer(ctx context.Context) (*queue.Consumer, error) {
	useCase, err := c.SyncOrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get sync order use case: %w", err)
	}
	return c.newConsumer(ctx, SyncOrdersWorker, c.config.SyncOrdersSubscriptionURL,
		ordersWorker.NewSyncOrderHandler(useCase))
}

// AllocateStockConsumer returns the consumer of the allocate-stock worker.
func (c *Container) AllocateStockConsumer(ctx context.Context) (*queue.Consumer, error) {
	useCase, err := c.AllocateOrderStockUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation use case: %w", err)
	}
	return c.newConsumer(ctx, AllocateStockWorker, c.config.AllocateStockSubscriptionURL,
		inventoryWorker.NewAllocateOrderStockHandler(useCase))
}

// RestockSkuConsumer returns the consumer of the restock-sku worker.
func (c *Container) RestockSkuConsumer(ctx context.Context) (*queue.Consumer, error) {
	useCase, err := c.RestockSkuUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get restock use case: %w", err)
	}
	return c.newConsumer(ctx, RestockSkuWorker, c.config.RestockSkuSubscriptionURL,
		inventoryWorker.NewRestockSkuHandler(useCase))
}

// NewDispatcher builds the batch dispatcher of a worker.
func (c *Container) NewDispatcher(worker string, handler queue.Handler) (*queue.Dispatcher, error) {
	queueMetrics, err := c.QueueMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get queue metrics for %s: %w", worker, err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for %s: %w", worker, err)
	}

	dispatcher := queue.NewDispatcher(
		queue.DispatcherConfig{
			Worker:      worker,
			Concurrency: c.config.WorkerConcurrency,
			RateLimit:   c.config.WorkerRateLimitPerSec,
			RateBurst:   c.config.WorkerRateLimitBurst,
		},
		handler,
		queueMetrics,
		c.Logger(),
	)
	if provider != nil {
		dispatcher.WithTracerProvider(provider.TracerProvider())
	}

	return dispatcher, nil
}

func (c *Container) newConsumer(
	ctx context.Context,
	worker string,
	subscriptionURL string,
	handler queue.Handler,
) (*queue.Consumer, error) {
	if subscriptionURL == "" {
		return nil, fmt.Errorf("no subscription url configured for %s", worker)
	}

	dispatcher, err := c.NewDispatcher(worker, handler)
	if err != nil {
		return nil, err
	}

	subscription, err := queue.OpenSubscription(ctx, subscriptionURL)
	if err != nil {
		return nil, err
	}

	return queue.NewConsumer(
		queue.ConsumerConfig{
			Worker:    worker,
			BatchSize: c.config.WorkerBatchSize,
			BatchWait: c.config.WorkerBatchWait,
		},
		subscription,
		dispatcher,
		c.Logger(),
	), nil
}
