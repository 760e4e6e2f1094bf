package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueueMetrics records batch dispatcher activity per worker.
type QueueMetrics interface {
	// RecordBatch records one processed batch: its size and how many messages were
	// handed back for redelivery.
	RecordBatch(ctx context.Context, worker string, size, retries int)

	// RecordMessage records one handled message with its status label.
	RecordMessage(ctx context.Context, worker, status string, duration time.Duration)
}

type queueMetrics struct {
	batchCounter   metric.Int64Counter
	batchSizeHisto metric.Int64Histogram
	retryCounter   metric.Int64Counter
	messageCounter metric.Int64Counter
	messageHisto   metric.Float64Histogram
}

// NewQueueMetrics creates a QueueMetrics whose metric names are prefixed by namespace.
func NewQueueMetrics(meterProvider metric.MeterProvider, namespace string) (QueueMetrics, error) {
	meter := meterProvider.Meter(namespace)

	batchCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_batches_total", namespace),
		metric.WithDescription("Total number of processed batches"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch counter: %w", err)
	}

	batchSizeHisto, err := meter.Int64Histogram(
		fmt.Sprintf("%s_batch_size", namespace),
		metric.WithDescription("Number of messages per batch"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch size histogram: %w", err)
	}

	retryCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_message_retries_total", namespace),
		metric.WithDescription("Total number of messages returned for redelivery"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry counter: %w", err)
	}

	messageCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_messages_total", namespace),
		metric.WithDescription("Total number of handled messages"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message counter: %w", err)
	}

	messageHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_message_duration_seconds", namespace),
		metric.WithDescription("Duration of message handling in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message duration histogram: %w", err)
	}

	return &queueMetrics{
		batchCounter:   batchCounter,
		batchSizeHisto: batchSizeHisto,
		retryCounter:   retryCounter,
		messageCounter: messageCounter,
		messageHisto:   messageHisto,
	}, nil
}

func (q *queueMetrics) RecordBatch(ctx context.Context, worker string, size, retries int) {
	attrs := metric.WithAttributes(attribute.String("worker", worker))
	q.batchCounter.Add(ctx, 1, attrs)
	q.batchSizeHisto.Record(ctx, int64(size), attrs)
	q.retryCounter.Add(ctx, int64(retries), attrs)
}

func (q *queueMetrics) RecordMessage(ctx context.Context, worker, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("worker", worker),
		attribute.String("status", status),
	)
	q.messageCounter.Add(ctx, 1, attrs)
	q.messageHisto.Record(ctx, duration.Seconds(), attrs)
}

// NoOpQueueMetrics is used when metrics are disabled.
type NoOpQueueMetrics struct{}

// NewNoOpQueueMetrics creates a no-op QueueMetrics implementation.
func NewNoOpQueueMetrics() QueueMetrics {
	return &NoOpQueueMetrics{}
}

func (n *NoOpQueueMetrics) RecordBatch(ctx context.Context, worker string, size, retries int) {}

func (n *NoOpQueueMetrics) RecordMessage(ctx context.Context, worker, status string, duration time.Duration) {
}
