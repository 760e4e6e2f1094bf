package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("queue_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	qm, err := NewQueueMetrics(provider.MeterProvider(), "queue_test")
	require.NoError(t, err)

	ctx := context.Background()
	qm.RecordBatch(ctx, "sync-orders", 3, 1)
	qm.RecordBatch(ctx, "sync-orders", 2, 0)
	qm.RecordMessage(ctx, "sync-orders", StatusSuccess, 10*time.Millisecond)
	qm.RecordMessage(ctx, "sync-orders", StatusRetry, 20*time.Millisecond)

	output := scrape(t, provider)

	assertMetricLine(t, output, `queue_test_batches_total`, `worker="sync-orders"`, `2`)
	assertMetricLine(t, output, `queue_test_message_retries_total`, `worker="sync-orders"`, `1`)
	assertMetricLine(t, output, `queue_test_messages_total`, `status="success".*worker="sync-orders"`, `1`)
	assertMetricLine(t, output, `queue_test_messages_total`, `status="retry".*worker="sync-orders"`, `1`)
}

func TestNewNoOpQueueMetrics(t *testing.T) {
	qm := NewNoOpQueueMetrics()

	assert.IsType(t, &NoOpQueueMetrics{}, qm)

	qm.RecordBatch(context.Background(), "sync-orders", 1, 0)
	qm.RecordMessage(context.Background(), "sync-orders", StatusSuccess, time.Millisecond)
}
