package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	"github.com/mutchinick/ecomm-workers/internal/metrics"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

const tracerName = "github.com/mutchinick/ecomm-workers/internal/queue"

// ErrHandlerPanic is the cause recorded for a message whose handler panicked.
var ErrHandlerPanic = apperrors.New("message handler panicked")

// DispatcherConfig holds batch dispatcher configuration
type DispatcherConfig struct {
	// Worker names the worker in logs, spans and metrics.
	Worker string
	// Concurrency bounds the messages handled at once. Values below 1 mean sequential.
	Concurrency int
	// RateLimit caps handled messages per second. Zero disables throttling.
	RateLimit float64
	RateBurst int
}

// Dispatcher runs a Handler over the messages of a batch.
type Dispatcher struct {
	worker      string
	handler     Handler
	concurrency int
	limiter     *rate.Limiter
	tracer      trace.Tracer
	metrics     metrics.QueueMetrics
	logger      *slog.Logger
}

// NewDispatcher creates a new Dispatcher. Spans go to the global tracer provider unless
// WithTracerProvider is used.
func NewDispatcher(
	config DispatcherConfig,
	handler Handler,
	queueMetrics metrics.QueueMetrics,
	logger *slog.Logger,
) *Dispatcher {
	if queueMetrics == nil {
		queueMetrics = metrics.NewNoOpQueueMetrics()
	}

	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	return &Dispatcher{
		worker:      config.Worker,
		handler:     handler,
		concurrency: concurrency,
		limiter:     limiter,
		tracer:      otel.Tracer(tracerName),
		metrics:     queueMetrics,
		logger:      logger,
	}
}

// WithTracerProvider makes the dispatcher record spans on tp.
func (d *Dispatcher) WithTracerProvider(tp trace.TracerProvider) *Dispatcher {
	d.tracer = tp.Tracer(tracerName)
	return d
}

// ProcessBatch handles every message of the batch independently and returns the messages to
// redeliver, in input order. A message is redelivered only when its handler fails with a
// retryable failure. A nil batch or a batch without a message list yields an empty
// acknowledgment.
func (d *Dispatcher) ProcessBatch(ctx context.Context, batch *Batch) Acknowledgment {
	if batch == nil || batch.Messages == nil {
		if d.logger != nil {
			d.logger.Warn("malformed batch", slog.String("worker", d.worker))
		}
		return emptyAcknowledgment()
	}

	results := make([]outcome.Outcome[outcome.Void], len(batch.Messages))

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for i, msg := range batch.Messages {
		g.Go(func() error {
			results[i] = d.handleMessage(ctx, msg)
			return nil
		})
	}

	_ = g.Wait()

	ack := emptyAcknowledgment()
	for i, msg := range batch.Messages {
		if results[i].IsRetryable() {
			ack.Retry = append(ack.Retry, ItemFailure{ID: msg.ID})
		}
	}

	d.metrics.RecordBatch(ctx, d.worker, len(batch.Messages), len(ack.Retry))

	return ack
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg Message) outcome.Outcome[outcome.Void] {
	ctx, span := d.tracer.Start(ctx, d.worker+".handle",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.message.id", msg.ID),
			attribute.String("worker", d.worker),
		),
	)
	defer span.End()

	start := time.Now()
	result := d.invoke(ctx, msg)
	failure := result.Failure()

	status := metrics.OutcomeStatus(failure)
	d.metrics.RecordMessage(ctx, d.worker, status, time.Since(start))

	if failure != nil {
		span.RecordError(failure)
		span.SetStatus(codes.Error, string(failure.Kind))
		d.logFailure(msg, failure)
	}

	return result
}

// invoke waits for the rate limiter and calls the handler, turning a panic into a
// retryable failure for this message only.
func (d *Dispatcher) invoke(ctx context.Context, msg Message) (result outcome.Outcome[outcome.Void]) {
	defer func() {
		if r := recover(); r != nil {
			result = outcome.Failure[outcome.Void](
				outcome.KindUnrecognized,
				apperrors.Wrap(ErrHandlerPanic, fmt.Sprint(r)),
				true,
			)
		}
	}()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return outcome.Failure[outcome.Void](outcome.KindUnrecognized, err, true)
		}
	}

	return d.handler.Handle(ctx, msg)
}

func (d *Dispatcher) logFailure(msg Message, failure *outcome.Error) {
	if d.logger == nil {
		return
	}

	attrs := []any{
		slog.String("worker", d.worker),
		slog.String("message_id", msg.ID),
		slog.String("kind", string(failure.Kind)),
		slog.Any("error", failure.Cause),
	}

	if failure.Retryable {
		d.logger.Error("message failed, scheduled for retry", attrs...)
		return
	}
	d.logger.Warn("message dropped", attrs...)
}
