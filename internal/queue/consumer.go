package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/pubsub"

	// Subscription URL schemes: mem://, awssqs://, gcppubsub://.
	_ "gocloud.dev/pubsub/awssnssqs"
	_ "gocloud.dev/pubsub/gcppubsub"
	_ "gocloud.dev/pubsub/mempubsub"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
)

const shutdownTimeout = 10 * time.Second

// BatchProcessor processes a batch and reports which messages to redeliver.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, batch *Batch) Acknowledgment
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	Worker    string
	BatchSize int
	// BatchWait bounds how long a batch keeps filling once its first message arrived.
	BatchWait time.Duration
}

// Consumer pulls message batches from a subscription and acknowledges them according to the
// processor's result.
type Consumer struct {
	config       ConsumerConfig
	subscription *pubsub.Subscription
	processor    BatchProcessor
	logger       *slog.Logger
}

// NewConsumer creates a new Consumer. The consumer owns the subscription and shuts it down
// when Start returns.
func NewConsumer(
	config ConsumerConfig,
	subscription *pubsub.Subscription,
	processor BatchProcessor,
	logger *slog.Logger,
) *Consumer {
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	return &Consumer{
		config:       config,
		subscription: subscription,
		processor:    processor,
		logger:       logger,
	}
}

// OpenSubscription opens a subscription from a gocloud.dev URL.
func OpenSubscription(ctx context.Context, url string) (*pubsub.Subscription, error) {
	subscription, err := pubsub.OpenSubscription(ctx, url)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open subscription %q", url)
	}
	return subscription, nil
}

// OpenTopic opens a topic from a gocloud.dev URL.
func OpenTopic(ctx context.Context, url string) (*pubsub.Topic, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open topic %q", url)
	}
	return topic, nil
}

// Start consumes batches until ctx is canceled or the subscription fails.
func (c *Consumer) Start(ctx context.Context) error {
	if c.logger != nil {
		c.logger.Info("starting consumer",
			slog.String("worker", c.config.Worker),
			slog.Int("batch_size", c.config.BatchSize),
			slog.Duration("batch_wait", c.config.BatchWait),
		)
	}

	defer c.shutdown()

	for {
		received, err := c.receiveBatch(ctx)
		if len(received) > 0 {
			c.process(ctx, received)
		}

		if err != nil {
			if ctx.Err() != nil {
				if c.logger != nil {
					c.logger.Info("stopping consumer", slog.String("worker", c.config.Worker))
				}
				return ctx.Err()
			}
			return apperrors.Wrap(err, "failed to receive message")
		}
	}
}

// receiveBatch blocks for the first message, then collects more until the batch is full or
// BatchWait elapses.
func (c *Consumer) receiveBatch(ctx context.Context) ([]*pubsub.Message, error) {
	first, err := c.subscription.Receive(ctx)
	if err != nil {
		return nil, err
	}

	received := []*pubsub.Message{first}
	if c.config.BatchSize == 1 {
		return received, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.config.BatchWait)
	defer cancel()

	for len(received) < c.config.BatchSize {
		msg, err := c.subscription.Receive(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				break
			}
			return received, err
		}
		received = append(received, msg)
	}

	return received, nil
}

func (c *Consumer) process(ctx context.Context, received []*pubsub.Message) {
	batch := &Batch{Messages: make([]Message, len(received))}
	for i, msg := range received {
		batch.Messages[i] = Message{ID: uuid.NewString(), Body: msg.Body}
	}

	ack := c.processor.ProcessBatch(ctx, batch)
	retry := ack.RetryIDs()

	for i, msg := range received {
		if _, ok := retry[batch.Messages[i].ID]; !ok {
			msg.Ack()
			continue
		}
		// Drivers without nack redeliver once the ack deadline passes.
		if msg.Nackable() {
			msg.Nack()
		}
	}
}

func (c *Consumer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := c.subscription.Shutdown(ctx); err != nil && c.logger != nil {
		c.logger.Error("failed to shut down subscription",
			slog.String("worker", c.config.Worker),
			slog.Any("error", err),
		)
	}
}
