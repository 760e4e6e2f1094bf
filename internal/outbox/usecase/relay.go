package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/mutchinick/ecomm-workers/internal/database"
	"github.com/mutchinick/ecomm-workers/internal/metrics"
	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
)

// Config holds outbox relay configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// RelayUseCase publishes pending outbox events on a fixed interval
type RelayUseCase struct {
	config     Config
	txManager  database.TxManager
	outboxRepo OutboxEventRepository
	publisher  Publisher
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewRelayUseCase creates a new RelayUseCase
func NewRelayUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	publisher Publisher,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *RelayUseCase {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &RelayUseCase{
		config:     config,
		txManager:  txManager,
		outboxRepo: outboxRepo,
		publisher:  publisher,
		metrics:    businessMetrics,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the relay loop until ctx is canceled
func (uc *RelayUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting outbox relay",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
			slog.Int("max_retries", uc.config.MaxRetries),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping outbox relay")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to relay outbox events", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessEvents publishes one batch of pending events in a transaction. A publish failure
// bumps the event's retries; once MaxRetries is reached the event is marked failed and no
// longer picked up.
func (uc *RelayUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Debug("relaying outbox events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			start := time.Now()
			publishErr := uc.publisher.Publish(ctx, event)
			now := uc.now()
			event.UpdatedAt = now

			status := metrics.StatusSuccess
			if publishErr != nil {
				status = metrics.StatusRetry
				event.Retries++
				errorMsg := publishErr.Error()
				event.LastError = &errorMsg

				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.OutboxEventStatusFailed
					status = metrics.StatusDropped
				}

				if uc.logger != nil {
					uc.logger.Error("failed to publish outbox event",
						slog.String("event_id", event.ID.String()),
						slog.String("event_name", string(event.EventName)),
						slog.Int("retries", event.Retries),
						slog.Any("error", publishErr),
					)
				}
			} else {
				event.Status = domain.OutboxEventStatusProcessed
				event.ProcessedAt = &now
			}

			uc.metrics.RecordOperation(ctx, "outbox", "event_publish", status)
			uc.metrics.RecordDuration(ctx, "outbox", "event_publish", time.Since(start), status)

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}
