package app

import (
	"context"
	"fmt"

	"gocloud.dev/pubsub"

	"github.com/mutchinick/ecomm-workers/internal/database"
	outboxRepository "github.com/mutchinick/ecomm-workers/internal/outbox/repository"
	outboxUseCase "github.com/mutchinick/ecomm-workers/internal/outbox/usecase"
	"github.com/mutchinick/ecomm-workers/internal/queue"
)

// OutboxRepository returns the outbox event repository instance.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	var err error
	c.outboxRepoInit.Do(func() {
		c.outboxRepo, err = c.initOutboxRepository()
		if err != nil {
			c.setInitError("outboxRepo", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("outboxRepo"); storedErr != nil {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// Emitter returns the outbox emitter shared by the use cases that emit events.
func (c *Container) Emitter() (*outboxUseCase.Emitter, error) {
	var err error
	c.emitterInit.Do(func() {
		c.emitter, err = c.initEmitter()
		if err != nil {
			c.setInitError("emitter", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("emitter"); storedErr != nil {
		return nil, storedErr
	}
	return c.emitter, nil
}

// EventTopic returns the topic outbox events are published to.
func (c *Container) EventTopic(ctx context.Context) (*pubsub.Topic, error) {
	var err error
	c.eventTopicInit.Do(func() {
		c.eventTopic, err = queue.OpenTopic(ctx, c.config.EventTopicURL)
		if err != nil {
			c.setInitError("eventTopic", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("eventTopic"); storedErr != nil {
		return nil, storedErr
	}
	return c.eventTopic, nil
}

// RelayUseCase returns the outbox relay.
func (c *Container) RelayUseCase(ctx context.Context) (outboxUseCase.UseCase, error) {
	var err error
	c.relayUseCaseInit.Do(func() {
		c.relayUseCase, err = c.initRelayUseCase(ctx)
		if err != nil {
			c.setInitError("relayUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("relayUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.relayUseCase, nil
}

// initOutboxRepository creates the outbox event repository instance.
func (c *Container) initOutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case database.DriverMySQL:
		return outboxRepository.NewMySQLOutboxEventRepository(db, c.config.Tables.Outbox), nil
	case database.DriverPostgres:
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db, c.config.Tables.Outbox), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initEmitter() (*outboxUseCase.Emitter, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for emitter: %w", err)
	}
	return outboxUseCase.NewEmitter(outboxRepo, c.Logger()), nil
}

// initRelayUseCase creates the outbox relay with all its dependencies.
func (c *Container) initRelayUseCase(ctx context.Context) (outboxUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox relay: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox relay: %w", err)
	}

	topic, err := c.EventTopic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get event topic for outbox relay: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for outbox relay: %w", err)
	}

	relayConfig := outboxUseCase.Config{
		Interval:   c.config.OutboxRelayInterval,
		BatchSize:  c.config.OutboxRelayBatchSize,
		MaxRetries: c.config.OutboxMaxRetries,
	}

	return outboxUseCase.NewRelayUseCase(
		relayConfig,
		txManager,
		outboxRepo,
		outboxUseCase.NewTopicPublisher(topic),
		businessMetrics,
		c.Logger(),
	), nil
}
