package app

import (
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	ordersRepository "github.com/mutchinick/ecomm-workers/internal/orders/repository"
	ordersUseCase "github.com/mutchinick/ecomm-workers/internal/orders/usecase"
)

// OrderRepository returns the order repository instance.
func (c *Container) OrderRepository() (ordersUseCase.OrderRepository, error) {
	var err error
	c.orderRepoInit.Do(func() {
		c.orderRepo, err = c.initOrderRepository()
		if err != nil {
			c.setInitError("orderRepo", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("orderRepo"); storedErr != nil {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// SyncOrderUseCase returns the order synchronization use case.
func (c *Container) SyncOrderUseCase() (ordersUseCase.SyncOrderUseCase, error) {
	var err error
	c.syncOrderUseCaseInit.Do(func() {
		c.syncOrderUseCase, err = c.initSyncOrderUseCase()
		if err != nil {
			c.setInitError("syncOrderUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("syncOrderUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.syncOrderUseCase, nil
}

func (c *Container) initOrderRepository() (ordersUseCase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return ordersRepository.NewMySQLOrderRepository(db, c.config.Tables.Orders), nil
	case database.DriverPostgres:
		return ordersRepository.NewPostgreSQLOrderRepository(db, c.config.Tables.Orders), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initSyncOrderUseCase() (ordersUseCase.SyncOrderUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for sync order use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for sync order use case: %w", err)
	}

	emitter, err := c.Emitter()
	if err != nil {
		return nil, fmt.Errorf("failed to get emitter for sync order use case: %w", err)
	}

	baseUseCase := ordersUseCase.NewSyncOrderUseCase(txManager, orderRepo, emitter)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for sync order use case: %w", err)
		}
		return ordersUseCase.NewSyncOrderUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
