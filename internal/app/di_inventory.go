package app

import (
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	inventoryRepository "github.com/mutchinick/ecomm-workers/internal/inventory/repository"
	inventoryUseCase "github.com/mutchinick/ecomm-workers/internal/inventory/usecase"
)

// InventoryRepository returns the inventory repository instance.
func (c *Container) InventoryRepository() (inventoryUseCase.InventoryRepository, error) {
	var err error
	c.inventoryRepoInit.Do(func() {
		c.inventoryRepo, err = c.initInventoryRepository()
		if err != nil {
			c.setInitError("inventoryRepo", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("inventoryRepo"); storedErr != nil {
		return nil, storedErr
	}
	return c.inventoryRepo, nil
}

// RestockSkuUseCase returns the restock use case.
func (c *Container) RestockSkuUseCase() (inventoryUseCase.RestockSkuUseCase, error) {
	var err error
	c.restockSkuUseCaseInit.Do(func() {
		c.restockSkuUseCase, err = c.initRestockSkuUseCase()
		if err != nil {
			c.setInitError("restockSkuUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("restockSkuUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.restockSkuUseCase, nil
}

// AllocateOrderStockUseCase returns the stock allocation use case.
func (c *Container) AllocateOrderStockUseCase() (inventoryUseCase.AllocateOrderStockUseCase, error) {
	var err error
	c.allocateOrderStockUseCaseInit.Do(func() {
		c.allocateOrderStockUseCase, err = c.initAllocateOrderStockUseCase()
		if err != nil {
			c.setInitError("allocateOrderStockUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("allocateOrderStockUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.allocateOrderStockUseCase, nil
}

func (c *Container) initInventoryRepository() (inventoryUseCase.InventoryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for inventory repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return inventoryRepository.NewMySQLInventoryRepository(db, c.config.Tables), nil
	case database.DriverPostgres:
		return inventoryRepository.NewPostgreSQLInventoryRepository(db, c.config.Tables), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRestockSkuUseCase() (inventoryUseCase.RestockSkuUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for restock use case: %w", err)
	}

	inventoryRepo, err := c.InventoryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory repository for restock use case: %w", err)
	}

	baseUseCase := inventoryUseCase.NewRestockSkuUseCase(txManager, inventoryRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for restock use case: %w", err)
		}
		return inventoryUseCase.NewRestockSkuUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initAllocateOrderStockUseCase() (inventoryUseCase.AllocateOrderStockUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for allocation use case: %w", err)
	}

	inventoryRepo, err := c.InventoryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory repository for allocation use case: %w", err)
	}

	emitter, err := c.Emitter()
	if err != nil {
		return nil, fmt.Errorf("failed to get emitter for allocation use case: %w", err)
	}

	baseUseCase := inventoryUseCase.NewAllocateOrderStockUseCase(txManager, inventoryRepo, emitter)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for allocation use case: %w", err)
		}
		return inventoryUseCase.NewAllocateOrderStockUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
