package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// MySQLInventoryRepository implements inventory persistence for MySQL databases.
type MySQLInventoryRepository struct {
	db     *sql.DB
	tables database.TableNames
}

// NewMySQLInventoryRepository creates a new MySQL inventory repository.
func NewMySQLInventoryRepository(db *sql.DB, tables database.TableNames) *MySQLInventoryRepository {
	return &MySQLInventoryRepository{db: db, tables: tables}
}

// RestockSku records the lot and adds its units to the SKU, creating the SKU row on the
// first restock.
func (m *MySQLInventoryRepository) RestockSku(
	ctx context.Context,
	cmd inventoryDomain.RestockSkuCommand,
) outcome.Outcome[inventoryDomain.Restock] {
	if !cmd.Valid() {
		return invalidCommand[inventoryDomain.Restock]()
	}
	querier := database.GetTx(ctx, m.db)
	restock := cmd.Restock()

	insert := fmt.Sprintf(`INSERT INTO %s (sku, lot_id, units, created_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE sku = sku`, m.tables.Restocks)

	result, err := querier.ExecContext(ctx, insert, restock.Sku, restock.LotID, restock.Units, restock.CreatedAt)
	if err != nil {
		return database.StorageFailure[inventoryDomain.Restock](err, "failed to insert restock")
	}
	if failure := requireAffected[inventoryDomain.Restock](result, restockConflict(restock)); failure != nil {
		return *failure
	}

	upsert := fmt.Sprintf(`INSERT INTO %s (sku, units_available, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  units_available = units_available + VALUES(units_available),
			  updated_at = VALUES(updated_at)`, m.tables.Skus)

	if _, err := querier.ExecContext(ctx, upsert, restock.Sku, restock.Units, restock.CreatedAt); err != nil {
		return database.StorageFailure[inventoryDomain.Restock](err, "failed to add sku units")
	}

	return outcome.Success(restock)
}

// AllocateOrderStock records the allocation and takes its units from the SKU. When fewer
// units are available it returns DepletedStock; the caller must roll the transaction back
// to discard the allocation row.
func (m *MySQLInventoryRepository) AllocateOrderStock(
	ctx context.Context,
	cmd inventoryDomain.AllocateOrderStockCommand,
) outcome.Outcome[inventoryDomain.Allocation] {
	if !cmd.Valid() {
		return invalidCommand[inventoryDomain.Allocation]()
	}
	querier := database.GetTx(ctx, m.db)
	allocation := cmd.Allocation()

	insert := fmt.Sprintf(`INSERT INTO %s (order_id, sku, units, price, user_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE order_id = order_id`, m.tables.Allocations)

	result, err := querier.ExecContext(
		ctx,
		insert,
		allocation.OrderID,
		allocation.Sku,
		allocation.Units,
		allocation.Price,
		allocation.UserID,
		allocation.CreatedAt,
	)
	if err != nil {
		return database.StorageFailure[inventoryDomain.Allocation](err, "failed to insert allocation")
	}
	if failure := requireAffected[inventoryDomain.Allocation](result, allocationConflict(allocation)); failure != nil {
		return *failure
	}

	decrement := fmt.Sprintf(`UPDATE %s
			  SET units_available = units_available - ?, updated_at = ?
			  WHERE sku = ? AND units_available >= ?`, m.tables.Skus)

	result, err = querier.ExecContext(
		ctx,
		decrement,
		allocation.Units,
		allocation.CreatedAt,
		allocation.Sku,
		allocation.Units,
	)
	if err != nil {
		return database.StorageFailure[inventoryDomain.Allocation](err, "failed to take sku units")
	}
	if failure := requireAffected[inventoryDomain.Allocation](result, stockDepleted(allocation)); failure != nil {
		return *failure
	}

	return outcome.Success(allocation)
}
