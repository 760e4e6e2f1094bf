// Package repository implements the idempotent inventory ledger for PostgreSQL and MySQL.
// Restocks are keyed by (sku, lot_id) and allocations by (order_id, sku). A key conflict is
// reported as DuplicateOperation so a replay never applies stock twice.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// PostgreSQLInventoryRepository implements inventory persistence for PostgreSQL databases.
type PostgreSQLInventoryRepository struct {
	db     *sql.DB
	tables database.TableNames
}

// NewPostgreSQLInventoryRepository creates a new PostgreSQL inventory repository.
func NewPostgreSQLInventoryRepository(db *sql.DB, tables database.TableNames) *PostgreSQLInventoryRepository {
	return &PostgreSQLInventoryRepository{db: db, tables: tables}
}

// RestockSku records the lot and adds its units to the SKU, creating the SKU row on the
// first restock.
func (p *PostgreSQLInventoryRepository) RestockSku(
	ctx context.Context,
	cmd inventoryDomain.RestockSkuCommand,
) outcome.Outcome[inventoryDomain.Restock] {
	if !cmd.Valid() {
		return invalidCommand[inventoryDomain.Restock]()
	}
	querier := database.GetTx(ctx, p.db)
	restock := cmd.Restock()

	insert := fmt.Sprintf(`INSERT INTO %s (sku, lot_id, units, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (sku, lot_id) DO NOTHING`, p.tables.Restocks)

	result, err := querier.ExecContext(ctx, insert, restock.Sku, restock.LotID, restock.Units, restock.CreatedAt)
	if err != nil {
		return database.StorageFailure[inventoryDomain.Restock](err, "failed to insert restock")
	}
	if failure := requireAffected[inventoryDomain.Restock](result, restockConflict(restock)); failure != nil {
		return *failure
	}

	upsert := fmt.Sprintf(`INSERT INTO %[1]s (sku, units_available, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (sku) DO UPDATE
			  SET units_available = %[1]s.units_available + EXCLUDED.units_available,
			      updated_at = EXCLUDED.updated_at`, p.tables.Skus)

	if _, err := querier.ExecContext(ctx, upsert, restock.Sku, restock.Units, restock.CreatedAt); err != nil {
		return database.StorageFailure[inventoryDomain.Restock](err, "failed to add sku units")
	}

	return outcome.Success(restock)
}

// AllocateOrderStock records the allocation and takes its units from the SKU. When fewer
// units are available it returns DepletedStock; the caller must roll the transaction back
// to discard the allocation row.
func (p *PostgreSQLInventoryRepository) AllocateOrderStock(
	ctx context.Context,
	cmd inventoryDomain.AllocateOrderStockCommand,
) outcome.Outcome[inventoryDomain.Allocation] {
	if !cmd.Valid() {
		return invalidCommand[inventoryDomain.Allocation]()
	}
	querier := database.GetTx(ctx, p.db)
	allocation := cmd.Allocation()

	insert := fmt.Sprintf(`INSERT INTO %s (order_id, sku, units, price, user_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (order_id, sku) DO NOTHING`, p.tables.Allocations)

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
			  SET units_available = units_available - $1, updated_at = $2
			  WHERE sku = $3 AND units_available >= $1`, p.tables.Skus)

	result, err = querier.ExecContext(ctx, decrement, allocation.Units, allocation.CreatedAt, allocation.Sku)
	if err != nil {
		return database.StorageFailure[inventoryDomain.Allocation](err, "failed to take sku units")
	}
	if failure := requireAffected[inventoryDomain.Allocation](result, stockDepleted(allocation)); failure != nil {
		return *failure
	}

	return outcome.Success(allocation)
}
