// Package repository implements the idempotent order ledger for PostgreSQL and MySQL.
// Every write is conditional: replays of the same command are detected by the store and
// resolved without double application.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	appValidation "github.com/mutchinick/ecomm-workers/internal/validation"
)

const orderColumns = `order_id, user_id, sku, units, price, order_status, created_at, updated_at`

// PostgreSQLOrderRepository implements order persistence for PostgreSQL databases.
type PostgreSQLOrderRepository struct {
	db    *sql.DB
	table string
}

// NewPostgreSQLOrderRepository creates a new PostgreSQL order repository on the given table.
func NewPostgreSQLOrderRepository(db *sql.DB, table string) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{db: db, table: table}
}

// GetOrder reads an order by id. A missing order is Success(nil).
func (p *PostgreSQLOrderRepository) GetOrder(
	ctx context.Context,
	cmd ordersDomain.GetOrderCommand,
) outcome.Outcome[*ordersDomain.Order] {
	if !cmd.Valid() {
		return appValidation.InvalidArguments[*ordersDomain.Order](errInvalidCommand)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE order_id = $1`, orderColumns, p.table)

	order, err := scanOrder(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, cmd.OrderID()))
	if err != nil {
		return database.StorageFailure[*ordersDomain.Order](err, "failed to get order")
	}
	return outcome.Success(order)
}

// CreateOrder inserts the order unless one with the same id exists. On conflict the stored
// order is returned as a success.
func (p *PostgreSQLOrderRepository) CreateOrder(
	ctx context.Context,
	cmd ordersDomain.CreateOrderCommand,
) outcome.Outcome[ordersDomain.Order] {
	if !cmd.Valid() {
		return appValidation.InvalidArguments[ordersDomain.Order](errInvalidCommand)
	}
	querier := database.GetTx(ctx, p.db)
	order := cmd.Order()

	query := fmt.Sprintf(`INSERT INTO %s (%s)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (order_id) DO NOTHING`, p.table, orderColumns)

	result, err := querier.ExecContext(
		ctx,
		query,
		order.OrderID,
		order.UserID,
		order.Sku,
		order.Units,
		order.Price,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to create order")
	}

	return resolveCreate(result, order, func() (*ordersDomain.Order, error) {
		selectQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE order_id = $1`, orderColumns, p.table)
		return scanOrder(querier.QueryRowContext(ctx, selectQuery, order.OrderID))
	})
}

// UpdateOrder moves the order to the new status only if it still holds the expected one.
func (p *PostgreSQLOrderRepository) UpdateOrder(
	ctx context.Context,
	cmd ordersDomain.UpdateOrderCommand,
) outcome.Outcome[ordersDomain.Order] {
	if !cmd.Valid() {
		return appValidation.InvalidArguments[ordersDomain.Order](errInvalidCommand)
	}

	query := fmt.Sprintf(`UPDATE %s
			  SET order_status = $1, updated_at = $2
			  WHERE order_id = $3 AND order_status = $4
			  RETURNING %s`, p.table, orderColumns)

	order, err := scanOrder(database.GetTx(ctx, p.db).QueryRowContext(
		ctx,
		query,
		cmd.NewStatus(),
		cmd.UpdatedAt(),
		cmd.OrderID(),
		cmd.ExpectedStatus(),
	))
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to update order")
	}
	if order == nil {
		return statusConflict(cmd)
	}
	return outcome.Success(*order)
}

// scanOrder scans one order row. sql.ErrNoRows yields a nil order and no error.
func scanOrder(row *sql.Row) (*ordersDomain.Order, error) {
	var order ordersDomain.Order
	err := row.Scan(
		&order.OrderID,
		&order.UserID,
		&order.Sku,
		&order.Units,
		&order.Price,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
