package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mutchinick/ecomm-workers/internal/database"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	appValidation "github.com/mutchinick/ecomm-workers/internal/validation"
)

// MySQLOrderRepository implements order persistence for MySQL databases.
// The DSN must set parseTime=true so timestamps scan into time.Time.
type MySQLOrderRepository struct {
	db    *sql.DB
	table string
}

// NewMySQLOrderRepository creates a new MySQL order repository on the given table.
func NewMySQLOrderRepository(db *sql.DB, table string) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, table: table}
}

// GetOrder reads an order by id. A missing order is Success(nil).
func (m *MySQLOrderRepository) GetOrder(
	ctx context.Context,
	cmd ordersDomain.GetOrderCommand,
) outcome.Outcome[*ordersDomain.Order] {
	if !cmd.Valid() {
		return appValidation.InvalidArguments[*ordersDomain.Order](errInvalidCommand)
	}

	order, err := m.get(ctx, database.GetTx(ctx, m.db), cmd.OrderID())
	if err != nil {
		return database.StorageFailure[*ordersDomain.Order](err, "failed to get order")
	}
	return outcome.Success(order)
}

// CreateOrder inserts the order unless one with the same id exists. On conflict the stored
// order is returned as a success. The no-op assignment makes MySQL report zero affected
// rows for a duplicate key.
func (m *MySQLOrderRepository) CreateOrder(
	ctx context.Context,
	cmd ordersDomain.CreateOrderCommand,
) outcome.Outcome[ordersDomain.Order] {
	if !cmd.Valid() {
		return appValidation.InvalidArguments[ordersDomain.Order](errInvalidCommand)
	}
	querier := database.GetTx(ctx, m.db)
	order := cmd.Order()

	query := fmt.Sprintf(`INSERT INTO %s (%s)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE order_id = order_id`, m.table, orderColumns)

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
		return m.get(ctx, querier, order.OrderID)
	})
}

// UpdateOrder moves the order to the new status only if it still holds the expected one.
func (m *MySQLOrderRepository) UpdateOrder(
	ctx context.Context,
	cmd ordersDomain.UpdateOrderCommand,
) outcome.Outcome[ordersDomain.Order] {
	if !cmd.Valid() {
		return appValidation.InvalidArguments[ordersDomain.Order](errInvalidCommand)
	}
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(`UPDATE %s
			  SET order_status = ?, updated_at = ?
			  WHERE order_id = ? AND order_status = ?`, m.table)

	result, err := querier.ExecContext(
		ctx,
		query,
		cmd.NewStatus(),
		cmd.UpdatedAt(),
		cmd.OrderID(),
		cmd.ExpectedStatus(),
	)
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to update order")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to read affected rows")
	}
	if affected == 0 {
		return statusConflict(cmd)
	}

	order, err := m.get(ctx, querier, cmd.OrderID())
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to read updated order")
	}
	if order == nil {
		return statusConflict(cmd)
	}
	return outcome.Success(*order)
}

func (m *MySQLOrderRepository) get(
	ctx context.Context,
	querier database.Querier,
	orderID string,
) (*ordersDomain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE order_id = ?`, orderColumns, m.table)
	return scanOrder(querier.QueryRowContext(ctx, query, orderID))
}
