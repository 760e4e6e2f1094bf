package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

func TestMySQLOrderRepository_GetOrder(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM custom_orders WHERE order_id = ?`)).
		WithArgs("order-1").
		WillReturnRows(orderRow(ordersDomain.OrderCreatedStatus, testNow))

	repo := NewMySQLOrderRepository(db, "custom_orders")
	result := repo.GetOrder(ctx, getCommand(t))

	require.True(t, result.IsSuccess())
	require.NotNil(t, result.Value())
	assert.Equal(t, "order-1", result.Value().OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOrderRepository_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Inserted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		cmd := createCommand(t)
		mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE order_id = order_id`)).
			WithArgs("order-1", "user-1", "sku-1", 3, 4.5, "ORDER_CREATED_STATUS", testNow, testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLOrderRepository(db, "orders")
		result := repo.CreateOrder(ctx, cmd)

		require.True(t, result.IsSuccess())
		assert.Equal(t, cmd.Order(), result.Value())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_DuplicateReturnsStoredOrder", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE order_id = ?`)).
			WithArgs("order-1").
			WillReturnRows(orderRow(ordersDomain.OrderShippedStatus, testNow))

		repo := NewMySQLOrderRepository(db, "orders")
		result := repo.CreateOrder(ctx, createCommand(t))

		require.True(t, result.IsSuccess())
		assert.Equal(t, ordersDomain.OrderShippedStatus, result.Value().Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLOrderRepository_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	updatedAt := testNow.Add(time.Minute)

	t.Run("Success_Updated", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta(`WHERE order_id = ? AND order_status = ?`)).
			WithArgs("ORDER_STOCK_ALLOCATED_STATUS", updatedAt, "order-1", "ORDER_CREATED_STATUS").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT`).
			WithArgs("order-1").
			WillReturnRows(orderRow(ordersDomain.OrderStockAllocatedStatus, updatedAt))

		repo := NewMySQLOrderRepository(db, "orders")
		result := repo.UpdateOrder(ctx, updateCommand(t))

		require.True(t, result.IsSuccess())
		assert.Equal(t, ordersDomain.OrderStockAllocatedStatus, result.Value().Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_ZeroRowsIsRetryableConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewMySQLOrderRepository(db, "orders")
		result := repo.UpdateOrder(ctx, updateCommand(t))

		assert.True(t, result.IsFailureOfKind(outcome.KindUnrecognized))
		assert.True(t, result.IsRetryable())
		assert.True(t, apperrors.Is(result.Err(), ordersDomain.ErrOrderStatusConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_DriverError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`UPDATE orders`).WillReturnError(errors.New("lock wait timeout"))

		repo := NewMySQLOrderRepository(db, "orders")
		result := repo.UpdateOrder(ctx, updateCommand(t))

		assert.True(t, result.IsRetryable())
	})
}

func TestMySQLOrderRepository_CreateOrderRejectedValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnError(&mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'units'"})

	repo := NewMySQLOrderRepository(db, "orders")
	result := repo.CreateOrder(context.Background(), createCommand(t))

	assert.True(t, result.IsFailureOfKind(outcome.KindInvalidArguments))
	assert.False(t, result.IsRetryable())
	assert.NoError(t, mock.ExpectationsWereMet())
}
