package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutchinick/ecomm-workers/internal/database"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

func TestMySQLInventoryRepository_RestockSku(t *testing.T) {
	ctx := context.Background()
	tables := database.DefaultTableNames()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE sku = sku`)).
			WithArgs("sku-1", "lot-1", 6, testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`units_available = units_available + VALUES(units_available)`)).
			WithArgs("sku-1", 6, testNow).
			WillReturnResult(sqlmock.NewResult(0, 2))

		repo := NewMySQLInventoryRepository(db, tables)
		result := repo.RestockSku(ctx, restockCommand(t))

		assert.True(t, result.IsSuccess())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_DuplicateLot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`INSERT INTO restocks`).WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewMySQLInventoryRepository(db, tables)
		result := repo.RestockSku(ctx, restockCommand(t))

		assert.True(t, result.IsFailureOfKind(outcome.KindDuplicateOperation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLInventoryRepository_AllocateOrderStock(t *testing.T) {
	ctx := context.Background()
	tables := database.DefaultTableNames()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE order_id = order_id`)).
			WithArgs("order-1", "sku-1", 2, 1.5, "user-1", testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`WHERE sku = ? AND units_available >= ?`)).
			WithArgs(2, testNow, "sku-1", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMySQLInventoryRepository(db, tables)
		result := repo.AllocateOrderStock(ctx, allocateCommand(t))

		assert.True(t, result.IsSuccess())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_Depleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(`INSERT INTO allocations`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE skus`).WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewMySQLInventoryRepository(db, tables)
		result := repo.AllocateOrderStock(ctx, allocateCommand(t))

		assert.True(t, result.IsFailureOfKind(outcome.KindDepletedStock))
		assert.False(t, result.IsRetryable())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
