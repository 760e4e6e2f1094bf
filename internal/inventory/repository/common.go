package repository

import (
	"database/sql"

	"github.com/mutchinick/ecomm-workers/internal/database"
	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	inventoryDomain "github.com/mutchinick/ecomm-workers/internal/inventory/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	appValidation "github.com/mutchinick/ecomm-workers/internal/validation"
)

func invalidCommand[T any]() outcome.Outcome[T] {
	return appValidation.InvalidArguments[T](
		apperrors.Wrap(apperrors.ErrInvalidInput, "command was not built by its validating builder"),
	)
}

// requireAffected returns onZero when a conditional write affected no rows, a storage
// failure when the count is unavailable, and nil otherwise.
func requireAffected[T any](result sql.Result, onZero *outcome.Error) *outcome.Outcome[T] {
	affected, err := result.RowsAffected()
	if err != nil {
		failure := database.StorageFailure[T](err, "failed to read affected rows")
		return &failure
	}
	if affected == 0 {
		failure := outcome.Failure[T](onZero.Kind, onZero.Cause, onZero.Retryable)
		return &failure
	}
	return nil
}

func restockConflict(restock inventoryDomain.Restock) *outcome.Error {
	return &outcome.Error{
		Kind:  outcome.KindDuplicateOperation,
		Cause: apperrors.Wrapf(inventoryDomain.ErrRestockAlreadyApplied, "sku %q lot %q", restock.Sku, restock.LotID),
	}
}

func allocationConflict(allocation inventoryDomain.Allocation) *outcome.Error {
	return &outcome.Error{
		Kind: outcome.KindDuplicateOperation,
		Cause: apperrors.Wrapf(inventoryDomain.ErrAllocationAlreadyApplied, "order %q sku %q",
			allocation.OrderID, allocation.Sku),
	}
}

func stockDepleted(allocation inventoryDomain.Allocation) *outcome.Error {
	return &outcome.Error{
		Kind: outcome.KindDepletedStock,
		Cause: apperrors.Wrapf(inventoryDomain.ErrStockDepleted, "sku %q has fewer than %d units",
			allocation.Sku, allocation.Units),
	}
}
