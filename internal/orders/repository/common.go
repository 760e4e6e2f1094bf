package repository

import (
	"database/sql"

	"github.com/mutchinick/ecomm-workers/internal/database"
	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	ordersDomain "github.com/mutchinick/ecomm-workers/internal/orders/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

var errInvalidCommand = apperrors.Wrap(apperrors.ErrInvalidInput, "command was not built by its validating builder")

// resolveCreate interprets the result of a conditional insert. Zero affected rows means
// the order already exists, in which case the stored row is read back.
func resolveCreate(
	result sql.Result,
	order ordersDomain.Order,
	readExisting func() (*ordersDomain.Order, error),
) outcome.Outcome[ordersDomain.Order] {
	affected, err := result.RowsAffected()
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to read affected rows")
	}
	if affected > 0 {
		return outcome.Success(order)
	}

	existing, err := readExisting()
	if err != nil {
		return database.StorageFailure[ordersDomain.Order](err, "failed to read existing order")
	}
	if existing == nil {
		return outcome.Failure[ordersDomain.Order](
			outcome.KindUnrecognized,
			apperrors.Wrapf(apperrors.ErrConflict, "order %q neither inserted nor found", order.OrderID),
			true,
		)
	}
	return outcome.Success(*existing)
}

func statusConflict(cmd ordersDomain.UpdateOrderCommand) outcome.Outcome[ordersDomain.Order] {
	return outcome.Failure[ordersDomain.Order](
		outcome.KindUnrecognized,
		apperrors.Wrapf(ordersDomain.ErrOrderStatusConflict, "order %q expected %s",
			cmd.OrderID(), cmd.ExpectedStatus()),
		true,
	)
}
