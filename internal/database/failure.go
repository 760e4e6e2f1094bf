package database

import (
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// Driver codes of values the schema rejects. Retrying them never succeeds.
const (
	pgDataExceptionClass pq.ErrorClass = "22"
	pgCheckViolation     pq.ErrorCode  = "23514"
	mysqlOutOfRange      uint16        = 1264
	mysqlDataTooLong     uint16        = 1406
	mysqlCheckConstraint uint16        = 3819
)

// StorageFailure reports a driver error as a failure. Values rejected by the schema are
// InvalidArguments and non-retryable; everything else is a retryable Unrecognized failure.
func StorageFailure[T any](err error, message string) outcome.Outcome[T] {
	wrapped := apperrors.Wrap(err, message)
	if IsRejectedValue(err) {
		return outcome.Failure[T](outcome.KindInvalidArguments, wrapped, false)
	}
	return outcome.Failure[T](outcome.KindUnrecognized, wrapped, true)
}

// IsRejectedValue reports whether err is a postgres data exception or check violation, or a
// mysql out of range, too long or check constraint error.
func IsRejectedValue(err error) bool {
	var pqErr *pq.Error
	if apperrors.As(err, &pqErr) {
		return pqErr.Code.Class() == pgDataExceptionClass || pqErr.Code == pgCheckViolation
	}

	var mysqlErr *mysql.MySQLError
	if apperrors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlOutOfRange, mysqlDataTooLong, mysqlCheckConstraint:
			return true
		}
	}
	return false
}
