// Package domain defines the order aggregate, its status graph and the validated
// commands used to read and write it.
package domain

import (
	"github.com/mutchinick/ecomm-workers/internal/errors"
)

// Order-specific error definitions.
var (
	// ErrOrderNotFound indicates an update event arrived for an order that was never created.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrOrderStatusConflict indicates the stored status changed between read and write.
	ErrOrderStatusConflict = errors.Wrap(errors.ErrConflict, "order status changed concurrently")

	// ErrInvalidOrderTransition indicates the event is not legal for the stored status.
	ErrInvalidOrderTransition = errors.Wrap(errors.ErrInvalidState, "invalid order status transition")

	// ErrOrderMismatch indicates the event refers to a different order than the one loaded.
	ErrOrderMismatch = errors.Wrap(errors.ErrInvalidInput, "event does not match order")
)
