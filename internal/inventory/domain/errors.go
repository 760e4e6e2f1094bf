// Package domain defines the inventory ledger: restocks of a SKU lot, order stock
// allocations and the validated commands that write them.
package domain

import (
	"github.com/mutchinick/ecomm-workers/internal/errors"
)

// Inventory-specific error definitions.
var (
	// ErrRestockAlreadyApplied indicates the (sku, lotId) restock was already recorded.
	ErrRestockAlreadyApplied = errors.Wrap(errors.ErrConflict, "restock already applied")

	// ErrAllocationAlreadyApplied indicates stock was already allocated to the (orderId, sku).
	ErrAllocationAlreadyApplied = errors.Wrap(errors.ErrConflict, "allocation already applied")

	// ErrStockDepleted indicates the SKU has fewer units available than requested.
	ErrStockDepleted = errors.Wrap(errors.ErrInvalidState, "stock depleted")
)
