package domain

import "time"

// Restock records units added to a SKU from one lot. (Sku, LotID) is unique.
type Restock struct {
	Sku       string    `json:"sku"`
	LotID     string    `json:"lotId"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
}

// Allocation records units of a SKU reserved for an order. (OrderID, Sku) is unique.
type Allocation struct {
	OrderID   string    `json:"orderId"`
	Sku       string    `json:"sku"`
	Units     int       `json:"units"`
	Price     float64   `json:"price"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// AllocationResult describes how an allocation request was resolved.
type AllocationResult string

const (
	// AllocationAllocated means stock was reserved and ORDER_STOCK_ALLOCATED_EVENT emitted.
	AllocationAllocated AllocationResult = "ALLOCATED"
	// AllocationDepleted means no stock was reserved and ORDER_STOCK_DEPLETED_EVENT emitted.
	AllocationDepleted AllocationResult = "DEPLETED"
	// AllocationAlreadyApplied means a previous delivery already reserved the stock.
	AllocationAlreadyApplied AllocationResult = "ALREADY_APPLIED"
)
