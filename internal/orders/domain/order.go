package domain

import (
	"slices"
	"time"

	eventsdomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderCreatedStatus         OrderStatus = "ORDER_CREATED_STATUS"
	OrderStockDepletedStatus   OrderStatus = "ORDER_STOCK_DEPLETED_STATUS"
	OrderStockAllocatedStatus  OrderStatus = "ORDER_STOCK_ALLOCATED_STATUS"
	OrderPaymentAcceptedStatus OrderStatus = "ORDER_PAYMENT_ACCEPTED_STATUS"
	OrderPaymentRejectedStatus OrderStatus = "ORDER_PAYMENT_REJECTED_STATUS"
	OrderFulfilledStatus       OrderStatus = "ORDER_FULFILLED_STATUS"
	OrderPackagedStatus        OrderStatus = "ORDER_PACKAGED_STATUS"
	OrderShippedStatus         OrderStatus = "ORDER_SHIPPED_STATUS"
	OrderDeliveredStatus       OrderStatus = "ORDER_DELIVERED_STATUS"
	OrderCanceledStatus        OrderStatus = "ORDER_CANCELED_STATUS"
)

// Order is the persisted order aggregate. OrderID never changes once created.
type Order struct {
	OrderID   string      `json:"orderId"`
	UserID    string      `json:"userId"`
	Sku       string      `json:"sku"`
	Units     int         `json:"units"`
	Price     float64     `json:"price"`
	Status    OrderStatus `json:"orderStatus"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type transition struct {
	from []OrderStatus
	to   OrderStatus
}

var transitions = map[eventsdomain.EventName]transition{
	eventsdomain.OrderStockDepletedEvent: {
		from: []OrderStatus{OrderCreatedStatus},
		to:   OrderStockDepletedStatus,
	},
	eventsdomain.OrderStockAllocatedEvent: {
		from: []OrderStatus{OrderCreatedStatus},
		to:   OrderStockAllocatedStatus,
	},
	eventsdomain.OrderPaymentAcceptedEvent: {
		from: []OrderStatus{OrderStockAllocatedStatus},
		to:   OrderPaymentAcceptedStatus,
	},
	eventsdomain.OrderPaymentRejectedEvent: {
		from: []OrderStatus{OrderStockAllocatedStatus},
		to:   OrderPaymentRejectedStatus,
	},
	eventsdomain.OrderFulfilledEvent: {
		from: []OrderStatus{OrderPaymentAcceptedStatus},
		to:   OrderFulfilledStatus,
	},
	eventsdomain.OrderPackagedEvent: {
		from: []OrderStatus{OrderFulfilledStatus},
		to:   OrderPackagedStatus,
	},
	eventsdomain.OrderShippedEvent: {
		from: []OrderStatus{OrderPackagedStatus},
		to:   OrderShippedStatus,
	},
	eventsdomain.OrderDeliveredEvent: {
		from: []OrderStatus{OrderShippedStatus},
		to:   OrderDeliveredStatus,
	},
	eventsdomain.OrderCanceledEvent: {
		from: []OrderStatus{
			OrderCreatedStatus,
			OrderStockDepletedStatus,
			OrderStockAllocatedStatus,
			OrderPaymentRejectedStatus,
		},
		to: OrderCanceledStatus,
	},
}

// TargetStatus returns the status an update event moves an order to.
func TargetStatus(event eventsdomain.EventName) (OrderStatus, bool) {
	t, ok := transitions[event]
	return t.to, ok
}

// CanTransition reports whether the event may move an order out of the given status.
func CanTransition(from OrderStatus, event eventsdomain.EventName) bool {
	t, ok := transitions[event]
	if !ok {
		return false
	}
	return slices.Contains(t.from, from)
}
