// Package domain defines the events exchanged over the queue: the names every worker
// understands, the envelope carried in a queue message body and the validated
// IncomingEvent a worker builds from it.
package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// EventName identifies the type of an event.
type EventName string

// Order lifecycle events.
const (
	OrderPlacedEvent          EventName = "ORDER_PLACED_EVENT"
	OrderCreatedEvent         EventName = "ORDER_CREATED_EVENT"
	OrderStockDepletedEvent   EventName = "ORDER_STOCK_DEPLETED_EVENT"
	OrderStockAllocatedEvent  EventName = "ORDER_STOCK_ALLOCATED_EVENT"
	OrderPaymentAcceptedEvent EventName = "ORDER_PAYMENT_ACCEPTED_EVENT"
	OrderPaymentRejectedEvent EventName = "ORDER_PAYMENT_REJECTED_EVENT"
	OrderFulfilledEvent       EventName = "ORDER_FULFILLED_EVENT"
	OrderPackagedEvent        EventName = "ORDER_PACKAGED_EVENT"
	OrderShippedEvent         EventName = "ORDER_SHIPPED_EVENT"
	OrderDeliveredEvent       EventName = "ORDER_DELIVERED_EVENT"
	OrderCanceledEvent        EventName = "ORDER_CANCELED_EVENT"
)

// Inventory events.
const (
	SkuRestockedEvent EventName = "SKU_RESTOCKED_EVENT"
)

var knownEventNames = []EventName{
	OrderPlacedEvent,
	OrderCreatedEvent,
	OrderStockDepletedEvent,
	OrderStockAllocatedEvent,
	OrderPaymentAcceptedEvent,
	OrderPaymentRejectedEvent,
	OrderFulfilledEvent,
	OrderPackagedEvent,
	OrderShippedEvent,
	OrderDeliveredEvent,
	OrderCanceledEvent,
	SkuRestockedEvent,
}

// OrderUpdateEvents lists the events that mutate an existing order.
var OrderUpdateEvents = []EventName{
	OrderStockDepletedEvent,
	OrderStockAllocatedEvent,
	OrderPaymentAcceptedEvent,
	OrderPaymentRejectedEvent,
	OrderFulfilledEvent,
	OrderPackagedEvent,
	OrderShippedEvent,
	OrderDeliveredEvent,
	OrderCanceledEvent,
}

// IsKnown reports whether the name belongs to the event vocabulary.
func (n EventName) IsKnown() bool {
	return slices.Contains(knownEventNames, n)
}

// IsOrderCreation reports whether the event creates an order.
func (n EventName) IsOrderCreation() bool {
	return n == OrderPlacedEvent
}

// IsOrderUpdate reports whether the event updates an existing order.
func (n EventName) IsOrderUpdate() bool {
	return slices.Contains(OrderUpdateEvents, n)
}

// IncomingEvent is the validated payload of one queue message. EventData keeps its raw
// shape; command builders decode and validate the fields they need.
type IncomingEvent struct {
	EventName      EventName       `json:"eventName"`
	EventData      json.RawMessage `json:"eventData"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Envelope is the body of a queue message. Detail carries the event.
type Envelope struct {
	Detail json.RawMessage `json:"detail"`
}
