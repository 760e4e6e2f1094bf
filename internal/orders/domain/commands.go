package domain

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	eventsdomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	appValidation "github.com/mutchinick/ecomm-workers/internal/validation"
)

// orderPlacedData is the eventData of an ORDER_PLACED_EVENT.
type orderPlacedData struct {
	OrderID string  `json:"orderId"`
	UserID  string  `json:"userId"`
	Sku     string  `json:"sku"`
	Units   int     `json:"units"`
	Price   float64 `json:"price"`
}

// orderReference is the part of eventData every order event carries.
type orderReference struct {
	OrderID string `json:"orderId"`
}

// CreateOrderCommand holds a validated order ready for a conditional insert.
type CreateOrderCommand struct {
	order Order
	valid bool
}

// Order returns the order to persist.
func (c CreateOrderCommand) Order() Order { return c.order }

// OrderID returns the natural key of the order.
func (c CreateOrderCommand) OrderID() string { return c.order.OrderID }

// Valid reports whether the command was produced by NewCreateOrderCommand.
func (c CreateOrderCommand) Valid() bool { return c.valid }

// NewCreateOrderCommand validates an ORDER_PLACED_EVENT and derives the new order with
// ORDER_CREATED_STATUS and both timestamps set to now.
func NewCreateOrderCommand(
	event eventsdomain.IncomingEvent,
	now time.Time,
) outcome.Outcome[CreateOrderCommand] {
	if !event.EventName.IsOrderCreation() {
		return unexpectedEvent[CreateOrderCommand](event.EventName)
	}

	decoded := decodeEventData[orderPlacedData](event)
	if decoded.IsFailure() {
		return outcome.Propagate[CreateOrderCommand](decoded)
	}
	data := decoded.Value()

	err := validation.ValidateStruct(&data,
		validation.Field(&data.OrderID, appValidation.Identifier("orderId")...),
		validation.Field(&data.UserID, appValidation.Identifier("userId")...),
		validation.Field(&data.Sku, appValidation.Identifier("sku")...),
		validation.Field(&data.Units, appValidation.Units()...),
		validation.Field(&data.Price, appValidation.Price()...),
	)
	if err != nil {
		return appValidation.InvalidArguments[CreateOrderCommand](err)
	}

	return outcome.Success(CreateOrderCommand{
		order: Order{
			OrderID:   data.OrderID,
			UserID:    data.UserID,
			Sku:       data.Sku,
			Units:     data.Units,
			Price:     data.Price,
			Status:    OrderCreatedStatus,
			CreatedAt: now,
			UpdatedAt: now,
		},
		valid: true,
	})
}

// GetOrderCommand identifies the order an event refers to.
type GetOrderCommand struct {
	orderID string
	valid   bool
}

// OrderID returns the natural key to read.
func (c GetOrderCommand) OrderID() string { return c.orderID }

// Valid reports whether the command was produced by NewGetOrderCommand.
func (c GetOrderCommand) Valid() bool { return c.valid }

// NewGetOrderCommand extracts and validates the orderId of any order event.
func NewGetOrderCommand(event eventsdomain.IncomingEvent) outcome.Outcome[GetOrderCommand] {
	decoded := decodeEventData[orderReference](event)
	if decoded.IsFailure() {
		return outcome.Propagate[GetOrderCommand](decoded)
	}
	data := decoded.Value()

	err := validation.ValidateStruct(&data,
		validation.Field(&data.OrderID, appValidation.Identifier("orderId")...),
	)
	if err != nil {
		return appValidation.InvalidArguments[GetOrderCommand](err)
	}

	return outcome.Success(GetOrderCommand{orderID: data.OrderID, valid: true})
}

// UpdateOrderCommand moves an existing order from ExpectedStatus to NewStatus. The write
// only succeeds if the stored status still equals ExpectedStatus.
type UpdateOrderCommand struct {
	orderID        string
	eventName      eventsdomain.EventName
	expectedStatus OrderStatus
	newStatus      OrderStatus
	updatedAt      time.Time
	valid          bool
}

// OrderID returns the natural key of the order.
func (c UpdateOrderCommand) OrderID() string { return c.orderID }

// EventName returns the event that triggered the update.
func (c UpdateOrderCommand) EventName() eventsdomain.EventName { return c.eventName }

// ExpectedStatus returns the status the order had when it was read.
func (c UpdateOrderCommand) ExpectedStatus() OrderStatus { return c.expectedStatus }

// NewStatus returns the status the event moves the order to.
func (c UpdateOrderCommand) NewStatus() OrderStatus { return c.newStatus }

// UpdatedAt returns the update timestamp.
func (c UpdateOrderCommand) UpdatedAt() time.Time { return c.updatedAt }

// Valid reports whether the command was produced by NewUpdateOrderCommand.
func (c UpdateOrderCommand) Valid() bool { return c.valid }

// IsNoOp reports whether the order already has the target status.
func (c UpdateOrderCommand) IsNoOp() bool { return c.expectedStatus == c.newStatus }

// IsAllowed reports whether the transition table permits the update.
func (c UpdateOrderCommand) IsAllowed() bool { return CanTransition(c.expectedStatus, c.eventName) }

// NewUpdateOrderCommand validates an update-class event against the order it refers to and
// derives the target status. Whether the transition is legal is left to the caller, which
// also treats an order already in the target status as a redelivery.
func NewUpdateOrderCommand(
	existing Order,
	event eventsdomain.IncomingEvent,
	now time.Time,
) outcome.Outcome[UpdateOrderCommand] {
	target, ok := TargetStatus(event.EventName)
	if !ok {
		return unexpectedEvent[UpdateOrderCommand](event.EventName)
	}

	get := NewGetOrderCommand(event)
	if get.IsFailure() {
		return outcome.Propagate[UpdateOrderCommand](get)
	}
	if get.Value().OrderID() != existing.OrderID {
		return outcome.Failure[UpdateOrderCommand](
			outcome.KindInvalidArguments,
			apperrors.Wrapf(ErrOrderMismatch, "event order %q, stored order %q",
				get.Value().OrderID(), existing.OrderID),
			false,
		)
	}

	return outcome.Success(UpdateOrderCommand{
		orderID:        existing.OrderID,
		eventName:      event.EventName,
		expectedStatus: existing.Status,
		newStatus:      target,
		updatedAt:      now,
		valid:          true,
	})
}

func decodeEventData[T any](event eventsdomain.IncomingEvent) outcome.Outcome[T] {
	var data T
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return appValidation.InvalidArguments[T](apperrors.Wrap(err, "malformed eventData"))
	}
	return outcome.Success(data)
}

func unexpectedEvent[T any](name eventsdomain.EventName) outcome.Outcome[T] {
	return appValidation.InvalidArguments[T](fmt.Errorf("unexpected event %q", name))
}
