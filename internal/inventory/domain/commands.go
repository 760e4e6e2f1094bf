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

type skuRestockedData struct {
	Sku   string `json:"sku"`
	Units int    `json:"units"`
	LotID string `json:"lotId"`
}

type orderCreatedData struct {
	OrderID string  `json:"orderId"`
	Sku     string  `json:"sku"`
	Units   int     `json:"units"`
	Price   float64 `json:"price"`
	UserID  string  `json:"userId"`
}

// RestockSkuCommand adds units of one lot to a SKU.
type RestockSkuCommand struct {
	restock Restock
	valid   bool
}

// Restock returns the restock to record.
func (c RestockSkuCommand) Restock() Restock { return c.restock }

// Valid reports whether the command was produced by NewRestockSkuCommand.
func (c RestockSkuCommand) Valid() bool { return c.valid }

// NewRestockSkuCommand validates a SKU_RESTOCKED_EVENT.
func NewRestockSkuCommand(event eventsdomain.IncomingEvent, now time.Time) outcome.Outcome[RestockSkuCommand] {
	if event.EventName != eventsdomain.SkuRestockedEvent {
		return unexpectedEvent[RestockSkuCommand](event.EventName)
	}

	var data skuRestockedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return appValidation.InvalidArguments[RestockSkuCommand](apperrors.Wrap(err, "malformed eventData"))
	}

	err := validation.ValidateStruct(&data,
		validation.Field(&data.Sku, appValidation.Identifier("sku")...),
		validation.Field(&data.Units, appValidation.Units()...),
		validation.Field(&data.LotID, appValidation.Identifier("lotId")...),
	)
	if err != nil {
		return appValidation.InvalidArguments[RestockSkuCommand](err)
	}

	return outcome.Success(RestockSkuCommand{
		restock: Restock{
			Sku:       data.Sku,
			LotID:     data.LotID,
			Units:     data.Units,
			CreatedAt: now,
		},
		valid: true,
	})
}

// AllocateOrderStockCommand reserves the units of an order from its SKU.
type AllocateOrderStockCommand struct {
	allocation Allocation
	valid      bool
}

// Allocation returns the allocation to record.
func (c AllocateOrderStockCommand) Allocation() Allocation { return c.allocation }

// Valid reports whether the command was produced by NewAllocateOrderStockCommand.
func (c AllocateOrderStockCommand) Valid() bool { return c.valid }

// NewAllocateOrderStockCommand validates an ORDER_CREATED_EVENT.
func NewAllocateOrderStockCommand(
	event eventsdomain.IncomingEvent,
	now time.Time,
) outcome.Outcome[AllocateOrderStockCommand] {
	if event.EventName != eventsdomain.OrderCreatedEvent {
		return unexpectedEvent[AllocateOrderStockCommand](event.EventName)
	}

	var data orderCreatedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return appValidation.InvalidArguments[AllocateOrderStockCommand](apperrors.Wrap(err, "malformed eventData"))
	}

	err := validation.ValidateStruct(&data,
		validation.Field(&data.OrderID, appValidation.Identifier("orderId")...),
		validation.Field(&data.Sku, appValidation.Identifier("sku")...),
		validation.Field(&data.Units, appValidation.Units()...),
		validation.Field(&data.Price, appValidation.Price()...),
		validation.Field(&data.UserID, appValidation.Identifier("userId")...),
	)
	if err != nil {
		return appValidation.InvalidArguments[AllocateOrderStockCommand](err)
	}

	return outcome.Success(AllocateOrderStockCommand{
		allocation: Allocation{
			OrderID:   data.OrderID,
			Sku:       data.Sku,
			Units:     data.Units,
			Price:     data.Price,
			UserID:    data.UserID,
			CreatedAt: now,
		},
		valid: true,
	})
}

func unexpectedEvent[T any](name eventsdomain.EventName) outcome.Outcome[T] {
	return appValidation.InvalidArguments[T](fmt.Errorf("unexpected event %q", name))
}
