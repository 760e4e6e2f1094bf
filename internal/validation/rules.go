// Package validation provides custom validation rules shared by the command builders.
package validation

import (
	"math"
	"strconv"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

// Bounds shared by identifier-like value objects (order id, user id, sku, lot id).
const (
	IdentifierMinLength = 4
	IdentifierMaxLength = 256
)

// Bounds of the unit and price columns: INTEGER and NUMERIC(12,2).
const (
	MaxUnits = math.MaxInt32
	MinPrice = 0.01
	MaxPrice = 9999999999.99
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// InvalidArguments converts a validation error into a non-retryable InvalidArguments
// failure. Redelivering a message never makes its payload valid.
func InvalidArguments[T any](err error) outcome.Outcome[T] {
	return outcome.Failure[T](outcome.KindInvalidArguments, WrapValidationError(err), false)
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Identifier returns the rules for identifier-like strings: order ids, user ids, skus, lot ids.
func Identifier(name string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(name + " is required"),
		NotBlank,
		NoWhitespace,
		validation.Length(IdentifierMinLength, IdentifierMaxLength).
			Error(name + " must be between 4 and 256 characters"),
	}
}

// TwoDecimals validates that a float has at most two decimal places
var TwoDecimals = validation.By(func(value interface{}) error {
	price, ok := value.(float64)
	if !ok {
		return nil
	}
	formatted := strconv.FormatFloat(price, 'f', -1, 64)
	if dot := strings.IndexByte(formatted, '.'); dot >= 0 && len(formatted)-dot-1 > 2 {
		return validation.NewError("validation_two_decimals", "must have at most two decimal places")
	}
	return nil
})

// Units returns the rules for a positive unit count that fits the units columns.
func Units() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("units is required"),
		validation.Min(1).Error("units must be at least 1"),
		validation.Max(MaxUnits).Error("units must be at most 2147483647"),
	}
}

// Price returns the rules for a positive price with cent precision that fits the price columns.
func Price() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("price is required"),
		validation.Min(MinPrice).Error("price must be at least 0.01"),
		validation.Max(MaxPrice).Error("price must be at most 9999999999.99"),
		TwoDecimals,
	}
}
