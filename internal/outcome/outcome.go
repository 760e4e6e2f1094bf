// Package outcome provides the result type every worker layer returns instead of a bare
// error. An Outcome is either a success carrying a value or a failure carrying a kind, a
// cause and a retryability flag. The retryability flag is what the batch dispatcher uses
// to decide whether a queue message must be redelivered.
package outcome

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a failure. The vocabulary is open: packages may declare their own kinds.
type Kind string

// Built-in failure kinds.
const (
	// KindInvalidArguments marks malformed, missing or out-of-range input. Never retryable.
	KindInvalidArguments Kind = "InvalidArguments"
	// KindInvalidOperation marks a valid event that is illegal for the current state,
	// e.g. an update before the creation. Never retryable.
	KindInvalidOperation Kind = "InvalidOperation"
	// KindInvalidStateTransition marks a status change the lifecycle graph does not allow.
	KindInvalidStateTransition Kind = "InvalidStateTransition"
	// KindDuplicateOperation marks a natural key conflict: the operation was already applied.
	KindDuplicateOperation Kind = "DuplicateOperation"
	// KindDepletedStock marks an allocation that cannot be served from available units.
	KindDepletedStock Kind = "DepletedStock"
	// KindUnrecognized marks anything else from storage or transport. Treated as transient.
	KindUnrecognized Kind = "Unrecognized"
)

// Void is the value type of operations that succeed without producing anything.
type Void = struct{}

// Error is the failure variant of an Outcome. It implements error so a failure can travel
// through APIs that only speak error (e.g. database.TxManager) and be recovered unchanged.
type Error struct {
	Kind      Kind
	Cause     error
	Retryable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s (retryable=%t)", e.Kind, e.Retryable)
	}
	return fmt.Sprintf("%s (retryable=%t): %v", e.Kind, e.Retryable, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Outcome is the result of an operation: exactly one of value or failure is meaningful.
// The zero value is a success holding the zero value of T.
type Outcome[T any] struct {
	value   T
	failure *Error
}

// Success builds a successful Outcome.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Done builds a successful Outcome for operations without a value.
func Done() Outcome[Void] {
	return Outcome[Void]{}
}

// Failure builds a failed Outcome.
func Failure[T any](kind Kind, cause error, retryable bool) Outcome[T] {
	return Outcome[T]{failure: &Error{Kind: kind, Cause: cause, Retryable: retryable}}
}

// FromResult converts a (value, error) pair into an Outcome. A nil error is a success.
// An *Error anywhere in the chain is preserved as is; any other error is Unrecognized
// and retryable.
func FromResult[T any](value T, err error) Outcome[T] {
	if err == nil {
		return Success(value)
	}
	var failure *Error
	if errors.As(err, &failure) {
		return Outcome[T]{failure: failure}
	}
	return Failure[T](KindUnrecognized, err, true)
}

// Propagate re-types a failure without touching its kind, cause or retryability.
// Called on a success it returns the zero value success of U.
func Propagate[U, T any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{failure: o.failure}
}

// IsSuccess reports whether the operation succeeded.
func (o Outcome[T]) IsSuccess() bool {
	return o.failure == nil
}

// IsFailure reports whether the operation failed.
func (o Outcome[T]) IsFailure() bool {
	return o.failure != nil
}

// IsFailureOfKind reports whether the operation failed with the given kind.
func (o Outcome[T]) IsFailureOfKind(kind Kind) bool {
	return o.failure != nil && o.failure.Kind == kind
}

// IsRetryable reports whether the operation failed and may succeed on redelivery.
func (o Outcome[T]) IsRetryable() bool {
	return o.failure != nil && o.failure.Retryable
}

// Value returns the success value (zero value of T on failure).
func (o Outcome[T]) Value() T {
	return o.value
}

// Failure returns the failure, or nil on success.
func (o Outcome[T]) Failure() *Error {
	return o.failure
}

// Err returns the failure as an error, or nil on success.
func (o Outcome[T]) Err() error {
	if o.failure == nil {
		return nil
	}
	return o.failure
}

// Kind returns the failure kind, or an empty kind on success.
func (o Outcome[T]) Kind() Kind {
	if o.failure == nil {
		return ""
	}
	return o.failure.Kind
}

// String renders the outcome for logs.
func (o Outcome[T]) String() string {
	if o.failure == nil {
		return fmt.Sprintf("Success(%+v)", o.value)
	}
	return fmt.Sprintf("Failure(%s)", o.failure.Error())
}

type outcomeJSON struct {
	Success   bool   `json:"success"`
	Value     any    `json:"value,omitempty"`
	Kind      Kind   `json:"kind,omitempty"`
	Retryable *bool  `json:"retryable,omitempty"`
	Cause     string `json:"cause,omitempty"`
}

// MarshalJSON renders the outcome as a tagged object.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.failure == nil {
		return json.Marshal(outcomeJSON{Success: true, Value: o.value})
	}
	retryable := o.failure.Retryable
	out := outcomeJSON{Kind: o.failure.Kind, Retryable: &retryable}
	if o.failure.Cause != nil {
		out.Cause = o.failure.Cause.Error()
	}
	return json.Marshal(out)
}
