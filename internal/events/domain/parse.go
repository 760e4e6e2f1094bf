package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	validation "github.com/jellydator/validation"

	apperrors "github.com/mutchinick/ecomm-workers/internal/errors"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
	appValidation "github.com/mutchinick/ecomm-workers/internal/validation"
)

// ParseIncomingEvent unwraps a queue message body and validates the event it carries.
// Only the event names listed in accepted are valid for the calling worker. Every
// failure is InvalidArguments and non-retryable: the body will never change on redelivery.
func ParseIncomingEvent(body []byte, accepted ...EventName) outcome.Outcome[IncomingEvent] {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return invalid(apperrors.Wrap(err, "malformed envelope"))
	}
	if len(envelope.Detail) == 0 || string(envelope.Detail) == "null" {
		return invalid(apperrors.New("envelope detail is missing"))
	}

	var event IncomingEvent
	if err := json.Unmarshal(envelope.Detail, &event); err != nil {
		return invalid(apperrors.Wrap(err, "malformed event"))
	}

	err := validation.ValidateStruct(&event,
		validation.Field(&event.EventName,
			validation.Required.Error("eventName is required"),
			validation.By(knownEventName),
			validation.By(acceptedEventName(accepted)),
		),
		validation.Field(&event.EventData,
			validation.Required.Error("eventData is required"),
			appValidation.JSONObject,
		),
	)
	if err != nil {
		return appValidation.InvalidArguments[IncomingEvent](err)
	}

	return outcome.Success(event)
}

// MarshalEnvelope wraps an event in an envelope ready to be sent as a queue message body.
func MarshalEnvelope(event IncomingEvent) ([]byte, error) {
	detail, err := json.Marshal(event)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal event")
	}
	return json.Marshal(Envelope{Detail: detail})
}

func invalid(err error) outcome.Outcome[IncomingEvent] {
	return outcome.Failure[IncomingEvent](
		outcome.KindInvalidArguments,
		apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()),
		false,
	)
}

func knownEventName(value interface{}) error {
	name, _ := value.(EventName)
	if name == "" || name.IsKnown() {
		return nil
	}
	return validation.NewError("validation_event_name", fmt.Sprintf("unknown event name %q", name))
}

func acceptedEventName(accepted []EventName) validation.RuleFunc {
	return func(value interface{}) error {
		name, _ := value.(EventName)
		if name == "" || len(accepted) == 0 || slices.Contains(accepted, name) {
			return nil
		}
		return validation.NewError(
			"validation_event_not_accepted",
			fmt.Sprintf("event %q is not handled by this worker", name),
		)
	}
}
