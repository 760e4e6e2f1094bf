package validation

import (
	"bytes"
	"encoding/json"

	validation "github.com/jellydator/validation"
)

// JSONObject validates that a raw JSON value decodes to an object.
var JSONObject = validation.By(func(value interface{}) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		return validation.NewError("validation_json_type", "must be raw JSON")
	}
	if len(raw) == 0 {
		return nil // Let Required handle empty values
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return validation.NewError("validation_json_object", "must be a JSON object")
	}
	return nil
})
