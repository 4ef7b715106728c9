package webhook

import (
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// callbackSchemaJSON is the shape contract for inbound callbacks. The status
// and amount fields accept both native and string-encoded numbers, since the
// gateway is inconsistent about types.
const callbackSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["refno", "order_id", "billcode", "status", "amount", "transaction_time"],
  "properties": {
    "refno": {"type": "string", "minLength": 1},
    "order_id": {"type": "string", "minLength": 1},
    "billcode": {"type": "string", "minLength": 1},
    "status": {
      "anyOf": [
        {"type": "integer", "minimum": 1, "maximum": 4},
        {"type": "string", "pattern": "^[1-4]$"}
      ]
    },
    "reason": {"type": ["string", "null"]},
    "amount": {
      "anyOf": [
        {"type": "number"},
        {"type": "string", "pattern": "^-?[0-9]+(\\.[0-9]+)?$"}
      ]
    },
    "transaction_time": {"type": "string"}
  }
}`

var callbackSchema = mustSchema(callbackSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("webhook: invalid callback schema: " + err.Error())
	}
	return schema
}

// validateCallbackShape checks the decoded payload against the callback
// schema and reports every violation in one error.
func validateCallbackShape(raw []byte) error {
	result, err := callbackSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.New(strings.Join(details, "; "))
}
