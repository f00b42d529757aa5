package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// stateSchemaJSON is the schema contract for the mutable state field,
// enforced on local edits only. Inbound remote updates are trusted and
// applied without re-validation.
//
// Each entry must carry exactly fieldName, datatype and value; value must be
// a string, number or boolean. The datatype string is an open set and is not
// cross-checked against the runtime type of value.
const stateSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"fieldName": {"type": "string"},
			"datatype": {"type": "string"},
			"value": {
				"oneOf": [
					{"type": "string"},
					{"type": "number"},
					{"type": "boolean"}
				]
			}
		},
		"required": ["fieldName", "datatype", "value"]
	}
}`

// stateSchema is compiled once at startup. The schema source is a constant,
// so compilation failure is a programming error.
var stateSchema *jsonschema.Schema

func init() {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(stateSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("device: parsing state schema: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("state-schema.json", doc); err != nil {
		panic(fmt.Sprintf("device: adding state schema resource: %v", err))
	}
	stateSchema, err = c.Compile("state-schema.json")
	if err != nil {
		panic(fmt.Sprintf("device: compiling state schema: %v", err))
	}
}

// ParseState parses and validates a candidate state supplied by a local edit.
//
// Malformed JSON and schema violations both yield ErrInvalidState; the
// caller's policy is to discard the edit and keep the previous value, so the
// error is recoverable by construction. Accepted states are normalised
// (boolean coercion) before being returned.
func ParseState(raw []byte) (State, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	if err := stateSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	state.Normalize()
	return state, nil
}

// ParseStatus validates a textual status edit.
func ParseStatus(text string) (Status, error) {
	s := Status(text)
	for _, valid := range AllStatuses() {
		if s == valid {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, text)
}

// ParseFaultStatus validates a textual fault status edit.
func ParseFaultStatus(text string) (FaultStatus, error) {
	s := FaultStatus(text)
	for _, valid := range AllFaultStatuses() {
		if s == valid {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFaultStatus, text)
}
