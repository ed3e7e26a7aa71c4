package gjapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingResponse is returned when a body lacks the top-level "response"
// field every Game Jolt API v1 reply carries.
var ErrMissingResponse = errors.New("gjapi: body has no response field")

// ExtractResponse unwraps a Game Jolt API body, returning the JSON payload
// stored under the top-level "response" field. The payload keeps the
// upstream convention of string-encoded booleans ("true"/"false") untouched;
// reinterpreting those is left to the caller.
func ExtractResponse(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrMissingResponse
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("gjapi: decode body: %w", err)
	}
	if envelope.Response == nil {
		return nil, ErrMissingResponse
	}

	var payload map[string]any
	if err := json.Unmarshal(envelope.Response, &payload); err != nil {
		return nil, fmt.Errorf("gjapi: decode response field: %w", err)
	}
	return payload, nil
}

// Envelope wraps payload in the top-level "response" field. Used by the mock
// service and the sandbox server to produce wire-compatible bodies.
func Envelope(payload map[string]any) ([]byte, error) {
	return json.Marshal(map[string]any{"response": payload})
}
