package rpc

import (
	"encoding/json"
	"fmt"
)

// Envelope represents the uniform result of a dispatched operation.
// Exactly one of the Result and the Error is populated; a successful
// empty result is carried as JSON null.
type Envelope struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Success wraps the given operation result into an envelope.
func Success(v interface{}) Envelope {
	data, err := json.Marshal(v)
	if err != nil {
		return Failure(fmt.Errorf("result not encodable; %w", err))
	}
	return Envelope{Result: data}
}

// Failure wraps the given failure into an envelope.
func Failure(err error) Envelope {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Envelope{Error: msg}
}

// OK reports whether the envelope carries a success payload.
func (env Envelope) OK() bool {
	return env.Error == ""
}
