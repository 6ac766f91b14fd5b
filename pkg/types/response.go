package types

import "encoding/json"

// SuccessEnvelope wraps every successful API payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Envelope is the decoding side of both shapes, used when this API is consumed remotely.
// Exactly one of Data and Error is expected to be set.
type Envelope struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *APIError       `json:"error,omitempty"`
}

// ErrorMessage returns the remote error message, or "" when there is none.
func (e Envelope) ErrorMessage() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Message
}
