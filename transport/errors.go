package transport

import (
	"errors"
	"fmt"
	"time"
)

// Error codes carried by APIError.
const (
	CodeNetwork = "NETWORK_ERROR"
	CodeTimeout = "TIMEOUT"
	CodeServer  = "SERVER_ERROR"
	CodeClient  = "CLIENT_ERROR"
)

// APIError is the normalized form every failed request is re-shaped
// into before reaching the caller.
type APIError struct {
	// Message is the human-readable failure description.
	Message string

	// Status is the HTTP status, or 0 when no response was received.
	Status int

	// Body is the response body, when one was received.
	Body string

	// Code classifies the failure: network, timeout, server or client.
	Code string

	// RequestID is the generated id the request was tagged with.
	RequestID string

	// Timestamp is when the error was shaped.
	Timestamp time.Time

	cause error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("transport: %s (status %d, request %s)", e.Message, e.Status, e.RequestID)
	}
	return fmt.Sprintf("transport: %s (request %s)", e.Message, e.RequestID)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// AsAPIError unwraps err into an *APIError, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
