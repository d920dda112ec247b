// Package errors provides the delivery error taxonomy for the SDK.
//
// The package implements a small classification layer used on the
// authenticated transport path:
//   - RetryError: delivery failed but a later attempt may succeed
//   - NotSupportedError: the event kind has no collector mapping
//   - MalformedInputError: caller input that cannot be parsed
//
// The embedded client surface swallows all of these (instrumentation must
// never crash the host); the destination forwarder propagates them so its
// host can apply its own retry policy.
package errors

import "fmt"

// RetryError indicates a delivery failure that may succeed on retry.
// StatusCode is 0 for network-level failures.
type RetryError struct {
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *RetryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable delivery failure (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("retryable delivery failure: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *RetryError) Unwrap() error {
	return e.Err
}

// NotSupportedError indicates an event kind the collector cannot ingest.
// Events carrying this error are never sent.
type NotSupportedError struct {
	EventType string
}

// Error implements the error interface.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("event type %q is not supported by the destination", e.EventType)
}

// MalformedInputError indicates caller input that cannot be parsed,
// such as an unparsable page URL.
type MalformedInputError struct {
	Input   string
	Message string
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %q: %s", e.Input, e.Message)
}
