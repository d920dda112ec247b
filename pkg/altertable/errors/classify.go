package errors

import (
	"errors"
	"fmt"
)

// Kind represents how a failure should be handled by the caller.
type Kind int

const (
	// KindRetryable indicates retry may help.
	// Examples: network failures, 5xx responses.
	KindRetryable Kind = iota

	// KindNotSupported indicates the operation can never succeed.
	// Examples: group and delete events.
	KindNotSupported

	// KindMalformed indicates bad caller input, handled as a no-op.
	KindMalformed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	case KindNotSupported:
		return "not_supported"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Classify determines how a delivery failure should be handled.
func Classify(err error) Kind {
	var notSupported *NotSupportedError
	if errors.As(err, &notSupported) {
		return KindNotSupported
	}

	var malformed *MalformedInputError
	if errors.As(err, &malformed) {
		return KindMalformed
	}

	// Everything else on the delivery path is retryable, including
	// network failures and any non-2xx response that was not suppressed.
	return KindRetryable
}

// IsRetryable reports whether the failure should be retried by the host.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err) == KindRetryable
}

// FromStatus builds the delivery error for a non-2xx HTTP response.
// It returns nil for 2xx, and nil for 5xx when skip5xx is set (suppressed
// server errors are silently ignored). The response body is carried in the
// error message for diagnostics.
//
// Statuses outside 2xx and 5xx (e.g. 4xx) are classified retryable. That
// matches the observed collector behavior even though client errors rarely
// succeed on retry.
func FromStatus(status int, body string, skip5xx bool) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status >= 500 && skip5xx {
		return nil
	}
	return &RetryError{
		Message:    fmt.Sprintf("collector responded %d: %s", status, body),
		StatusCode: status,
	}
}
