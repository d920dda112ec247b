package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aterrors "github.com/altertable/altertable-go/pkg/altertable/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want aterrors.Kind
	}{
		{"retry error", &aterrors.RetryError{Message: "boom"}, aterrors.KindRetryable},
		{"wrapped retry error", fmt.Errorf("send: %w", &aterrors.RetryError{Message: "boom"}), aterrors.KindRetryable},
		{"not supported", &aterrors.NotSupportedError{EventType: "group"}, aterrors.KindNotSupported},
		{"malformed", &aterrors.MalformedInputError{Input: "not a url"}, aterrors.KindMalformed},
		{"plain error", fmt.Errorf("connection reset"), aterrors.KindRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aterrors.Classify(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, aterrors.IsRetryable(nil))
	assert.True(t, aterrors.IsRetryable(&aterrors.RetryError{Message: "timeout"}))
	assert.False(t, aterrors.IsRetryable(&aterrors.NotSupportedError{EventType: "delete"}))
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		skip5xx    bool
		wantNil    bool
		wantStatus int
	}{
		{"200 ok", http.StatusOK, false, true, 0},
		{"204 no content", http.StatusNoContent, false, true, 0},
		{"500 retryable", http.StatusInternalServerError, false, false, 500},
		{"503 retryable", http.StatusServiceUnavailable, false, false, 503},
		{"500 suppressed", http.StatusInternalServerError, true, true, 0},
		{"4xx preserved as retryable", http.StatusBadRequest, false, false, 400},
		{"4xx not suppressed by skip5xx", http.StatusNotFound, true, false, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := aterrors.FromStatus(tt.status, "body", tt.skip5xx)
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var retryErr *aterrors.RetryError
			require.ErrorAs(t, err, &retryErr)
			assert.Equal(t, tt.wantStatus, retryErr.StatusCode)
			assert.Contains(t, retryErr.Error(), "body")
		})
	}
}

func TestRetryErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := &aterrors.RetryError{Message: "network failure", Err: cause}
	assert.ErrorIs(t, err, cause)
}
