package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/altertable/altertable-go/pkg/altertable/config"
	aterrors "github.com/altertable/altertable-go/pkg/altertable/errors"
)

// maxErrorBody caps how much of a failed response is carried in the error
// message for diagnostics.
const maxErrorBody = 2048

// FetchTransport is the authenticated request path. It always reports
// available and surfaces delivery failures classified per the errors
// package.
type FetchTransport struct {
	// Client is the HTTP client to use. Nil means http.DefaultClient.
	Client *http.Client
}

// Available implements Transport.
func (t *FetchTransport) Available() bool {
	return true
}

// Send implements Transport. Network-level failures return a RetryError
// with no status code; non-2xx responses are classified by FromStatus,
// honoring Skip5xxErrors.
func (t *FetchTransport) Send(ctx context.Context, rawURL string, body []byte, cfg config.Config) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return &aterrors.RetryError{Message: "build request: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return &aterrors.RetryError{Message: "network failure: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return aterrors.FromStatus(resp.StatusCode, string(respBody), cfg.Skip5xxErrors)
}
