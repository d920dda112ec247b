package transport

import (
	"bytes"
	"context"
	"net/http"

	"github.com/altertable/altertable-go/pkg/altertable/config"
)

// BeaconFunc hands a payload to a fire-and-forget delivery primitive.
// Implementations must not block on the response; there is none to inspect.
type BeaconFunc func(rawURL string, body []byte)

// BeaconTransport is the beacon-style delivery path. It is available only
// when the host has installed a sender, and it never surfaces delivery
// failures to the caller.
type BeaconTransport struct {
	Sender BeaconFunc
}

// Available implements Transport. A nil receiver or missing sender means the
// host environment has no beacon primitive.
func (t *BeaconTransport) Available() bool {
	return t != nil && t.Sender != nil
}

// Send implements Transport. It always returns nil; a beacon has no
// response to inspect.
func (t *BeaconTransport) Send(_ context.Context, rawURL string, body []byte, _ config.Config) error {
	t.Sender(rawURL, body)
	return nil
}

// HTTPBeacon returns a BeaconFunc that POSTs the payload as an opaque
// application/json blob in a background goroutine, discarding the response.
// If client is nil, http.DefaultClient is used.
func HTTPBeacon(client *http.Client) BeaconFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(rawURL string, body []byte) {
		go func() {
			req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(body))
			if err != nil {
				return
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
		}()
	}
}
