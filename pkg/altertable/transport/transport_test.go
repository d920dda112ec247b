package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altertable/altertable-go/pkg/altertable/config"
	aterrors "github.com/altertable/altertable-go/pkg/altertable/errors"
	"github.com/altertable/altertable-go/pkg/altertable/transport"
)

func testConfig(endpoint string) config.Config {
	cfg := config.Default()
	cfg.APIKey = "ak-test"
	cfg.Endpoint = endpoint
	return cfg
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		path     string
		want     string
	}{
		{"plain", "https://api.altertable.com", "track", "https://api.altertable.com/track?apiKey=ak-test"},
		{"trailing slash", "https://api.altertable.com/", "track", "https://api.altertable.com/track?apiKey=ak-test"},
		{"leading slash path", "https://api.altertable.com", "/identify", "https://api.altertable.com/identify?apiKey=ak-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transport.BuildURL(tt.endpoint, tt.path, "ak-test"))
		})
	}
}

func TestBuildURLEscapesAPIKey(t *testing.T) {
	got := transport.BuildURL("https://api.altertable.com", "track", "ak/with spaces&stuff")
	assert.Equal(t, "https://api.altertable.com/track?apiKey=ak%2Fwith+spaces%26stuff", got)
}

func TestFetchSendsAuthenticatedJSON(t *testing.T) {
	var gotAuth, gotContentType, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.Query().Get("apiKey")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := transport.NewDispatcher()
	err := d.Send(context.Background(), "track", map[string]any{"event": "signup"}, testConfig(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, "Bearer ak-test", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	// apiKey stays on the query string for parity with the beacon path.
	assert.Equal(t, "ak-test", gotQuery)
}

// TestSamplingRateZeroNeverSends verifies no network call occurs at rate 0,
// regardless of call volume.
func TestSamplingRateZeroNeverSends(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.SamplingRate = 0

	d := transport.NewDispatcher()
	for i := 0; i < 50; i++ {
		require.NoError(t, d.Send(context.Background(), "track", map[string]any{"i": i}, cfg))
	}
	assert.Equal(t, int64(0), calls.Load())
}

func TestSamplingDraw(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.SamplingRate = 0.5

	// A draw below the rate sends.
	d := transport.NewDispatcher(transport.WithSampleSource(func() float64 { return 0.49 }))
	require.NoError(t, d.Send(context.Background(), "track", nil, cfg))
	assert.Equal(t, int64(1), calls.Load())

	// A draw at or above the rate drops silently.
	d = transport.NewDispatcher(transport.WithSampleSource(func() float64 { return 0.5 }))
	require.NoError(t, d.Send(context.Background(), "track", nil, cfg))
	assert.Equal(t, int64(1), calls.Load())
}

func TestBeaconPreferredWhenAvailable(t *testing.T) {
	var beaconed [][]byte
	var fetchCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetchCalls.Add(1)
	}))
	defer srv.Close()

	d := transport.NewDispatcher(transport.WithBeacon(func(rawURL string, body []byte) {
		beaconed = append(beaconed, body)
	}))

	require.NoError(t, d.Send(context.Background(), "track", map[string]any{"event": "signup"}, testConfig(srv.URL)))
	assert.Len(t, beaconed, 1)
	assert.Contains(t, string(beaconed[0]), "signup")
	assert.Equal(t, int64(0), fetchCalls.Load())
}

// TestBeaconNeverSurfacesFailures verifies the beacon path returns nil even
// when the collector would have rejected the payload.
func TestBeaconNeverSurfacesFailures(t *testing.T) {
	d := transport.NewDispatcher(transport.WithBeacon(func(string, []byte) {}))

	cfg := testConfig("http://collector.invalid")
	assert.NoError(t, d.Send(context.Background(), "track", nil, cfg))
}

func TestFetchClassifiesStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		skip5xx    bool
		wantErr    bool
		wantStatus int
	}{
		{"500 retryable", http.StatusInternalServerError, false, true, 500},
		{"500 suppressed", http.StatusInternalServerError, true, false, 0},
		{"429 retryable", http.StatusTooManyRequests, false, true, 429},
		{"400 retryable (observed collector behavior)", http.StatusBadRequest, false, true, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("rejected"))
			}))
			defer srv.Close()

			cfg := testConfig(srv.URL)
			cfg.Skip5xxErrors = tt.skip5xx

			err := transport.NewDispatcher().Send(context.Background(), "track", nil, cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var retryErr *aterrors.RetryError
			require.ErrorAs(t, err, &retryErr)
			assert.Equal(t, tt.wantStatus, retryErr.StatusCode)
			assert.Contains(t, retryErr.Message, "rejected")
		})
	}
}

func TestFetchNetworkFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	err := transport.NewDispatcher().Send(context.Background(), "track", nil, testConfig(srv.URL))
	var retryErr *aterrors.RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, 0, retryErr.StatusCode)
	assert.True(t, aterrors.IsRetryable(err))
}
