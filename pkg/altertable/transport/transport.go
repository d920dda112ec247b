// Package transport delivers serialized event payloads to the collector.
//
// Two delivery mechanisms exist: a fire-and-forget beacon-style path that
// never surfaces failures, and an authenticated request path that classifies
// failures per the errors package. The dispatcher picks between them at call
// time, applies sampling, and builds the collector URL.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/altertable/altertable-go/pkg/altertable/config"
	"github.com/altertable/altertable-go/pkg/altertable/observability"
)

// Transport delivers a serialized payload to a collector URL.
type Transport interface {
	// Available reports whether the transport can be used right now.
	// Availability can vary by environment, so it is probed per call.
	Available() bool

	// Send delivers body to rawURL.
	Send(ctx context.Context, rawURL string, body []byte, cfg config.Config) error
}

// Dispatcher applies sampling, builds the collector URL, serializes the
// payload, and hands it to whichever transport is available.
type Dispatcher struct {
	beacon  *BeaconTransport
	fetch   *FetchTransport
	sample  func() float64
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBeacon installs a fire-and-forget sender, enabling the beacon path.
func WithBeacon(fn BeaconFunc) Option {
	return func(d *Dispatcher) {
		d.beacon = &BeaconTransport{Sender: fn}
	}
}

// WithHTTPClient sets the client used by the authenticated request path.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.fetch = &FetchTransport{Client: client}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithSampleSource replaces the uniform random draw used for sampling.
func WithSampleSource(fn func() float64) Option {
	return func(d *Dispatcher) {
		d.sample = fn
	}
}

// NewDispatcher creates a Dispatcher. Without options it uses the default
// HTTP client, no beacon path, and no-op metrics.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sample:  rand.Float64,
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fetch == nil {
		d.fetch = &FetchTransport{}
	}
	return d
}

// Send delivers payload to {endpoint}/{path}. A uniform draw in [0,1) at or
// above the sampling rate drops the event silently, with no network call.
//
// The beacon path never returns delivery failures; the request path returns
// them classified. Callers on the embedded surface log the result, the
// forwarder propagates it.
func (d *Dispatcher) Send(ctx context.Context, path string, payload any, cfg config.Config) error {
	if d.sample() >= cfg.SamplingRate {
		observability.LogSampledOut(d.logger, path, cfg.SamplingRate)
		d.metrics.RecordSampledOut(ctx, path)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize payload: %w", err)
	}

	rawURL := BuildURL(cfg.Endpoint, path, cfg.APIKey)

	start := time.Now()
	err = d.pick().Send(ctx, rawURL, body, cfg)
	duration := time.Since(start)
	d.metrics.RecordDelivery(ctx, path, duration, err)

	if err != nil {
		return err
	}
	observability.LogDelivery(d.logger, path, float64(duration.Milliseconds()))
	return nil
}

// pick selects the delivery mechanism for this call. The choice is made per
// call because beacon availability can change at runtime.
func (d *Dispatcher) pick() Transport {
	if d.beacon.Available() {
		return d.beacon
	}
	return d.fetch
}

// BuildURL joins the collector endpoint and path and appends the apiKey as
// a query parameter. The query parameter is the only way the beacon path can
// authenticate, since it carries no custom headers; the request path keeps
// it for parity.
func BuildURL(endpoint, path, apiKey string) string {
	base := strings.TrimSuffix(endpoint, "/") + "/" + strings.TrimPrefix(path, "/")

	q := url.Values{}
	q.Set("apiKey", apiKey)
	return base + "?" + q.Encode()
}
