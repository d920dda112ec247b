// Package config holds the client configuration surface.
//
// A Config is assembled once at Init from defaults plus caller overrides and
// is treated as immutable afterwards; the only sanctioned mutation path is a
// shallow merge of a Partial through the client's Configure.
package config

// DefaultEndpoint is the default collector URL.
const DefaultEndpoint = "https://api.altertable.com"

// DefaultEnvironment is attached to every event unless overridden.
const DefaultEnvironment = "production"

// Config is the effective client configuration.
type Config struct {
	// APIKey authenticates every delivery. Required.
	APIKey string

	// Endpoint is the collector base URL.
	Endpoint string

	// Environment tags every outbound event.
	Environment string

	// AutoCapture enables the navigation watcher.
	AutoCapture bool

	// SamplingRate is the probability in [0,1] that an event is transmitted.
	SamplingRate float64

	// Skip5xxErrors silently ignores 5xx collector responses on the
	// forwarder path instead of classifying them retryable.
	Skip5xxErrors bool

	// Release is an optional build identifier attached to every event.
	Release string

	// TrackingConsent reports whether the host has granted capture consent.
	TrackingConsent bool
}

// Default returns the configuration used before any overrides.
func Default() Config {
	return Config{
		Endpoint:        DefaultEndpoint,
		Environment:     DefaultEnvironment,
		AutoCapture:     true,
		SamplingRate:    1.0,
		TrackingConsent: true,
	}
}

// Partial is a partial configuration. Nil fields leave the current value
// untouched, which makes Merge a shallow merge rather than a reset.
type Partial struct {
	APIKey          *string
	Endpoint        *string
	Environment     *string
	AutoCapture     *bool
	SamplingRate    *float64
	Skip5xxErrors   *bool
	Release         *string
	TrackingConsent *bool
}

// Merge returns a copy of c with the non-nil fields of p applied.
// The sampling rate is clamped to [0,1].
func (c Config) Merge(p Partial) Config {
	if p.APIKey != nil {
		c.APIKey = *p.APIKey
	}
	if p.Endpoint != nil {
		c.Endpoint = *p.Endpoint
	}
	if p.Environment != nil {
		c.Environment = *p.Environment
	}
	if p.AutoCapture != nil {
		c.AutoCapture = *p.AutoCapture
	}
	if p.SamplingRate != nil {
		c.SamplingRate = clampRate(*p.SamplingRate)
	}
	if p.Skip5xxErrors != nil {
		c.Skip5xxErrors = *p.Skip5xxErrors
	}
	if p.Release != nil {
		c.Release = *p.Release
	}
	if p.TrackingConsent != nil {
		c.TrackingConsent = *p.TrackingConsent
	}
	return c
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}

// String returns a pointer to s, for building Partial literals.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building Partial literals.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f, for building Partial literals.
func Float(f float64) *float64 { return &f }
