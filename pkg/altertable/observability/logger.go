// Package observability provides the SDK's ambient observability surface:
// structured logging via slog, metrics via OpenTelemetry, and tracing for
// forwarder batch dispatch.
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogEventCaptured logs an event leaving the capture pipeline.
func LogEventCaptured(logger *slog.Logger, eventType, event, distinctID string) {
	if logger == nil {
		return
	}
	logger.Debug("event captured",
		slog.String("type", eventType),
		slog.String("event", event),
		slog.String("distinct_id", distinctID),
	)
}

// LogDeliveryError logs a swallowed delivery failure. The embedded client
// never propagates these to the host.
func LogDeliveryError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("event delivery failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// LogDelivery logs a successful delivery with its latency.
func LogDelivery(logger *slog.Logger, path string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event delivered",
		slog.String("path", path),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSampledOut logs an event dropped by the sampling draw.
func LogSampledOut(logger *slog.Logger, path string, rate float64) {
	if logger == nil {
		return
	}
	logger.Debug("event sampled out",
		slog.String("path", path),
		slog.Float64("sampling_rate", rate),
	)
}

// LogCommandDropped logs a pre-init command evicted from the buffer.
func LogCommandDropped(logger *slog.Logger, op string) {
	if logger == nil {
		return
	}
	logger.Warn("buffered command dropped before init",
		slog.String("op", op),
	)
}

// LogMalformedURL logs a page call ignored because its URL did not parse.
func LogMalformedURL(logger *slog.Logger, rawURL string) {
	if logger == nil {
		return
	}
	logger.Debug("page call ignored, URL did not parse",
		slog.String("url", rawURL),
	)
}

// LogReplay logs the pre-init command replay performed during Init.
func LogReplay(logger *slog.Logger, count int, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("replayed buffered commands",
		slog.Int("count", count),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}
