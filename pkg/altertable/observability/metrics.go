package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records capture pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCapture records an event accepted by the client.
	RecordCapture(ctx context.Context, eventType string)

	// RecordDelivery records a transport send with its duration and error status.
	RecordDelivery(ctx context.Context, path string, duration time.Duration, err error)

	// RecordSampledOut records an event dropped by the sampling draw.
	RecordSampledOut(ctx context.Context, path string)

	// RecordCommandDropped records a pre-init command evicted from the buffer.
	RecordCommandDropped(ctx context.Context, op string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	captured        metric.Int64Counter
	deliveries      metric.Int64Counter
	deliveryLatency metric.Float64Histogram
	deliveryErrors  metric.Int64Counter
	sampledOut      metric.Int64Counter
	commandsDropped metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("altertable")

	captured, err := meter.Int64Counter("altertable.events.captured",
		metric.WithDescription("Number of events accepted by the client"),
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := meter.Int64Counter("altertable.deliveries",
		metric.WithDescription("Number of transport sends"),
	)
	if err != nil {
		return nil, err
	}

	deliveryLatency, err := meter.Float64Histogram("altertable.delivery.latency_ms",
		metric.WithDescription("Transport send latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	deliveryErrors, err := meter.Int64Counter("altertable.delivery.errors",
		metric.WithDescription("Number of failed transport sends"),
	)
	if err != nil {
		return nil, err
	}

	sampledOut, err := meter.Int64Counter("altertable.events.sampled_out",
		metric.WithDescription("Number of events dropped by sampling"),
	)
	if err != nil {
		return nil, err
	}

	commandsDropped, err := meter.Int64Counter("altertable.commands.dropped",
		metric.WithDescription("Number of pre-init commands evicted from the buffer"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		captured:        captured,
		deliveries:      deliveries,
		deliveryLatency: deliveryLatency,
		deliveryErrors:  deliveryErrors,
		sampledOut:      sampledOut,
		commandsDropped: commandsDropped,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCapture records an accepted event.
func (m *otelMetrics) RecordCapture(ctx context.Context, eventType string) {
	m.captured.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}

// RecordDelivery records a transport send.
func (m *otelMetrics) RecordDelivery(ctx context.Context, path string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("path", path),
	}

	m.deliveries.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.deliveryLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.deliveryErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordSampledOut records a sampled-out event.
func (m *otelMetrics) RecordSampledOut(ctx context.Context, path string) {
	m.sampledOut.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", path),
	))
}

// RecordCommandDropped records an evicted pre-init command.
func (m *otelMetrics) RecordCommandDropped(ctx context.Context, op string) {
	m.commandsDropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
	))
}
