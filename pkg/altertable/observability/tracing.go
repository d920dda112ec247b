package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the altertable tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("altertable")

// SpanManager handles trace span lifecycle for forwarder dispatch.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartBatchSpan starts a span covering a whole forwarded batch.
	StartBatchSpan(ctx context.Context, size int) (context.Context, trace.Span)

	// StartBucketSpan starts a span for one destination bucket request.
	// The bucket span should be a child of the batch span.
	StartBucketSpan(ctx context.Context, bucket string, size int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartBatchSpan starts a span covering a whole forwarded batch.
func (m *otelSpanManager) StartBatchSpan(ctx context.Context, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "altertable.forward_batch",
		trace.WithAttributes(
			attribute.Int("batch.size", size),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartBucketSpan starts a span for one destination bucket request.
func (m *otelSpanManager) StartBucketSpan(ctx context.Context, bucket string, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "altertable.forward_bucket",
		trace.WithAttributes(
			attribute.String("bucket", bucket),
			attribute.Int("bucket.size", size),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpanWithError completes a span, recording the error when present.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
