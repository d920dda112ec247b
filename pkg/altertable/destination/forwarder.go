package destination

import (
	"context"
	"log/slog"
	"sync"

	"github.com/altertable/altertable-go/pkg/altertable/config"
	aterrors "github.com/altertable/altertable-go/pkg/altertable/errors"
	"github.com/altertable/altertable-go/pkg/altertable/observability"
	"github.com/altertable/altertable-go/pkg/altertable/transport"
)

// Forwarder normalizes inbound events and dispatches them to the collector.
type Forwarder struct {
	dispatcher *transport.Dispatcher
	cfg        config.Config
	logger     *slog.Logger
	spans      observability.SpanManager
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithDispatcher replaces the transport dispatcher.
func WithDispatcher(d *transport.Dispatcher) Option {
	return func(f *Forwarder) {
		f.dispatcher = d
	}
}

// WithLogger sets the forwarder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// WithSpanManager enables tracing of batch dispatch.
func WithSpanManager(spans observability.SpanManager) Option {
	return func(f *Forwarder) {
		f.spans = spans
	}
}

// New creates a Forwarder delivering with cfg.
func New(cfg config.Config, opts ...Option) *Forwarder {
	f := &Forwarder{
		cfg:   cfg,
		spans: observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.dispatcher == nil {
		f.dispatcher = transport.NewDispatcher(transport.WithLogger(f.logger))
	}
	return f
}

// Transform maps an inbound event into a collector payload and its
// effective type. Page and screen events come back as track payloads with
// the fixed $pageview/$screen names. Group and delete events return a
// NotSupportedError and must not be sent.
func (f *Forwarder) Transform(evt InboundEvent) (Payload, EventType, error) {
	switch evt.Type {
	case TypeGroup, TypeDelete:
		return Payload{}, "", &aterrors.NotSupportedError{EventType: string(evt.Type)}

	case TypePage:
		converted := evt
		converted.Type = TypeTrack
		converted.Event = PageviewEvent
		return f.transformTrack(converted), TypeTrack, nil

	case TypeScreen:
		converted := evt
		converted.Type = TypeTrack
		converted.Event = ScreenEvent
		return f.transformTrack(converted), TypeTrack, nil

	case TypeTrack:
		return f.transformTrack(evt), TypeTrack, nil

	case TypeIdentify:
		return f.transformIdentify(evt), TypeIdentify, nil

	case TypeAlias:
		return f.transformAlias(evt), TypeAlias, nil

	default:
		return Payload{}, "", &aterrors.NotSupportedError{EventType: string(evt.Type)}
	}
}

// transformTrack merges context-derived properties under the event's own
// properties; event properties win.
func (f *Forwarder) transformTrack(evt InboundEvent) Payload {
	props := propertiesFromContext(evt.Context, evt.Channel)
	for k, v := range evt.Properties {
		props[k] = v
	}

	return Payload{
		Environment: f.cfg.Environment,
		Event:       evt.Event,
		Properties:  props,
		Timestamp:   evt.Timestamp,
		DistinctID:  distinctID(evt),
		DeviceID:    deviceID(evt),
	}
}

// transformIdentify merges the traits payload with context properties.
// anonymous_id is included only when a user id and a distinct anonymous id
// are both present and differ.
func (f *Forwarder) transformIdentify(evt InboundEvent) Payload {
	traits := propertiesFromContext(evt.Context, evt.Channel)
	for k, v := range evt.Traits {
		traits[k] = v
	}

	p := Payload{
		Environment: f.cfg.Environment,
		Traits:      traits,
		Timestamp:   evt.Timestamp,
		DistinctID:  distinctID(evt),
		DeviceID:    deviceID(evt),
	}
	if evt.UserID != "" && evt.AnonymousID != "" && evt.UserID != evt.AnonymousID {
		p.AnonymousID = evt.AnonymousID
	}
	return p
}

// transformAlias builds the minimal payload carrying the new and previous
// identifiers.
func (f *Forwarder) transformAlias(evt InboundEvent) Payload {
	return Payload{
		Environment: f.cfg.Environment,
		Timestamp:   evt.Timestamp,
		DistinctID:  distinctID(evt),
		PreviousID:  evt.PreviousID,
	}
}

func distinctID(evt InboundEvent) string {
	if evt.UserID != "" {
		return evt.UserID
	}
	return evt.AnonymousID
}

func deviceID(evt InboundEvent) string {
	if v, ok := lookupPath(evt.Context, "device.id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Forward transforms and delivers a single event. Delivery failures are
// propagated classified so the host can retry.
func (f *Forwarder) Forward(ctx context.Context, evt InboundEvent) error {
	payload, effectiveType, err := f.Transform(evt)
	if err != nil {
		return err
	}
	return f.dispatcher.Send(ctx, string(effectiveType), payload, f.cfg)
}

// bucketOrder fixes the reporting order for batch failures. The bucket
// requests themselves race concurrently with no ordering guarantee.
var bucketOrder = []EventType{TypeTrack, TypeIdentify, TypeAlias}

// ForwardBatch partitions events into track/identify/alias buckets after
// page/screen conversion and issues one batched request per non-empty
// bucket. Buckets dispatch concurrently; input order is preserved within
// each bucket. The call returns only after every dispatched request has
// settled, surfacing the first bucket failure.
//
// A group or delete event anywhere in the batch fails the whole call before
// any request is issued.
func (f *Forwarder) ForwardBatch(ctx context.Context, events []InboundEvent) error {
	buckets := make(map[EventType][]Payload)
	for _, evt := range events {
		payload, effectiveType, err := f.Transform(evt)
		if err != nil {
			return err
		}
		buckets[effectiveType] = append(buckets[effectiveType], payload)
	}

	batchCtx, batchSpan := f.spans.StartBatchSpan(ctx, len(events))

	var wg sync.WaitGroup
	results := make(map[EventType]error, len(bucketOrder))
	var resultsMu sync.Mutex

	for _, bucket := range bucketOrder {
		payloads := buckets[bucket]
		if len(payloads) == 0 {
			continue
		}

		wg.Add(1)
		go func(bucket EventType, payloads []Payload) {
			defer wg.Done()

			bucketCtx, span := f.spans.StartBucketSpan(batchCtx, string(bucket), len(payloads))
			err := f.dispatcher.Send(bucketCtx, string(bucket), payloads, f.cfg)
			f.spans.EndSpanWithError(span, err)

			resultsMu.Lock()
			results[bucket] = err
			resultsMu.Unlock()
		}(bucket, payloads)
	}

	wg.Wait()

	var firstErr error
	for _, bucket := range bucketOrder {
		if err := results[bucket]; err != nil {
			firstErr = err
			break
		}
	}
	f.spans.EndSpanWithError(batchSpan, firstErr)
	return firstErr
}
