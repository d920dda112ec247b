// Package destination re-shapes third-party event payloads into the
// collector's wire format.
//
// The forwarder is a stateless transform and dispatch unit driven by an
// external batch-delivery host. Unlike the embedded client, it propagates
// delivery failures so the host's own retry policy can act on them.
package destination

import "time"

// EventType identifies the inbound event kind.
type EventType string

// Inbound event kinds. Page and screen events convert to track events
// before dispatch; group and delete events are never sent.
const (
	TypeTrack    EventType = "track"
	TypeIdentify EventType = "identify"
	TypeAlias    EventType = "alias"
	TypePage     EventType = "page"
	TypeScreen   EventType = "screen"
	TypeGroup    EventType = "group"
	TypeDelete   EventType = "delete"
)

// ChannelServer marks events that originated server-side rather than from
// an instrumented page.
const ChannelServer = "server"

// InboundEvent is an event as produced by an upstream source, before
// normalization into the collector schema.
type InboundEvent struct {
	Type EventType `json:"type"`

	// Event is the track event name, or the page/screen name.
	Event string `json:"event,omitempty"`

	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"anonymousId,omitempty"`

	// PreviousID carries the old identifier on alias events.
	PreviousID string `json:"previousId,omitempty"`

	// Channel distinguishes client and server origin.
	Channel string `json:"channel,omitempty"`

	Properties map[string]any `json:"properties,omitempty"`
	Traits     map[string]any `json:"traits,omitempty"`

	// Context holds the nested source context (page, screen, device,
	// campaign, library, ...), remapped into flat destination properties.
	Context map[string]any `json:"context,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Payload is the normalized collector payload.
type Payload struct {
	Environment string         `json:"environment"`
	Event       string         `json:"event,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Traits      map[string]any `json:"traits,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	DistinctID  string         `json:"distinct_id"`
	AnonymousID string         `json:"anonymous_id,omitempty"`
	DeviceID    string         `json:"device_id,omitempty"`
	PreviousID  string         `json:"previous_id,omitempty"`
}

// Fixed event names assigned to converted page and screen events.
const (
	PageviewEvent = "$pageview"
	ScreenEvent   = "$screen"
)
