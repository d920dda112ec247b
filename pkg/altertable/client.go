package altertable

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/altertable/altertable-go/pkg/altertable/config"
	"github.com/altertable/altertable-go/pkg/altertable/identity"
	"github.com/altertable/altertable-go/pkg/altertable/observability"
	"github.com/altertable/altertable-go/pkg/altertable/queue"
	"github.com/altertable/altertable-go/pkg/altertable/transport"
)

// Sender delivers a serialized payload to the collector.
// *transport.Dispatcher is the production implementation.
type Sender interface {
	Send(ctx context.Context, path string, payload any, cfg config.Config) error
}

// Event is the client-side collector payload.
type Event struct {
	Type        string         `json:"type"`
	Event       string         `json:"event,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Traits      map[string]any `json:"traits,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	DistinctID  string         `json:"distinct_id"`
	PreviousID  string         `json:"previous_id,omitempty"`
	DeviceID    string         `json:"device_id,omitempty"`
	Environment string         `json:"environment"`
	Release     string         `json:"release,omitempty"`
}

// Client is the capture orchestrator. It moves from uninitialized to
// initialized exactly once; until then every public call is buffered and
// replayed in order at Init. Reset never moves the state backward.
//
// No public method returns an error: instrumentation must never crash the
// host application, so failures are logged and swallowed.
type Client struct {
	mu          sync.Mutex
	initialized bool
	cfg         config.Config

	ids        *identity.Manager
	dispatcher Sender
	pending    *queue.Queue[command]
	env        Environment
	watcher    *watcher

	watchInterval time.Duration
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	now           func() time.Time
}

// New creates an uninitialized Client.
func New(opts ...Option) *Client {
	c := &Client{
		cfg:           config.Default(),
		watchInterval: defaultWatchInterval,
		metrics:       observability.NoopMetrics{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = identity.NewManager(identity.WithLogger(c.logger))
	}
	if c.dispatcher == nil {
		c.dispatcher = transport.NewDispatcher(
			transport.WithLogger(c.logger),
			transport.WithMetrics(c.metrics),
		)
	}
	if c.pending == nil {
		c.pending = queue.New(queue.DefaultCapacity, queue.WithOnDrop(c.onCommandDropped))
	}
	return c
}

func (c *Client) onCommandDropped(cmd command) {
	observability.LogCommandDropped(c.logger, string(cmd.op))
	c.metrics.RecordCommandDropped(context.Background(), string(cmd.op))
}

// Init sets the configuration, transitions the client to initialized, and
// synchronously replays every buffered command in its original order,
// exactly once, before auto-capture starts. Later Init calls are ignored.
//
// The apiKey argument wins over any APIKey in partial.
func (c *Client) Init(apiKey string, partial config.Partial) {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		if c.logger != nil {
			c.logger.Warn("client already initialized, ignoring init call")
		}
		return
	}
	c.cfg = c.cfg.Merge(partial)
	c.cfg.APIKey = apiKey
	c.initialized = true
	replay := c.pending.Flush()
	c.mu.Unlock()

	start := c.now()
	for _, cmd := range replay {
		c.dispatch(cmd)
	}
	observability.LogReplay(c.logger, len(replay), time.Since(start))

	if cfg := c.config(); cfg.AutoCapture && c.env != nil {
		loc := c.env.Location()
		c.page(loc)
		c.startWatcher(loc)
	}
}

// Track captures a named event. Library-injected properties are merged
// under caller-supplied ones; caller values win.
func (c *Client) Track(event string, properties map[string]any) {
	if c.buffer(command{op: opTrack, name: event, props: properties}) {
		return
	}
	c.track(event, properties)
}

// Screen captures a screen view as a $screen event.
func (c *Client) Screen(name string, properties map[string]any) {
	if c.buffer(command{op: opScreen, name: name, props: properties}) {
		return
	}
	c.screen(name, properties)
}

// Identify attaches a known user id to the visitor and emits an identify
// event. Empty ids are ignored.
func (c *Client) Identify(userID string) {
	if c.buffer(command{op: opIdentify, name: userID}) {
		return
	}
	c.identify(userID)
}

// UpdateTraits emits an identify event carrying the given traits for the
// current user.
func (c *Client) UpdateTraits(traits map[string]any) {
	if c.buffer(command{op: opUpdateTraits, props: traits}) {
		return
	}
	c.updateTraits(traits)
}

// Alias links a new identifier to the current one and adopts it.
func (c *Client) Alias(newID string) {
	if c.buffer(command{op: opAlias, name: newID}) {
		return
	}
	c.alias(newID)
}

// Page reports a pageview for rawURL. Malformed URLs are ignored without
// error; query parameters are flattened into properties with the library's
// reserved names winning.
func (c *Client) Page(rawURL string) {
	if c.buffer(command{op: opPage, name: rawURL}) {
		return
	}
	c.page(rawURL)
}

// Reset regenerates identity per opts. It does not move the client back to
// the uninitialized state.
func (c *Client) Reset(opts identity.ResetOptions) {
	if c.buffer(command{op: opReset, reset: opts}) {
		return
	}
	c.ids.Reset(opts)
}

// TrackingConsent reports the configured consent state.
func (c *Client) TrackingConsent() bool {
	return c.config().TrackingConsent
}

// Configure shallow-merges partial into the configuration. Fields absent
// from partial keep their current values.
func (c *Client) Configure(partial config.Partial) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = c.cfg.Merge(partial)
}

// Close stops the auto-capture watcher. Identity stores are owned by the
// host and are not closed here.
func (c *Client) Close() {
	c.mu.Lock()
	w := c.watcher
	c.mu.Unlock()
	if w != nil {
		w.stop()
	}
}

// buffer enqueues cmd when the client is not yet initialized.
func (c *Client) buffer(cmd command) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return false
	}
	c.pending.Enqueue(cmd)
	return true
}

func (c *Client) config() config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// track is the post-init handler behind Track.
func (c *Client) track(event string, properties map[string]any) {
	props := map[string]any{
		"$lib":         libName,
		"$lib_version": Version,
	}
	for k, v := range properties {
		props[k] = v
	}
	c.emit("track", Event{
		Type:       "track",
		Event:      event,
		Properties: props,
		DistinctID: c.ids.UserID(),
		DeviceID:   c.ids.VisitorID(),
	})
}

// screen reports a $screen event carrying the screen name.
func (c *Client) screen(name string, properties map[string]any) {
	props := map[string]any{
		"$lib":         libName,
		"$lib_version": Version,
	}
	for k, v := range properties {
		props[k] = v
	}
	props["$screen_name"] = name

	c.emit("track", Event{
		Type:       "track",
		Event:      "$screen",
		Properties: props,
		DistinctID: c.ids.UserID(),
		DeviceID:   c.ids.VisitorID(),
	})
}

func (c *Client) identify(userID string) {
	if userID == "" {
		return
	}
	c.ids.SetUserID(userID)
	c.emit("identify", Event{
		Type:       "identify",
		DistinctID: userID,
		DeviceID:   c.ids.VisitorID(),
	})
}

func (c *Client) updateTraits(traits map[string]any) {
	c.emit("identify", Event{
		Type:       "identify",
		Traits:     traits,
		DistinctID: c.ids.UserID(),
		DeviceID:   c.ids.VisitorID(),
	})
}

func (c *Client) alias(newID string) {
	if newID == "" {
		return
	}
	previous := c.ids.UserID()
	c.ids.SetUserID(newID)
	c.emit("alias", Event{
		Type:       "alias",
		DistinctID: newID,
		PreviousID: previous,
		DeviceID:   c.ids.VisitorID(),
	})
}

// page is the post-init handler behind Page and the watcher.
func (c *Client) page(rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		observability.LogMalformedURL(c.logger, rawURL)
		return
	}

	props := make(map[string]any)
	for key, values := range u.Query() {
		if len(values) > 0 {
			props[key] = values[0]
		}
	}

	// Reserved names always win over URL-defined query parameters.
	props["$current_url"] = u.Scheme + "://" + u.Host + u.Path
	props["$session_id"] = c.ids.SessionID()
	props["$device_id"] = c.ids.VisitorID()
	props["$lib"] = libName
	props["$lib_version"] = Version
	if c.env != nil {
		if width, height, ok := c.env.Viewport(); ok {
			props["$viewport"] = fmt.Sprintf("%dx%d", width, height)
		}
	}

	c.emit("track", Event{
		Type:       "track",
		Event:      "$pageview",
		Properties: props,
		DistinctID: c.ids.UserID(),
		DeviceID:   c.ids.VisitorID(),
	})
}

// emit stamps the event and hands it to the dispatcher. Delivery failures
// are logged, never propagated.
func (c *Client) emit(path string, evt Event) {
	cfg := c.config()
	evt.Timestamp = c.now()
	evt.Environment = cfg.Environment
	evt.Release = cfg.Release

	ctx := context.Background()
	c.metrics.RecordCapture(ctx, evt.Type)
	observability.LogEventCaptured(c.logger, evt.Type, evt.Event, evt.DistinctID)

	if err := c.dispatcher.Send(ctx, path, evt, cfg); err != nil {
		observability.LogDeliveryError(c.logger, path, err)
	}
}
