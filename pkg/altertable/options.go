package altertable

import (
	"log/slog"
	"time"

	"github.com/altertable/altertable-go/pkg/altertable/identity"
	"github.com/altertable/altertable-go/pkg/altertable/observability"
	"github.com/altertable/altertable-go/pkg/altertable/queue"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithEnvironment attaches the host environment used for auto-capture and
// viewport reporting. Without one, auto-capture is inert.
func WithEnvironment(env Environment) Option {
	return func(c *Client) {
		c.env = env
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(c *Client) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithSender replaces the default transport dispatcher.
func WithSender(sender Sender) Option {
	return func(c *Client) {
		c.dispatcher = sender
	}
}

// WithIdentityManager replaces the default identity manager, letting callers
// plug durable and session stores of their choosing.
func WithIdentityManager(m *identity.Manager) Option {
	return func(c *Client) {
		c.ids = m
	}
}

// WithWatchInterval sets the auto-capture poll period.
func WithWatchInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.watchInterval = interval
		}
	}
}

// WithPendingCapacity bounds the pre-init command buffer. When the buffer
// is full the oldest command is dropped to admit the newest.
func WithPendingCapacity(capacity int) Option {
	return func(c *Client) {
		c.pending = queue.New(capacity, queue.WithOnDrop(c.onCommandDropped))
	}
}
