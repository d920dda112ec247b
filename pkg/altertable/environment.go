package altertable

// Environment exposes the host surface the client captures from. Embedders
// provide an implementation bound to their UI layer; headless hosts can
// leave it unset, which disables auto-capture.
type Environment interface {
	// Location returns the current page URL.
	Location() string

	// Viewport returns the viewport size in pixels. ok is false when the
	// host has no display surface.
	Viewport() (width, height int, ok bool)
}

// Notifier is an optional Environment extension that delivers out-of-band
// navigation notifications, for hosts that can observe history pops or hash
// changes directly instead of waiting for the next poll tick.
type Notifier interface {
	// Navigations returns a channel that receives a value on every
	// host-observed navigation.
	Navigations() <-chan struct{}
}
