package altertable

import (
	"sync"

	"github.com/altertable/altertable-go/pkg/altertable/config"
	"github.com/altertable/altertable-go/pkg/altertable/identity"
)

var (
	defaultMu     sync.RWMutex
	defaultClient = New()
)

// Default returns the process-wide client used by the package-level
// functions.
func Default() *Client {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

// SetDefault replaces the process-wide client. A nil client is ignored.
func SetDefault(c *Client) {
	if c == nil {
		return
	}
	defaultMu.Lock()
	defaultClient = c
	defaultMu.Unlock()
}

// Init initializes the default client.
func Init(apiKey string, partial config.Partial) {
	Default().Init(apiKey, partial)
}

// Track captures a named event on the default client.
func Track(event string, properties map[string]any) {
	Default().Track(event, properties)
}

// Screen captures a screen view on the default client.
func Screen(name string, properties map[string]any) {
	Default().Screen(name, properties)
}

// Identify attaches a known user id on the default client.
func Identify(userID string) {
	Default().Identify(userID)
}

// UpdateTraits updates user traits on the default client.
func UpdateTraits(traits map[string]any) {
	Default().UpdateTraits(traits)
}

// Alias links a new identifier on the default client.
func Alias(newID string) {
	Default().Alias(newID)
}

// Page reports a pageview on the default client.
func Page(rawURL string) {
	Default().Page(rawURL)
}

// Reset regenerates identity on the default client.
func Reset(opts identity.ResetOptions) {
	Default().Reset(opts)
}

// Configure merges partial configuration into the default client.
func Configure(partial config.Partial) {
	Default().Configure(partial)
}

// TrackingConsent reports the default client's consent state.
func TrackingConsent() bool {
	return Default().TrackingConsent()
}
