package altertable

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altertable/altertable-go/pkg/altertable/config"
)

// fakeEnvironment is a mutable host surface for tests.
type fakeEnvironment struct {
	mu       sync.Mutex
	location string
	width    int
	height   int
	navs     chan struct{}
}

func (e *fakeEnvironment) Location() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.location
}

func (e *fakeEnvironment) Viewport() (int, int, bool) {
	if e.width == 0 && e.height == 0 {
		return 0, 0, false
	}
	return e.width, e.height, true
}

func (e *fakeEnvironment) navigate(url string) {
	e.mu.Lock()
	e.location = url
	e.mu.Unlock()
}

// notifyingEnvironment additionally pushes out-of-band navigation signals.
type notifyingEnvironment struct {
	fakeEnvironment
}

func (e *notifyingEnvironment) Navigations() <-chan struct{} {
	return e.navs
}

func pageviewURLs(sender *recordingSender) []string {
	var urls []string
	for _, s := range sender.events() {
		if s.evt.Event == "$pageview" {
			urls = append(urls, s.evt.Properties["$current_url"].(string))
		}
	}
	return urls
}

func TestAutoCaptureEmitsInitialPageview(t *testing.T) {
	env := &fakeEnvironment{location: "https://example.com/home"}
	c, sender := newTestClient(t, WithEnvironment(env), WithWatchInterval(5*time.Millisecond))
	defer c.Close()

	c.Init("k", config.Partial{})

	urls := pageviewURLs(sender)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://example.com/home", urls[0])
}

func TestWatcherDetectsNavigationByPolling(t *testing.T) {
	env := &fakeEnvironment{location: "https://example.com/home"}
	c, sender := newTestClient(t, WithEnvironment(env), WithWatchInterval(5*time.Millisecond))
	defer c.Close()

	c.Init("k", config.Partial{})
	env.navigate("https://example.com/pricing")

	require.Eventually(t, func() bool {
		return len(pageviewURLs(sender)) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "https://example.com/pricing", pageviewURLs(sender)[1])
}

func TestWatcherIgnoresUnchangedLocation(t *testing.T) {
	env := &fakeEnvironment{location: "https://example.com/home"}
	c, sender := newTestClient(t, WithEnvironment(env), WithWatchInterval(2*time.Millisecond))
	defer c.Close()

	c.Init("k", config.Partial{})

	// Let a handful of poll ticks pass with the location unchanged.
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, pageviewURLs(sender), 1, "unchanged location must not repeat the pageview")
}

func TestWatcherReactsToNavigationNotifications(t *testing.T) {
	env := &notifyingEnvironment{
		fakeEnvironment: fakeEnvironment{
			location: "https://example.com/home",
			navs:     make(chan struct{}, 1),
		},
	}
	// A long poll interval so only the notification can explain the event.
	c, sender := newTestClient(t, WithEnvironment(env), WithWatchInterval(time.Hour))
	defer c.Close()

	c.Init("k", config.Partial{})

	env.navigate("https://example.com/docs")
	env.navs <- struct{}{}

	require.Eventually(t, func() bool {
		return len(pageviewURLs(sender)) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "https://example.com/docs", pageviewURLs(sender)[1])
}

func TestAutoCaptureDisabledSkipsWatcher(t *testing.T) {
	env := &fakeEnvironment{location: "https://example.com/home"}
	c, sender := newTestClient(t, WithEnvironment(env), WithWatchInterval(2*time.Millisecond))
	defer c.Close()

	c.Init("k", config.Partial{AutoCapture: config.Bool(false)})

	env.navigate("https://example.com/pricing")
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, pageviewURLs(sender))
}
