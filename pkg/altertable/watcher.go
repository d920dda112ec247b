package altertable

import (
	"sync"
	"time"
)

// defaultWatchInterval is the auto-capture poll period.
const defaultWatchInterval = 100 * time.Millisecond

// watcher detects navigation changes. A fixed-interval poll and the
// environment's out-of-band notifications both funnel into check, which
// consults a single last-observed URL so repeated triggers for an unchanged
// location emit at most one pageview.
type watcher struct {
	client   *Client
	env      Environment
	interval time.Duration

	mu      sync.Mutex
	lastURL string

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newWatcher(c *Client, env Environment, interval time.Duration) *watcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return &watcher{
		client:   c,
		env:      env,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// startWatcher installs and starts the navigation watcher, priming it with
// the already-reported initial location.
func (c *Client) startWatcher(initialURL string) {
	w := newWatcher(c, c.env, c.watchInterval)
	w.prime(initialURL)

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	go w.run()
}

// prime records url as already observed so the first tick does not repeat
// the initial pageview.
func (w *watcher) prime(url string) {
	w.mu.Lock()
	w.lastURL = url
	w.mu.Unlock()
}

func (w *watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var navs <-chan struct{}
	if n, ok := w.env.(Notifier); ok {
		navs = n.Navigations()
	}

	for {
		select {
		case <-ticker.C:
			w.check()
		case _, ok := <-navs:
			if !ok {
				navs = nil
				continue
			}
			w.check()
		case <-w.stopCh:
			return
		}
	}
}

// check emits a pageview when the location changed since the last
// observation.
func (w *watcher) check() {
	current := w.env.Location()

	w.mu.Lock()
	changed := current != w.lastURL
	if changed {
		w.lastURL = current
	}
	w.mu.Unlock()

	if changed {
		w.client.page(current)
	}
}

func (w *watcher) stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}
