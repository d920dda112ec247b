package identity

import (
	"log/slog"
	"strings"
	"sync"
)

// Manager owns the three identifier slots. Once generated, an id is stable
// for the lifetime of the Manager unless explicitly reset.
type Manager struct {
	mu      sync.Mutex
	durable Store // visitor id, survives restarts
	session Store // session id, process lifetime

	visitorID string
	sessionID string
	userID    string

	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithDurableStore sets the store backing the visitor id.
func WithDurableStore(s Store) Option {
	return func(m *Manager) {
		m.durable = s
	}
}

// WithSessionStore sets the session-scoped store backing the session id.
func WithSessionStore(s Store) Option {
	return func(m *Manager) {
		m.session = s
	}
}

// WithLogger sets the logger for storage fallback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager. Without options both slots are backed by
// in-memory stores.
func NewManager(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	if m.durable == nil {
		m.durable = NewMemoryStore()
	}
	if m.session == nil {
		m.session = NewMemoryStore()
	}
	return m
}

// VisitorID returns the visitor id, generating and persisting it on first use.
func (m *Manager) VisitorID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.visitorID == "" {
		m.visitorID = m.getOrCreate(m.durable, VisitorKey, VisitorPrefix)
	}
	return m.visitorID
}

// SessionID returns the session id, generating and persisting it on first use.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionID == "" {
		m.sessionID = m.getOrCreate(m.session, SessionKey, SessionPrefix)
	}
	return m.sessionID
}

// UserID returns the current user id, generating an anonymous-prefixed id
// on first use.
func (m *Manager) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userID == "" {
		m.userID = NewID(AnonymousPrefix)
	}
	return m.userID
}

// SetUserID overwrites the user id, typically from an identify call.
// Empty ids are ignored.
func (m *Manager) SetUserID(id string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userID = id
}

// IsAnonymous reports whether the user id is still a generated anonymous id.
func (m *Manager) IsAnonymous() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID == "" || strings.HasPrefix(m.userID, AnonymousPrefix+"-")
}

// ResetOptions selects which identifier slots a Reset regenerates.
type ResetOptions struct {
	// DeviceID regenerates the visitor id.
	DeviceID bool

	// SessionID regenerates the session id.
	SessionID bool
}

// Reset returns the user id to a fresh anonymous id and regenerates the
// visitor and/or session ids per opts, leaving unrequested slots untouched.
func (m *Manager) Reset(opts ResetOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.userID = NewID(AnonymousPrefix)

	if opts.DeviceID {
		m.visitorID = NewID(VisitorPrefix)
		m.write(m.durable, VisitorKey, m.visitorID)
	}
	if opts.SessionID {
		m.sessionID = NewID(SessionPrefix)
		m.write(m.session, SessionKey, m.sessionID)
	}
}

// getOrCreate reads the slot from its store, generating and persisting a new
// id when the read misses or the store fails. Store errors never propagate;
// the generated in-memory value is the fallback.
func (m *Manager) getOrCreate(store Store, key, prefix string) string {
	if v, err := store.Get(key); err == nil && v != "" {
		return v
	} else if err != nil && err != ErrNotFound && m.logger != nil {
		m.logger.Debug("identifier read failed, using in-memory value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	id := NewID(prefix)
	m.write(store, key, id)
	return id
}

func (m *Manager) write(store Store, key, value string) {
	if err := store.Set(key, value); err != nil && m.logger != nil {
		m.logger.Debug("identifier write failed, value kept in memory only",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
