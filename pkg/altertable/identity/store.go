// Package identity generates and persists the visitor, session, and user
// identifiers attached to captured events.
//
// Identifiers have three lifetimes:
//   - visitor id: durable, survives restarts until the store is cleared
//   - session id: lives for one process session
//   - user id: anonymous-prefixed until the host calls SetUserID
//
// Persistence goes through the Store interface. Stores are treated as
// external and allowed to fail spontaneously (quota, privacy mode); every
// access degrades to the in-memory value rather than surfacing an error.
package identity

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Get when the key has no value.
var ErrNotFound = errors.New("identity: key not found")

// Store is a simple string key/value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set writes the value for key.
	Set(key, value string) error
}

// Persisted state layout: one key per identifier slot.
const (
	VisitorKey = "altertable_visitor_id"
	SessionKey = "altertable_session_id"
)

// MemoryStore is an in-process Store. It backs the session-scoped slot by
// default and doubles as a test store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
