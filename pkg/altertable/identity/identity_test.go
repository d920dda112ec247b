package identity_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altertable/altertable-go/pkg/altertable/identity"
)

// failingStore simulates storage disabled by the host (quota, privacy mode).
type failingStore struct{}

func (failingStore) Get(string) (string, error) { return "", fmt.Errorf("storage disabled") }
func (failingStore) Set(string, string) error   { return fmt.Errorf("storage disabled") }

func TestIDStability(t *testing.T) {
	m := identity.NewManager()

	visitor := m.VisitorID()
	session := m.SessionID()
	user := m.UserID()

	require.NotEmpty(t, visitor)
	require.NotEmpty(t, session)
	require.True(t, strings.HasPrefix(user, "anon-"))

	// Ids are stable for the lifetime of the manager.
	assert.Equal(t, visitor, m.VisitorID())
	assert.Equal(t, session, m.SessionID())
	assert.Equal(t, user, m.UserID())
}

func TestVisitorIDPersistsAcrossManagers(t *testing.T) {
	durable := identity.NewMemoryStore()

	first := identity.NewManager(identity.WithDurableStore(durable)).VisitorID()
	second := identity.NewManager(identity.WithDurableStore(durable)).VisitorID()
	assert.Equal(t, first, second)
}

func TestSessionIDScopedToSessionStore(t *testing.T) {
	durable := identity.NewMemoryStore()

	// A fresh session store models a new browsing session.
	first := identity.NewManager(identity.WithDurableStore(durable)).SessionID()
	second := identity.NewManager(identity.WithDurableStore(durable)).SessionID()
	assert.NotEqual(t, first, second)
}

// TestStorageFailureFallsBack verifies store failures degrade to in-memory
// values without surfacing errors.
func TestStorageFailureFallsBack(t *testing.T) {
	m := identity.NewManager(
		identity.WithDurableStore(failingStore{}),
		identity.WithSessionStore(failingStore{}),
	)

	visitor := m.VisitorID()
	assert.True(t, strings.HasPrefix(visitor, "visitor-"))
	assert.Equal(t, visitor, m.VisitorID())

	session := m.SessionID()
	assert.True(t, strings.HasPrefix(session, "session-"))
	assert.Equal(t, session, m.SessionID())
}

func TestSetUserID(t *testing.T) {
	m := identity.NewManager()
	assert.True(t, m.IsAnonymous())

	m.SetUserID("user-42")
	assert.Equal(t, "user-42", m.UserID())
	assert.False(t, m.IsAnonymous())

	// Empty ids are ignored.
	m.SetUserID("")
	assert.Equal(t, "user-42", m.UserID())
}

func TestResetRegeneratesIndependently(t *testing.T) {
	m := identity.NewManager()
	visitor := m.VisitorID()
	session := m.SessionID()
	m.SetUserID("user-42")

	m.Reset(identity.ResetOptions{SessionID: true})
	assert.Equal(t, visitor, m.VisitorID(), "device id untouched when not requested")
	assert.NotEqual(t, session, m.SessionID())
	assert.True(t, m.IsAnonymous(), "reset returns the user to anonymous")

	visitor = m.VisitorID()
	session = m.SessionID()
	m.Reset(identity.ResetOptions{DeviceID: true})
	assert.NotEqual(t, visitor, m.VisitorID())
	assert.Equal(t, session, m.SessionID(), "session id untouched when not requested")
}

func TestResetPersistsRegeneratedIDs(t *testing.T) {
	durable := identity.NewMemoryStore()
	m := identity.NewManager(identity.WithDurableStore(durable))
	m.VisitorID()

	m.Reset(identity.ResetOptions{DeviceID: true})
	regenerated := m.VisitorID()

	stored, err := durable.Get(identity.VisitorKey)
	require.NoError(t, err)
	assert.Equal(t, regenerated, stored)
}
