package identity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestNewIDFallbackOnError verifies generation survives a failing uuid source.
func TestNewIDFallbackOnError(t *testing.T) {
	orig := newUUID
	defer func() { newUUID = orig }()

	newUUID = func() (uuid.UUID, error) {
		return uuid.UUID{}, fmt.Errorf("entropy exhausted")
	}

	id := NewID(AnonymousPrefix)
	assert.True(t, strings.HasPrefix(id, "anon-"))
	assert.Greater(t, len(id), len("anon-"))
}

// TestNewIDFallbackOnPanic verifies a panicking uuid source never escapes.
func TestNewIDFallbackOnPanic(t *testing.T) {
	orig := newUUID
	defer func() { newUUID = orig }()

	newUUID = func() (uuid.UUID, error) {
		panic("no secure random source")
	}

	assert.NotPanics(t, func() {
		id := NewID(VisitorPrefix)
		assert.True(t, strings.HasPrefix(id, "visitor-"))
		assert.Greater(t, len(id), len("visitor-"))
	})
}

func TestFallbackIDShape(t *testing.T) {
	id := fallbackID()
	assert.Len(t, id, 32)
	assert.NotEqual(t, fallbackID(), id)
}
