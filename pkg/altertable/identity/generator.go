package identity

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Identifier prefixes per slot.
const (
	VisitorPrefix   = "visitor"
	SessionPrefix   = "session"
	AnonymousPrefix = "anon"
)

// newUUID is swapped in tests to simulate a failing secure random source.
var newUUID = uuid.NewRandom

const fallbackAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID returns "{prefix}-{uuid}". If the secure random source fails or
// panics it falls back to a lower-entropy random string; generation never
// fails and never returns an empty id.
func NewID(prefix string) string {
	if id, err := secureID(); err == nil {
		return fmt.Sprintf("%s-%s", prefix, id)
	}
	return fmt.Sprintf("%s-%s", prefix, fallbackID())
}

func secureID() (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("uuid source panicked: %v", r)
		}
	}()

	u, err := newUUID()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// fallbackID builds a 32-character id from the non-cryptographic PRNG.
func fallbackID() string {
	b := make([]byte, 32)
	for i := range b {
		b[i] = fallbackAlphabet[rand.IntN(len(fallbackAlphabet))]
	}
	return string(b)
}
