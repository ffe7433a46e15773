package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Hasher derives one-way credential hashes. The derivation is deterministic:
// the identity store matches (username, role, hash) as a single lookup, so
// equal inputs must always yield equal digests. Plaintext passwords are never
// stored or logged.
type Hasher struct {
	salt       []byte
	iterations int
}

// NewHasher builds a hasher from the configured application salt.
func NewHasher(salt string, iterations int) *Hasher {
	if iterations <= 0 {
		iterations = 10000
	}
	return &Hasher{salt: []byte(salt), iterations: iterations}
}

// Hash returns the hex-encoded pbkdf2-sha256 digest of the password.
func (h *Hasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.salt, h.iterations, 32, sha256.New)
	return hex.EncodeToString(key)
}
