package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIsDeterministic(t *testing.T) {
	hasher := NewHasher("app-salt", 100)

	first := hasher.Hash("hunter2")
	second := hasher.Hash("hunter2")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex of a 32-byte digest
}

func TestHashVariesByInput(t *testing.T) {
	hasher := NewHasher("app-salt", 100)

	assert.NotEqual(t, hasher.Hash("hunter2"), hasher.Hash("hunter3"))
	assert.NotEqual(t, hasher.Hash("hunter2"), "hunter2")
}

func TestHashVariesBySalt(t *testing.T) {
	a := NewHasher("salt-a", 100)
	b := NewHasher("salt-b", 100)

	assert.NotEqual(t, a.Hash("hunter2"), b.Hash("hunter2"))
}

func TestNewHasherDefaultsIterations(t *testing.T) {
	hasher := NewHasher("app-salt", 0)

	assert.Equal(t, 10000, hasher.iterations)
	assert.Len(t, hasher.Hash("hunter2"), 64)
}
