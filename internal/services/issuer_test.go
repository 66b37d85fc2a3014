package services

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPin_Range(t *testing.T) {
	for i := 0; i < 2000; i++ {
		pin, err := NewPin()
		require.NoError(t, err)
		require.True(t, IsValidPin(pin), pin)

		n, err := strconv.Atoi(pin)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Len(t, id, 36)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestIsValidPin(t *testing.T) {
	assert.True(t, IsValidPin("123456"))
	assert.True(t, IsValidPin("000000"))
	assert.False(t, IsValidPin("12345"))
	assert.False(t, IsValidPin("1234567"))
	assert.False(t, IsValidPin("12345a"))
	assert.False(t, IsValidPin(""))
}
