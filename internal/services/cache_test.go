package services

import (
	"testing"
	"time"

	"fileshare-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCache_GetSetDelete(t *testing.T) {
	cache := NewRecordCache(10, time.Minute)

	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Set(&models.FileRecord{ID: "a", Name: "a.txt"})
	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a.txt", got.Name)

	// Callers get copies
	got.Name = "mutated"
	again, _ := cache.Get("a")
	assert.Equal(t, "a.txt", again.Name)

	cache.Delete("a")
	_, ok = cache.Get("a")
	assert.False(t, ok)
}

func TestRecordCache_Eviction(t *testing.T) {
	cache := NewRecordCache(2, time.Minute)
	cache.Set(&models.FileRecord{ID: "a"})
	cache.Set(&models.FileRecord{ID: "b"})
	cache.Set(&models.FileRecord{ID: "c"})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestRecordCache_TTL(t *testing.T) {
	cache := NewRecordCache(10, 20*time.Millisecond)
	cache.Set(&models.FileRecord{ID: "a"})

	assert.Eventually(t, func() bool {
		_, ok := cache.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRecordCache_Disabled(t *testing.T) {
	cache := NewRecordCache(0, time.Minute)
	cache.Set(&models.FileRecord{ID: "a"})

	_, ok := cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
	cache.Delete("a")
}
