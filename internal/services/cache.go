package services

import (
	"time"

	"fileshare-api/internal/metrics"
	"fileshare-api/internal/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RecordCache is an expirable LRU of file records keyed by id.
// Records are immutable, so entries only go stale through expiry or a sweep.
type RecordCache struct {
	cache *expirable.LRU[string, *models.FileRecord]
}

// NewRecordCache creates a cache holding at most size records for ttl each.
// A size of 0 or less disables caching.
func NewRecordCache(size int, ttl time.Duration) *RecordCache {
	if size <= 0 {
		return &RecordCache{}
	}
	return &RecordCache{cache: expirable.NewLRU[string, *models.FileRecord](size, nil, ttl)}
}

// Get returns a copy of the cached record for id
func (c *RecordCache) Get(id string) (*models.FileRecord, bool) {
	if c.cache == nil {
		return nil, false
	}
	record, ok := c.cache.Get(id)
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	clone := *record
	return &clone, true
}

// Set stores a copy of record
func (c *RecordCache) Set(record *models.FileRecord) {
	if c.cache == nil || record == nil {
		return
	}
	clone := *record
	c.cache.Add(record.ID, &clone)
}

// Delete evicts id
func (c *RecordCache) Delete(id string) {
	if c.cache == nil {
		return
	}
	c.cache.Remove(id)
}

// Len returns the number of cached records
func (c *RecordCache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
