package cache

import (
	"time"

	"github.com/google/uuid"
)

// ExistenceCache remembers keys that were confirmed present in storage.
//
// Caching is positive-only: there is deliberately no way to record absence.
// A cached "does not exist" can go stale the moment a concurrent ingestion
// commits, which would let a second ingestion of the same key proceed as if
// the first had not happened. A miss here always falls through to storage.
type ExistenceCache struct {
	byID        *ttlMap[uuid.UUID]
	bySourceURL *ttlMap[string]
}

// NewExistenceCache creates a cache with the given TTL and per-keyspace
// capacity bound.
func NewExistenceCache(ttl time.Duration, capacity int) *ExistenceCache {
	return &ExistenceCache{
		byID:        newTTLMap[uuid.UUID](ttl, capacity),
		bySourceURL: newTTLMap[string](ttl, capacity),
	}
}

// SeenID reports whether id was recently confirmed to exist.
func (c *ExistenceCache) SeenID(id uuid.UUID) bool {
	return c.byID.contains(id)
}

// SeenSourceURL reports whether sourceURL was recently confirmed to exist.
func (c *ExistenceCache) SeenSourceURL(sourceURL string) bool {
	return c.bySourceURL.contains(sourceURL)
}

// RecordID caches a confirmed-exists result for id.
func (c *ExistenceCache) RecordID(id uuid.UUID) {
	c.byID.set(id)
}

// RecordSourceURL caches a confirmed-exists result for sourceURL.
func (c *ExistenceCache) RecordSourceURL(sourceURL string) {
	c.bySourceURL.set(sourceURL)
}

// Clear drops both keyspaces wholesale. Called after structural maintenance
// operations that may invalidate arbitrary entries.
func (c *ExistenceCache) Clear() {
	c.byID.clear()
	c.bySourceURL.clear()
}
