package cache

import (
	"time"

	"github.com/google/uuid"
)

// DedupGuard tracks identities that are in flight or were recently processed,
// preventing duplicate concurrent ingestion of the same article.
type DedupGuard struct {
	seen *ttlMap[uuid.UUID]
}

// NewDedupGuard creates a guard with the given TTL and capacity bound.
func NewDedupGuard(ttl time.Duration, capacity int) *DedupGuard {
	return &DedupGuard{
		seen: newTTLMap[uuid.UUID](ttl, capacity),
	}
}

// CheckAndMark atomically checks for a live entry and inserts one if absent.
// Returns true when id is a duplicate; callers treat that as success, not an
// error. Returns false after marking id as in flight.
func (g *DedupGuard) CheckAndMark(id uuid.UUID) bool {
	return g.seen.checkAndSet(id)
}

// Release drops the entry for id. Called when an ingestion marked in flight
// fails, so a later attempt is not misreported as a duplicate for the rest
// of the TTL window.
func (g *DedupGuard) Release(id uuid.UUID) {
	g.seen.unset(id)
}

// Clear drops all guard entries.
func (g *DedupGuard) Clear() {
	g.seen.clear()
}
