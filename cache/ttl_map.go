// Package cache provides the in-memory TTL caches that sit beside the
// coordinator: the positive-only existence cache and the dedup guard.
package cache

import (
	"sync"
	"time"
)

// ttlMap is a bounded TTL set. Entries expire on read; when the capacity
// bound is hit the entry closest to expiry is evicted.
type ttlMap[K comparable] struct {
	mu       sync.Mutex
	entries  map[K]time.Time
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func newTTLMap[K comparable](ttl time.Duration, capacity int) *ttlMap[K] {
	return &ttlMap[K]{
		entries:  make(map[K]time.Time, capacity),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// contains reports whether key has a live entry. Expired entries are removed
// on the way.
func (m *ttlMap[K]) contains(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.entries[key]
	if !ok {
		return false
	}

	if m.now().After(expiry) {
		delete(m.entries, key)
		return false
	}

	return true
}

// set inserts or refreshes key with a full TTL.
func (m *ttlMap[K]) set(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.capacity {
		m.evictLocked()
	}

	m.entries[key] = m.now().Add(m.ttl)
}

// checkAndSet atomically reports whether key is live and inserts it if not.
func (m *ttlMap[K]) checkAndSet(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	if expiry, ok := m.entries[key]; ok {
		if now.Before(expiry) {
			return true
		}
		delete(m.entries, key)
	}

	if len(m.entries) >= m.capacity {
		m.evictLocked()
	}

	m.entries[key] = now.Add(m.ttl)

	return false
}

// evictLocked frees one slot: expired entries first, otherwise the entry
// closest to expiry. Caller holds the lock.
func (m *ttlMap[K]) evictLocked() {
	now := m.now()

	var (
		oldest      K
		oldestFound bool
		oldestAt    time.Time
	)

	for key, expiry := range m.entries {
		if now.After(expiry) {
			delete(m.entries, key)
			return
		}
		if !oldestFound || expiry.Before(oldestAt) {
			oldest = key
			oldestAt = expiry
			oldestFound = true
		}
	}

	if oldestFound {
		delete(m.entries, oldest)
	}
}

// unset removes key regardless of expiry.
func (m *ttlMap[K]) unset(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

func (m *ttlMap[K]) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[K]time.Time, m.capacity)
}

func (m *ttlMap[K]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
