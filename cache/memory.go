package cache

import (
	"sync"
	"time"
)

// sweepInterval is the number of writes between scans for expired entries.
const sweepInterval = 256

type memoryEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an in-process Store backed by a mutex-guarded map. Expired
// entries are evicted on read and swept periodically on write.
type Memory[V any] struct {
	mu      sync.Mutex
	entries map[string]memoryEntry[V]
	writes  int
}

var _ Store[int] = (*Memory[int])(nil)

// NewMemory creates an empty in-memory cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		entries: make(map[string]memoryEntry[V]),
	}
}

// Get returns the cached value for key, evicting it when expired.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key for the given TTL. Non-positive TTLs are
// treated as immediate expiry.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}

	m.writes++
	if m.writes >= sweepInterval {
		m.writes = 0
		now := time.Now()
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
}

// Len returns the number of entries currently held, expired or not.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
