package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a Backend guarded by a sync.RWMutex, tuned for the
// many-reader/few-writer access pattern a warm fetcher cache sees
// (spec.md section 5 "Shared resources"). Grounded directly on the
// teacher's MemoryCache.
type Memory struct {
	mu          sync.RWMutex
	entries     map[Key]Entry
	initialized bool
}

// NewMemory builds an empty in-memory Backend.
func NewMemory() *Memory {
	return &Memory{entries: make(map[Key]Entry)}
}

func (m *Memory) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[Key]Entry)
	}
	m.initialized = true
	return nil
}

// Get evicts key on the read that observes its TTL has expired
// (spec.md section 5 "expired entries are deleted on the read that
// observed the expiry"), so it takes the write lock throughout rather
// than just an RLock.
func (m *Memory) Get(ctx context.Context, key Key, ttl time.Duration) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	if ttl > 0 && time.Since(entry.UpdatedAt) > ttl {
		delete(m.entries, key)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (m *Memory) Put(ctx context.Context, key Key, value any, updatedAt time.Time) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := Entry{Value: value, UpdatedAt: updatedAt.UTC().Truncate(time.Millisecond)}
	m.entries[key] = entry
	return entry, nil
}

func (m *Memory) Delete(ctx context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) LastUpdated(ctx context.Context, key Key) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry.UpdatedAt, ok, nil
}

func (m *Memory) LastUpdatedAll(ctx context.Context) (map[Key]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[Key]time.Time, len(m.entries))
	for k, entry := range m.entries {
		out[k] = entry.UpdatedAt
	}
	return out, nil
}

func (m *Memory) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Reset clears all entries; Memory holds no external resource so it is
// equivalent to dropping the map.
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[Key]Entry)
	return nil
}

// Terminate drops Memory's backing map; there is no external resource
// to release, but a terminated backend is no longer Initialized, same
// as Disk's Terminate.
func (m *Memory) Terminate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.initialized = false
	return nil
}
