package cache

import (
	"context"
	"time"
)

// Entry is one stored value plus the time it was written, at millisecond
// resolution in UTC (spec.md section 3's data-model carry-over).
type Entry struct {
	Value     any
	UpdatedAt time.Time
}

// Backend is the storage contract both cache adapters satisfy. TTL
// eviction is lazy: a Backend only decides an entry is stale when Get is
// asked to check one, never on a background sweep (spec.md section 4.3
// "TTL is evaluated lazily on read").
type Backend interface {
	// Init prepares the backend for use (idempotent: safe to call more
	// than once, e.g. after Reset).
	Init(ctx context.Context) error

	// Get returns the entry for key if present and not older than ttl.
	// found is false both when the key was never written and when it has
	// expired; in neither case is that an error.
	Get(ctx context.Context, key Key, ttl time.Duration) (Entry, bool, error)

	// Put stores value under key, stamped with updatedAt, and returns the
	// stored Entry.
	Put(ctx context.Context, key Key, value any, updatedAt time.Time) (Entry, error)

	// Delete removes key's entry, if any.
	Delete(ctx context.Context, key Key) error

	// LastUpdated returns the timestamp of key's last Put. found is false
	// if key has never been written.
	LastUpdated(ctx context.Context, key Key) (time.Time, bool, error)

	// LastUpdatedAll returns LastUpdated for every key that has ever been
	// written.
	LastUpdatedAll(ctx context.Context) (map[Key]time.Time, error)

	// Initialized reports whether Init has completed successfully.
	Initialized() bool

	// Reset clears all entries and, for backends with external state
	// (an open file, a connection), closes and reopens it. The next call
	// to Init (or Get/Put) must work against a clean, empty store.
	Reset(ctx context.Context) error

	// Terminate releases any resources held by the backend (e.g. closes
	// an open file). Unlike Reset, Terminate does not expect further use.
	Terminate(ctx context.Context) error
}
