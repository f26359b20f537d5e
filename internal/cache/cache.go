package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/greven/forex/internal/metrics"
	"github.com/greven/forex/internal/xerrors"
	"github.com/greven/forex/pkg/logger"
)

// Cache wraps a Backend with single-flight read-through resolution
// (spec.md section 4.3 "Concurrency for resolve", stiffened per the
// spec's own allowance: "Implementers are free to add key-level
// locking..."). Concurrent Resolve calls for the same Key collapse into
// one resolver invocation; every caller receives the same result.
type Cache struct {
	backend Backend
	group   singleflight.Group
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New wraps backend with single-flight resolution. metrics and log may
// be nil; a nil logger behaves like logger.Nop().
func New(backend Backend, m *metrics.Metrics, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{backend: backend, metrics: m, log: log}
}

// Init delegates to the wrapped Backend.
func (c *Cache) Init(ctx context.Context) error { return c.backend.Init(ctx) }

// Get delegates to the wrapped Backend with no resolver involvement.
func (c *Cache) Get(ctx context.Context, key Key, ttl time.Duration) (Entry, bool, error) {
	return c.backend.Get(ctx, key, ttl)
}

// Put delegates to the wrapped Backend.
func (c *Cache) Put(ctx context.Context, key Key, value any, updatedAt time.Time) (Entry, error) {
	return c.backend.Put(ctx, key, value, updatedAt)
}

// Delete delegates to the wrapped Backend.
func (c *Cache) Delete(ctx context.Context, key Key) error { return c.backend.Delete(ctx, key) }

// LastUpdated delegates to the wrapped Backend.
func (c *Cache) LastUpdated(ctx context.Context, key Key) (time.Time, bool, error) {
	return c.backend.LastUpdated(ctx, key)
}

// LastUpdatedAll delegates to the wrapped Backend.
func (c *Cache) LastUpdatedAll(ctx context.Context) (map[Key]time.Time, error) {
	return c.backend.LastUpdatedAll(ctx)
}

// Initialized delegates to the wrapped Backend.
func (c *Cache) Initialized() bool { return c.backend.Initialized() }

// Reset delegates to the wrapped Backend.
func (c *Cache) Reset(ctx context.Context) error { return c.backend.Reset(ctx) }

// Terminate delegates to the wrapped Backend.
func (c *Cache) Terminate(ctx context.Context) error { return c.backend.Terminate(ctx) }

// Resolve returns key's cached value if it is fresh; otherwise it calls
// r exactly once even under concurrent callers for the same key, stores
// the result, and returns it to every waiter.
func (c *Cache) Resolve(ctx context.Context, key Key, r Resolver, ttl time.Duration) (any, error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ResolveDuration.WithLabelValues(key.String()).Observe(time.Since(start).Seconds())
		}
	}()

	if entry, found, err := c.backend.Get(ctx, key, ttl); err != nil {
		return nil, err
	} else if found {
		c.observe(key, true)
		return entry.Value, nil
	}
	c.observe(key, false)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.log.Debug("resolving cache key", "key", key.String(), "resolver", r.name())
		value, err := r.resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", xerrors.ResolverFailed, err)
		}
		entry, err := c.backend.Put(ctx, key, value, time.Now())
		if err != nil {
			return nil, err
		}
		return entry.Value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Cache) observe(key Key, hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.CacheHitsTotal.WithLabelValues(key.String()).Inc()
	} else {
		c.metrics.CacheMissesTotal.WithLabelValues(key.String()).Inc()
	}
}
