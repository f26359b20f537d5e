package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greven/forex/internal/rates"
	"github.com/greven/forex/internal/xerrors"
)

func fixturePayload() rates.Payload {
	return rates.Payload{
		rates.NewSet(time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC), []rates.Entry{
			{Currency: "USD", Rate: decimal.NewFromFloat(1.0772)},
		}),
	}
}

func TestMemory_PutThenGet(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))

	_, err := m.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now())
	require.NoError(t, err)

	entry, found, err := m.Get(context.Background(), KeyLatestRates, time.Hour)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, entry.Value)
}

func TestMemory_TTLEviction(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))

	_, err := m.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, found, err := m.Get(context.Background(), KeyLatestRates, time.Minute)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = m.Get(context.Background(), KeyLatestRates, time.Hour*24)
	require.NoError(t, err)
	assert.False(t, found, "expired entry must be evicted, not just hidden from the expired read")

	_, found, err = m.LastUpdated(context.Background(), KeyLatestRates)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))

	_, err := m.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)

	_, found, err := m.Get(context.Background(), KeyLatestRates, 0)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemory_PutIsIdempotentUnderRepeatedWrite(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))

	for i := 0; i < 3; i++ {
		_, err := m.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now())
		require.NoError(t, err)
	}

	last, found, err := m.LastUpdated(context.Background(), KeyLatestRates)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, last.IsZero())
}

func TestCache_ResolveCallsResolverOnlyOnceUnderConcurrency(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))
	c := New(m, nil, nil)

	var calls atomic.Int32
	resolver := FuncResolver(func(ctx context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return fixturePayload(), nil
	})

	results := make(chan any, 10)
	for i := 0; i < 10; i++ {
		go func() {
			v, err := c.Resolve(context.Background(), KeyLatestRates, resolver, time.Hour)
			require.NoError(t, err)
			results <- v
		}()
	}
	for i := 0; i < 10; i++ {
		<-results
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_ResolveSkipsResolverOnWarmCache(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))
	c := New(m, nil, nil)

	_, err := m.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now())
	require.NoError(t, err)

	called := false
	_, err = c.Resolve(context.Background(), KeyLatestRates, FuncResolver(func(ctx context.Context) (any, error) {
		called = true
		return fixturePayload(), nil
	}), time.Hour)
	require.NoError(t, err)
	assert.False(t, called)
}

func TestCache_ResolvePropagatesResolverError(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Init(context.Background()))
	c := New(m, nil, nil)

	_, err := c.Resolve(context.Background(), KeyLatestRates, NamedResolver{
		Name: "failing",
		Func: func(ctx context.Context) (any, error) { return nil, assert.AnError },
	}, time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ResolverFailed)
}

func TestDisk_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".forex_cache")

	d1 := NewDisk(path)
	require.NoError(t, d1.Init(context.Background()))
	_, err := d1.Put(context.Background(), KeyHistoricRates, fixturePayload(), time.Now())
	require.NoError(t, err)
	require.NoError(t, d1.Terminate(context.Background()))

	d2 := NewDisk(path)
	require.NoError(t, d2.Init(context.Background()))
	entry, found, err := d2.Get(context.Background(), KeyHistoricRates, time.Hour)
	require.NoError(t, err)
	require.True(t, found)

	payload, ok := entry.Value.(rates.Payload)
	require.True(t, ok)
	assert.Len(t, payload, 1)
}

func TestDisk_InitCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", ".forex_cache")

	d := NewDisk(path)
	require.NoError(t, d.Init(context.Background()))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestDisk_InitIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".forex_cache")

	d := NewDisk(path)
	require.NoError(t, d.Init(context.Background()))
	require.NoError(t, d.Init(context.Background()))
}

func TestDisk_ResetClearsEntriesButStaysUsable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".forex_cache")

	d := NewDisk(path)
	require.NoError(t, d.Init(context.Background()))
	_, err := d.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now())
	require.NoError(t, err)

	require.NoError(t, d.Reset(context.Background()))

	_, found, err := d.Get(context.Background(), KeyLatestRates, time.Hour)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, d.Initialized())

	_, err = d.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now())
	require.NoError(t, err)
}

func TestDisk_DeleteRemovesEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".forex_cache")

	d := NewDisk(path)
	require.NoError(t, d.Init(context.Background()))
	_, err := d.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now())
	require.NoError(t, err)

	require.NoError(t, d.Delete(context.Background(), KeyLatestRates))

	_, found, err := d.Get(context.Background(), KeyLatestRates, time.Hour)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDisk_TTLEvictionRemovesEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".forex_cache")

	d := NewDisk(path)
	require.NoError(t, d.Init(context.Background()))
	_, err := d.Put(context.Background(), KeyLatestRates, fixturePayload(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, found, err := d.Get(context.Background(), KeyLatestRates, time.Minute)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = d.Get(context.Background(), KeyLatestRates, 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, found, "expired entry must be evicted, not just hidden from the expired read")

	_, found, err = d.LastUpdated(context.Background(), KeyLatestRates)
	require.NoError(t, err)
	assert.False(t, found)
}
