package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greven/forex/internal/cache"
	"github.com/greven/forex/internal/feed"
	"github.com/greven/forex/internal/fetcher"
)

type fakeHTTPClient struct{ body []byte }

func (f fakeHTTPClient) Do(ctx context.Context, k feed.Kind) ([]byte, error) { return f.body, nil }

func newTestFetcherFactory() func() *fetcher.Fetcher {
	const xml = `<Envelope><Cube><Cube time="2024-11-08"><Cube currency="USD" rate="1.0772"/></Cube></Cube></Envelope>`
	orchestrator := feed.NewOrchestrator(fakeHTTPClient{body: []byte(xml)}, feed.NewXMLParser())
	return func() *fetcher.Fetcher {
		m := cache.NewMemory()
		m.Init(context.Background())
		c := cache.New(m, nil, nil)
		return fetcher.New(orchestrator, c, fetcher.Options{UseCache: true, Interval: time.Hour})
	}
}

func TestSupervisor_AutoStartTransitionsToRunning(t *testing.T) {
	s, err := New(newTestFetcherFactory(), Options{AutoStart: true})
	require.NoError(t, err)
	assert.True(t, s.FetcherRunning())
	assert.True(t, s.FetcherInitiated())
}

func TestSupervisor_StartWhileRunningIsAlreadyStarted(t *testing.T) {
	s, err := New(newTestFetcherFactory(), Options{AutoStart: true})
	require.NoError(t, err)

	err = s.StartFetcher(context.Background())
	assert.ErrorIs(t, err, fetcher.ErrAlreadyStarted)
}

func TestSupervisor_FullLifecycle(t *testing.T) {
	s, err := New(newTestFetcherFactory(), Options{AutoStart: false})
	require.NoError(t, err)
	assert.Equal(t, fetcher.StateNotStarted, s.FetcherStatus())

	require.NoError(t, s.StartFetcher(context.Background()))
	assert.Equal(t, fetcher.StateRunning, s.FetcherStatus())

	require.NoError(t, s.StopFetcher(context.Background()))
	assert.Equal(t, fetcher.StateStopped, s.FetcherStatus())

	require.NoError(t, s.RestartFetcher(context.Background()))
	assert.Equal(t, fetcher.StateRunning, s.FetcherStatus())

	require.NoError(t, s.StopFetcher(context.Background()))
	require.NoError(t, s.DeleteFetcher())
	assert.Equal(t, fetcher.StateNotStarted, s.FetcherStatus())
}

func TestSupervisor_StopWhileNotRunningErrors(t *testing.T) {
	s, err := New(newTestFetcherFactory(), Options{AutoStart: false})
	require.NoError(t, err)

	err = s.StopFetcher(context.Background())
	assert.ErrorIs(t, err, fetcher.ErrNotRunning)
}

func TestSupervisor_DeleteWhileRunningErrors(t *testing.T) {
	s, err := New(newTestFetcherFactory(), Options{AutoStart: true})
	require.NoError(t, err)

	err = s.DeleteFetcher()
	assert.ErrorIs(t, err, fetcher.ErrNotRunning)
}

func TestSupervisor_GetWorksBeforeStart(t *testing.T) {
	s, err := New(newTestFetcherFactory(), Options{AutoStart: false})
	require.NoError(t, err)

	payload, err := s.Get(context.Background(), cache.KeyLatestRates)
	require.NoError(t, err)
	assert.Len(t, payload, 1)
}
