// Package supervisor owns a single Fetcher child and enforces its
// lifecycle state machine (spec.md section 4.6), the way an Erlang/OTP
// supervisor owns a child process — rendered here as a mutex-guarded
// struct rather than a separate process, since Go has no process
// boundary to model it with.
package supervisor

import (
	"context"
	"sync"

	"github.com/greven/forex/internal/cache"
	"github.com/greven/forex/internal/fetcher"
	"github.com/greven/forex/internal/metrics"
	"github.com/greven/forex/internal/rates"
)

// Options configures the supervised fetcher (spec.md section 4.6:
// auto_start). FetcherOpts is not read by the Supervisor: every Fetcher
// is built by the newFetcher function passed to New.
type Options struct {
	AutoStart   bool
	FetcherOpts fetcher.Options
	Metrics     *metrics.Metrics
}

// Supervisor holds one Fetcher and serializes every lifecycle
// transition against it.
type Supervisor struct {
	mu      sync.Mutex
	f       *fetcher.Fetcher
	state   fetcher.State
	newFunc func() *fetcher.Fetcher
	metrics *metrics.Metrics
}

// New builds a Supervisor around a Fetcher constructed by newFetcher
// (deferred so a fresh Fetcher, with a fresh internal loop, can be built
// on every start/restart). If opts.AutoStart, the fetcher is started
// immediately.
func New(newFetcher func() *fetcher.Fetcher, opts Options) (*Supervisor, error) {
	s := &Supervisor{newFunc: newFetcher, state: fetcher.StateNotStarted, metrics: opts.Metrics}
	s.observeState()
	if opts.AutoStart {
		if err := s.StartFetcher(context.Background()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// observeState publishes the current lifecycle state to the
// forex_fetcher_state gauge, if metrics were configured. Callers must
// hold s.mu or call this only from a context where state cannot race
// (New, or immediately after assigning s.state under the lock).
func (s *Supervisor) observeState() {
	if s.metrics != nil {
		s.metrics.FetcherState.Set(float64(s.state))
	}
}

// StartFetcher transitions not_started or stopped to running. Calling
// it while already running returns ErrAlreadyStarted (spec.md section
// 4.4: "Starting when running yields {error, already_started}").
func (s *Supervisor) StartFetcher(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanStart() {
		return fetcher.ErrAlreadyStarted
	}
	if s.f == nil || s.state == fetcher.StateStopped {
		s.f = s.newFunc()
	}
	if err := s.f.Start(ctx); err != nil {
		return err
	}
	s.state = fetcher.StateRunning
	s.observeState()
	return nil
}

// StopFetcher transitions running to stopped.
func (s *Supervisor) StopFetcher(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanStop() {
		return fetcher.ErrNotRunning
	}
	if err := s.f.Stop(ctx); err != nil {
		return err
	}
	s.state = fetcher.StateStopped
	s.observeState()
	return nil
}

// RestartFetcher transitions stopped back to running via a freshly
// built Fetcher (a stopped Fetcher's cache has been terminated).
func (s *Supervisor) RestartFetcher(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanRestart() {
		return fetcher.ErrNotRunning
	}
	s.f = s.newFunc()
	if err := s.f.Start(ctx); err != nil {
		return err
	}
	s.state = fetcher.StateRunning
	s.observeState()
	return nil
}

// DeleteFetcher transitions stopped back to not_started, dropping the
// Fetcher instance entirely.
func (s *Supervisor) DeleteFetcher() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanDelete() {
		return fetcher.ErrNotRunning
	}
	s.f = nil
	s.state = fetcher.StateNotStarted
	s.observeState()
	return nil
}

// FetcherStatus reports the current lifecycle state.
func (s *Supervisor) FetcherStatus() fetcher.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetcherInitiated reports whether the fetcher has ever been started
// (i.e. is not in its initial not_started state).
func (s *Supervisor) FetcherInitiated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != fetcher.StateNotStarted
}

// FetcherRunning reports whether the fetcher is currently running.
func (s *Supervisor) FetcherRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == fetcher.StateRunning
}

// Get serves a synchronous read through the supervised fetcher,
// regardless of lifecycle state (a stopped or not-yet-started fetcher
// has no background loop, but Get never needed the loop to begin with).
// If no Fetcher has been built yet, one is lazily built and kept for
// reuse by later calls, including a later StartFetcher.
func (s *Supervisor) Get(ctx context.Context, key cache.Key) (rates.Payload, error) {
	s.mu.Lock()
	if s.f == nil {
		s.f = s.newFunc()
	}
	f := s.f
	s.mu.Unlock()

	return f.Get(ctx, key)
}

// GetBypassingCache serves a synchronous read that always goes straight
// to the feed (or a configured feed_fn_override), ignoring the cache
// entirely regardless of the supervised Fetcher's own use_cache setting.
// It lazily builds a Fetcher the same way Get does.
func (s *Supervisor) GetBypassingCache(ctx context.Context, key cache.Key) (rates.Payload, error) {
	s.mu.Lock()
	if s.f == nil {
		s.f = s.newFunc()
	}
	f := s.f
	s.mu.Unlock()

	return f.GetBypassingCache(ctx, key)
}

// Stop stops the fetcher if it is running and records it as stopped;
// otherwise it does nothing (spec.md section 4.6's bare "stop()"
// operation, used at process shutdown).
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	running := s.state == fetcher.StateRunning
	f := s.f
	s.mu.Unlock()

	if !running || f == nil {
		return nil
	}
	if err := f.Stop(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = fetcher.StateStopped
	s.observeState()
	s.mu.Unlock()
	return nil
}
