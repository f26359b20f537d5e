// Package metrics exposes the prometheus collectors shared by the cache
// and fetcher packages. Retargeted from the teacher's HTTP-layer metrics
// to the fetch/cache domain: this module has no HTTP surface of its own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector this module registers, plus the
// private Registry they are registered against. Each Client builds its
// own Metrics (and so its own Registry) rather than sharing the global
// default registerer, since a process — or a test binary constructing
// many Clients — must be able to build more than one Metrics without
// promauto panicking on a duplicate collector name.
type Metrics struct {
	Registry *prometheus.Registry

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	ResolveDuration  *prometheus.HistogramVec

	FeedFetchTotal    *prometheus.CounterVec
	FeedFetchFailures *prometheus.CounterVec
	FeedFetchDuration *prometheus.HistogramVec

	FetcherState prometheus.Gauge
}

// NewMetrics builds a fresh Registry and registers and returns a fresh
// Metrics against it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forex_cache_hits_total",
				Help: "Total number of cache reads served without a resolver call",
			},
			[]string{"key"},
		),

		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forex_cache_misses_total",
				Help: "Total number of cache reads that required a resolver call",
			},
			[]string{"key"},
		),

		ResolveDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forex_cache_resolve_duration_seconds",
				Help:    "Time spent inside Cache.Resolve, including any resolver call",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"key"},
		),

		FeedFetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forex_feed_fetch_total",
				Help: "Total number of feed fetch attempts",
			},
			[]string{"kind"},
		),

		FeedFetchFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forex_feed_fetch_failures_total",
				Help: "Total number of feed fetch attempts that failed",
			},
			[]string{"kind"},
		),

		FeedFetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forex_feed_fetch_duration_seconds",
				Help:    "Time spent fetching and parsing a feed",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		FetcherState: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "forex_fetcher_state",
				Help: "Current fetcher lifecycle state (0=not_started 1=running 2=stopped 3=deleted)",
			},
		),
	}
}
