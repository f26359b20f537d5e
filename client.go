// Package forex is the module's public entry point: a self-hosted
// library and background service exposing ECB EUR foreign-exchange
// reference rates to in-process callers (spec.md section 1). It wires
// together the feed orchestrator, the two-backend cache, the supervised
// fetcher, and the decimal rebasing/conversion algorithms behind a
// small Client type, the way the teacher's cmd/server/main.go wires its
// own adapters together — except assembled once, in New, rather than in
// a main function, since this is a library first and a daemon second.
package forex

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/greven/forex/internal/cache"
	"github.com/greven/forex/internal/feed"
	"github.com/greven/forex/internal/fetcher"
	"github.com/greven/forex/internal/metrics"
	"github.com/greven/forex/internal/rates"
	"github.com/greven/forex/internal/registry"
	"github.com/greven/forex/internal/supervisor"
	"github.com/greven/forex/internal/support"
	"github.com/greven/forex/internal/xerrors"
	"github.com/greven/forex/pkg/logger"
)

// Client is the library's front door. Construct one with New and reuse
// it for the lifetime of the process; Close stops its background
// fetcher, which also releases the fetcher's cache.
type Client struct {
	sup      *supervisor.Supervisor
	registry *registry.Registry
	log      *logger.Logger
	metrics  *metrics.Metrics
	cfg      config
}

// New builds a Client, wiring the default HTTP+XML feed adapters, a
// disk-backed cache, and a supervised fetcher. Unless WithAutoStart(false)
// is passed, the fetcher starts immediately (spec.md section 6:
// "auto_start (default true)").
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	log := logger.New(cfg.logLevel)
	m := metrics.NewMetrics()

	orchestrator := feed.NewOrchestrator(feed.NewHTTPClient(feed.BaseURL, 30*time.Second), feed.NewXMLParser())

	newFetcher := func() *fetcher.Fetcher {
		backend := cache.NewDisk(cfg.cachePath)
		c := cache.New(backend, m, log)
		if err := c.Init(context.Background()); err != nil {
			log.Error("failed to initialize cache, falling back to in-memory", "error", err)
			memBackend := cache.NewMemory()
			_ = memBackend.Init(context.Background())
			c = cache.New(memBackend, m, log)
		}
		return fetcher.New(orchestrator, c, fetcher.Options{
			UseCache:       cfg.useCache,
			Interval:       cfg.interval,
			FeedFnOverride: cfg.feedFn,
			Log:            log,
			Metrics:        m,
		})
	}

	sup, err := supervisor.New(newFetcher, supervisor.Options{AutoStart: cfg.autoStart, Metrics: m})
	if err != nil {
		return nil, fmt.Errorf("start fetcher: %w", err)
	}

	return &Client{sup: sup, registry: registry.Default, log: log, metrics: m, cfg: cfg}, nil
}

// Close stops the background fetcher if it is running, which also
// terminates its cache. If the fetcher was never started, Close does
// nothing, and a cache opened by an earlier read stays open.
func (c *Client) Close() error {
	return c.sup.Stop(context.Background())
}

// MetricsRegistry returns the private prometheus.Registry this Client's
// collectors are registered against, for cmd/server to serve over
// /metrics. Each Client has its own registry rather than registering
// against the global default, so building more than one Client in the
// same process never panics on a duplicate collector name.
func (c *Client) MetricsRegistry() *prometheus.Registry {
	return c.metrics.Registry
}

// LatestRates returns today's EUR-denominated rate set, optionally
// rebased, filtered, and rounded per opts.
func (c *Client) LatestRates(ctx context.Context, opts ...RateOption) (rates.Set, error) {
	payload, err := c.get(ctx, cache.KeyLatestRates, opts...)
	if err != nil {
		return rates.Set{}, err
	}
	return c.applyOptions(payload[0], opts...)
}

// MustLatestRates panics on error (spec.md section 7's throwing variant).
func (c *Client) MustLatestRates(ctx context.Context, opts ...RateOption) rates.Set {
	s, err := c.LatestRates(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// LastNinetyDaysRates returns the rolling 90-day rate sets, most-recent
// first, each optionally rebased, filtered, and rounded per opts.
func (c *Client) LastNinetyDaysRates(ctx context.Context, opts ...RateOption) ([]rates.Set, error) {
	payload, err := c.get(ctx, cache.KeyLastNinetyDaysRates, opts...)
	if err != nil {
		return nil, err
	}
	return c.applyOptionsAll(payload, opts...)
}

// MustLastNinetyDaysRates panics on error.
func (c *Client) MustLastNinetyDaysRates(ctx context.Context, opts ...RateOption) []rates.Set {
	s, err := c.LastNinetyDaysRates(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// HistoricRate returns the rate set for exactly one calendar date from
// the full historic feed.
func (c *Client) HistoricRate(ctx context.Context, date time.Time, opts ...RateOption) (rates.Set, error) {
	payload, err := c.get(ctx, cache.KeyHistoricRates, opts...)
	if err != nil {
		return rates.Set{}, err
	}

	target := date.UTC().Truncate(24 * time.Hour)
	for _, set := range payload {
		if set.Date.Equal(target) {
			return c.applyOptions(set, opts...)
		}
	}
	return rates.Set{}, fmt.Errorf("%w: no rates for %s", xerrors.Date, support.FormatDate(target))
}

// MustHistoricRate panics on error.
func (c *Client) MustHistoricRate(ctx context.Context, date time.Time, opts ...RateOption) rates.Set {
	s, err := c.HistoricRate(ctx, date, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// HistoricRatesBetween returns every rate set in [from, to], inclusive,
// most-recent first. An end date before the start date is an ErrDate; a
// range that holds no published day yields an empty slice, not an error.
func (c *Client) HistoricRatesBetween(ctx context.Context, from, to time.Time, opts ...RateOption) ([]rates.Set, error) {
	payload, err := c.get(ctx, cache.KeyHistoricRates, opts...)
	if err != nil {
		return nil, err
	}

	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s before start %s", xerrors.Date, support.FormatDate(to), support.FormatDate(from))
	}

	var matched rates.Payload
	for _, set := range payload {
		if !set.Date.Before(from) && !set.Date.After(to) {
			matched = append(matched, set)
		}
	}
	return c.applyOptionsAll(matched, opts...)
}

// MustHistoricRatesBetween panics on error.
func (c *Client) MustHistoricRatesBetween(ctx context.Context, from, to time.Time, opts ...RateOption) []rates.Set {
	s, err := c.HistoricRatesBetween(ctx, from, to, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Exchange converts amount from currency from to currency to using
// today's latest rate set.
func (c *Client) Exchange(ctx context.Context, amount decimal.Decimal, from, to string, opts ...RateOption) (decimal.Decimal, error) {
	payload, err := c.get(ctx, cache.KeyLatestRates, opts...)
	if err != nil {
		return decimal.Decimal{}, err
	}

	o := defaultRateOptions()
	for _, opt := range opts {
		opt(&o)
	}

	result, err := rates.Exchange(payload[0], amount, from, to, c.registry, rates.ExchangeOptions{
		Round:  o.round,
		Format: rates.FormatDecimal,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return result.(decimal.Decimal), nil
}

// MustExchange panics on error.
func (c *Client) MustExchange(ctx context.Context, amount decimal.Decimal, from, to string, opts ...RateOption) decimal.Decimal {
	d, err := c.Exchange(ctx, amount, from, to, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (c *Client) get(ctx context.Context, key cache.Key, opts ...RateOption) (rates.Payload, error) {
	o := defaultRateOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.useCache != nil && !*o.useCache {
		return c.sup.GetBypassingCache(ctx, key)
	}
	return c.sup.Get(ctx, key)
}

func (c *Client) applyOptions(set rates.Set, opts ...RateOption) (rates.Set, error) {
	o := defaultRateOptions()
	for _, opt := range opts {
		opt(&o)
	}

	set = rates.FilterSymbols(set, o.symbols)
	set, err := rates.Rebase(set, o.base, c.registry)
	if err != nil {
		return rates.Set{}, err
	}

	rounded := make(map[string]decimal.Decimal, len(set.Rates))
	for code, rate := range set.Rates {
		r, err := support.Round(rate, o.round)
		if err != nil {
			return rates.Set{}, err
		}
		rounded[support.RenderKey(code, o.keys)] = r
	}
	set.Rates = rounded
	set.Base = support.RenderKey(set.Base, o.keys)
	return set, nil
}

func (c *Client) applyOptionsAll(payload rates.Payload, opts ...RateOption) ([]rates.Set, error) {
	out := make([]rates.Set, 0, len(payload))
	for _, set := range payload {
		s, err := c.applyOptions(set, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
