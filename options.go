package forex

import (
	"time"

	"github.com/greven/forex/internal/cache"
	"github.com/greven/forex/internal/fetcher"
	"github.com/greven/forex/internal/support"
)

// config holds the process-wide options New assembles from Option
// values (spec.md section 6: auto_start, scheduler_interval_ms,
// use_cache, plus where the on-disk cache lives).
type config struct {
	autoStart    bool
	useCache     bool
	interval     time.Duration
	cachePath    string
	logLevel     string
	feedFn       map[cache.Key]fetcher.FeedFunc
}

func defaultConfig() config {
	return config{
		autoStart: true,
		useCache:  true,
		interval:  fetcher.DefaultInterval,
		cachePath: defaultCachePath,
		logLevel:  "info",
	}
}

// defaultCachePath is the on-disk cache's default location (spec.md
// section 6: "<data-dir>/.forex_cache").
const defaultCachePath = ".forex_cache"

// Option configures a Client at construction (spec.md section 6).
type Option func(*config)

// WithAutoStart controls whether New starts the fetcher immediately.
// Default true.
func WithAutoStart(auto bool) Option {
	return func(c *config) { c.autoStart = auto }
}

// WithUseCache controls whether the fetcher reads and writes through
// the cache at all. Default true.
func WithUseCache(use bool) Option {
	return func(c *config) { c.useCache = use }
}

// WithSchedulerInterval overrides the fetcher's refresh interval.
// Default 12 hours.
func WithSchedulerInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithCachePath overrides the on-disk cache file's path.
func WithCachePath(path string) Option {
	return func(c *config) { c.cachePath = path }
}

// WithLogLevel sets the structured logger's level ("debug", "info",
// "warn", "error").
func WithLogLevel(level string) Option {
	return func(c *config) { c.logLevel = level }
}

// WithFeedFn overrides the feed resolver used for key, bypassing the
// default HTTP+XML dispatch. Intended for tests (spec.md section 4.4
// "feed_fn_override... enables tests to inject error or fixture
// producers").
func WithFeedFn(key cache.Key, fn fetcher.FeedFunc) Option {
	return func(c *config) {
		if c.feedFn == nil {
			c.feedFn = make(map[cache.Key]fetcher.FeedFunc)
		}
		c.feedFn[key] = fn
	}
}

// rateOptions holds the per-call options base, round, symbols, keys,
// and use_cache. There is no format option: rates are always returned
// as decimal.Decimal values.
type rateOptions struct {
	base     string
	round    *int
	symbols  []string
	keys     support.KeyStyle
	useCache *bool
}

func defaultRateOptions() rateOptions {
	five := 5
	return rateOptions{base: "EUR", round: &five, keys: support.KeysUpper}
}

// RateOption configures a single rates/exchange call.
type RateOption func(*rateOptions)

// WithBase rebases the returned rate set onto base. Default "EUR".
func WithBase(base string) RateOption {
	return func(o *rateOptions) { o.base = base }
}

// WithRound sets the decimal rounding applied to returned rates.
// Default 5. Pass nil for no rounding.
func WithRound(round *int) RateOption {
	return func(o *rateOptions) { o.round = round }
}

// WithSymbols restricts the returned rate set to the given currency
// codes, applied before rebasing.
func WithSymbols(symbols ...string) RateOption {
	return func(o *rateOptions) { o.symbols = symbols }
}

// WithKeys selects whether the returned rate map's keys are rendered
// upper-case or lower-case.
func WithKeys(style support.KeyStyle) RateOption {
	return func(o *rateOptions) { o.keys = style }
}

// WithCallUseCache overrides the client-level use_cache setting for a
// single call.
func WithCallUseCache(use bool) RateOption {
	return func(o *rateOptions) { o.useCache = &use }
}
