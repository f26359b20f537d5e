package forex

import "github.com/greven/forex/internal/xerrors"

// Exported error taxonomy (spec.md section 7), re-exporting the
// internal sentinels so callers outside this module tree can still
// errors.Is against them without reaching into an internal package.
var (
	ErrFeed                 = xerrors.Feed
	ErrDate                 = xerrors.Date
	ErrCurrency             = xerrors.Currency
	ErrFormat               = xerrors.Format
	ErrResolverFailed       = xerrors.ResolverFailed
	ErrBaseCurrencyNotFound = xerrors.BaseCurrencyNotFound
	ErrInvalidExchange      = xerrors.InvalidExchange
	ErrAlreadyStarted       = xerrors.AlreadyStarted
	ErrNotRunning           = xerrors.NotRunning
)
