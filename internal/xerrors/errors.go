// Package xerrors defines the module's error taxonomy (spec.md section
// 7) as a small set of sentinel values. Internal packages wrap these with
// fmt.Errorf("%w: ...") rather than returning untyped errors; the forex
// package re-exports the same values under public names so callers can
// errors.Is against them without reaching into internal/.
package xerrors

import "errors"

var (
	// Feed is returned when upstream retrieval or parsing failed.
	Feed = errors.New("forex: feed error")

	// Date is returned when an input date string does not parse as an
	// ISO calendar date, or a requested date has no matching entry in a
	// historic set.
	Date = errors.New("forex: date error")

	// Currency is returned when an ISO code is unknown, or an amount
	// conversion names an unknown or empty currency.
	Currency = errors.New("forex: currency error")

	// Format is returned when an amount or a format option has an
	// unsupported shape. This is a programming-error bucket: the safe
	// API returns it as an error, the "!" variants panic with it.
	Format = errors.New("forex: format error")

	// ResolverFailed is returned when a cache resolver returned a
	// non-success outcome; the cache entry is left unwritten.
	ResolverFailed = errors.New("forex: resolver failed")

	// BaseCurrencyNotFound is returned when a rebase target is unknown
	// in the registry.
	BaseCurrencyNotFound = errors.New("forex: base currency not found")

	// InvalidExchange is returned for malformed arguments to the
	// exchange operation.
	InvalidExchange = errors.New("forex: invalid exchange")

	// AlreadyStarted is returned when a fetcher or supervisor start is
	// requested while already running (spec.md section 4.4/4.6).
	AlreadyStarted = errors.New("forex: already started")

	// NotRunning is returned when a stop, restart, or delete is
	// requested from a lifecycle state that does not allow it: stop
	// needs a running fetcher, restart and delete a stopped one.
	NotRunning = errors.New("forex: not running")
)
