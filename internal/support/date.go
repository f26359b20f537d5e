package support

import (
	"fmt"
	"time"

	"github.com/greven/forex/internal/xerrors"
)

// ErrBadDate is returned by ParseDate and DateFromParts when the input
// is not a valid calendar date. It wraps xerrors.Date.
var ErrBadDate = fmt.Errorf("%w: not a valid calendar date", xerrors.Date)

// ParseDate accepts an ISO calendar date ("2006-01-02") or an RFC 3339
// datetime, including one with a trailing "Z" ("2006-01-02T15:04:05Z"),
// per spec.md section 8 ("Date parsing accepts ISO YYYY-MM-DD, ISO
// datetime with Z"). Impossible dates (Feb 31, month 13, ...) are
// rejected because time.Parse already validates calendar ranges for
// these layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// DateFromParts builds a date from a {year, month, day} tuple, rejecting
// impossible dates (spec.md section 8).
func DateFromParts(year, month, day int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrBadDate, year, month, day)
	}
	return t, nil
}

// FormatDate renders a date-only value as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
