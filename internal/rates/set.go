// Package rates implements the daily rate set data model and the
// rebasing/conversion algorithms of spec.md section 4.5. All arithmetic
// uses github.com/shopspring/decimal rather than binary floats, per
// spec.md section 9.
package rates

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/greven/forex/internal/support"
)

// EUR is the ISO alpha code the feed always quotes against.
const EUR = "EUR"

// Entry is a single {currency, rate} pair expressed against EUR
// (spec.md section 3: "one EUR equals rate of currency").
type Entry struct {
	Currency string
	Rate     decimal.Decimal
}

// Set is a daily rate set: a date, a base currency, and a mapping from
// ISO alpha code to decimal rate (spec.md section 3).
type Set struct {
	Date  time.Time
	Base  string
	Rates map[string]decimal.Decimal
}

// NewSet builds a Set from a date and a slice of Entry, synthesizing EUR
// at exactly 1 if the upstream feed omitted it (spec.md section 3: "EUR
// is always present in internal rate lists even when the upstream XML
// omits a EUR child").
func NewSet(date time.Time, entries []Entry) Set {
	s := Set{
		Date: date,
		Base: EUR,
		Rates: make(map[string]decimal.Decimal, len(entries)+1),
	}
	for _, e := range entries {
		s.Rates[support.NormalizeCode(e.Currency)] = e.Rate
	}
	if _, ok := s.Rates[EUR]; !ok {
		s.Rates[EUR] = decimal.NewFromInt(1)
	}
	return s
}

// Payload is a non-empty, most-recent-first sequence of daily rate sets
// (spec.md section 3).
type Payload []Set
