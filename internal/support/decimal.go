package support

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxRound is the highest number of fractional digits a caller may
// request (spec.md section 4.5: "a non-negative integer <= 15").
const MaxRound = 15

// ErrBadRound is returned when a requested rounding precision is out of
// the [0, MaxRound] range.
var ErrBadRound = fmt.Errorf("forex: round must be between 0 and %d", MaxRound)

// Round applies the caller-requested rounding precision. A nil round
// means "no rounding" per spec.md section 4.5.
func Round(d decimal.Decimal, round *int) (decimal.Decimal, error) {
	if round == nil {
		return d, nil
	}
	if *round < 0 || *round > MaxRound {
		return decimal.Decimal{}, fmt.Errorf("%w: got %d", ErrBadRound, *round)
	}
	return d.Round(int32(*round)), nil
}

// init raises shopspring/decimal's division precision well above the
// spec's 20-significant-digit floor (spec.md section 4.5 and section 9:
// "Division precision must be high enough to make double-rebase
// round-trip stable at the advertised round"). 34 digits mirrors
// IEEE 754-2008 decimal128 and leaves ample headroom after rounding to
// MaxRound places.
func init() {
	decimal.DivisionPrecision = 34
}
