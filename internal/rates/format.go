package rates

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/greven/forex/internal/support"
	"github.com/greven/forex/internal/xerrors"
)

// OutputFormat selects how a formatted decimal is rendered back to a
// caller (spec.md section 4.5).
type OutputFormat int

const (
	// FormatDecimal emits the decimal.Decimal itself.
	FormatDecimal OutputFormat = iota
	// FormatString emits the decimal's canonical decimal string.
	FormatString
)

// Format applies rounding then renders d per format. An unknown format
// value is a programming error: it returns ErrFormat rather than
// panicking, since the non-"!" API path must stay safe even here
// (callers that want the throwing behavior wrap this with a panic at
// the public API boundary).
func Format(d decimal.Decimal, round *int, format OutputFormat) (any, error) {
	rounded, err := support.Round(d, round)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", xerrors.Format, err)
	}

	switch format {
	case FormatDecimal:
		return rounded, nil
	case FormatString:
		return rounded.String(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %v", xerrors.Format, format)
	}
}
