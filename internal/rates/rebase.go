package rates

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/greven/forex/internal/registry"
	"github.com/greven/forex/internal/support"
	"github.com/greven/forex/internal/xerrors"
)

// Rebase re-expresses a Set against a different base currency, per
// spec.md section 4.5:
//   - base == EUR and the Set is already EUR-based: returned unchanged.
//   - base unknown in the registry: ErrBaseCurrencyNotFound.
//   - base not present in the rate list: returned unchanged (cannot
//     rebase without the base's own EUR quote).
//   - otherwise every entry {C, rC} becomes {C, rC / rBase}, and the
//     base entry itself becomes exactly 1.
//
// Iteration order is irrelevant (Set.Rates is a map); the original
// currency-code capitalization of the input is preserved because the
// keys are not re-normalized here.
func Rebase(s Set, base string, reg *registry.Registry) (Set, error) {
	normBase := support.NormalizeCode(base)
	if normBase == EUR && (s.Base == "" || support.NormalizeCode(s.Base) == EUR) {
		return s, nil
	}
	if !reg.Exists(normBase) {
		return Set{}, fmt.Errorf("%w: %s", xerrors.BaseCurrencyNotFound, base)
	}

	rBase, ok := s.Rates[normBase]
	if !ok {
		return s, nil
	}

	out := Set{
		Date:  s.Date,
		Base:  normBase,
		Rates: make(map[string]decimal.Decimal, len(s.Rates)),
	}
	for code, rate := range s.Rates {
		if code == normBase {
			out.Rates[code] = decimal.NewFromInt(1)
			continue
		}
		out.Rates[code] = rate.Div(rBase)
	}
	return out, nil
}

// FilterSymbols restricts a Set's rates to the given set of currency
// codes, applied before rebasing so rebasing can still reference a base
// that was explicitly included (spec.md section 4.5, "Symbol filtering").
// A nil or empty symbols list is a no-op.
func FilterSymbols(s Set, symbols []string) Set {
	if len(symbols) == 0 {
		return s
	}
	want := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		want[support.NormalizeCode(sym)] = struct{}{}
	}

	out := Set{
		Date:  s.Date,
		Base:  s.Base,
		Rates: make(map[string]decimal.Decimal, len(want)),
	}
	for code, rate := range s.Rates {
		if _, ok := want[code]; ok {
			out.Rates[code] = rate
		}
	}
	return out
}
