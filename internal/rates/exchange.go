package rates

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/greven/forex/internal/registry"
	"github.com/greven/forex/internal/support"
	"github.com/greven/forex/internal/xerrors"
)

// ExchangeOptions controls rounding/formatting of an Exchange result.
type ExchangeOptions struct {
	Round  *int
	Format OutputFormat
}

// Exchange converts amount from one currency to another using the rates
// in s, per spec.md section 4.5. EUR is synthesized to 1 if absent.
func Exchange(s Set, amount decimal.Decimal, from, to string, reg *registry.Registry, opts ExchangeOptions) (any, error) {
	normFrom := support.NormalizeCode(from)
	normTo := support.NormalizeCode(to)

	if normFrom == "" || normTo == "" || !reg.Exists(normFrom) || !reg.Exists(normTo) {
		return nil, fmt.Errorf("%w: from=%q to=%q", xerrors.Currency, from, to)
	}

	withEUR := s.Rates
	if _, ok := withEUR[EUR]; !ok {
		withEUR = make(map[string]decimal.Decimal, len(s.Rates)+1)
		for k, v := range s.Rates {
			withEUR[k] = v
		}
		withEUR[EUR] = decimal.NewFromInt(1)
	}

	rFrom, ok := withEUR[normFrom]
	if !ok {
		return nil, fmt.Errorf("%w: rate not found for %s", xerrors.Currency, from)
	}
	rTo, ok := withEUR[normTo]
	if !ok {
		return nil, fmt.Errorf("%w: rate not found for %s", xerrors.Currency, to)
	}

	var result decimal.Decimal
	if rFrom.IsZero() {
		return nil, fmt.Errorf("%w: zero rate for %s", xerrors.InvalidExchange, from)
	}
	result = amount.Mul(rTo.Div(rFrom))

	return Format(result, opts.Round, opts.Format)
}

// ParseAmount coerces a dynamically typed amount argument (as the
// public API accepts from callers embedding numbers, decimal.Decimal
// values, or numeric strings, mirroring the source's dynamic amount
// argument) into a decimal.Decimal, per spec.md section 4.5's "Invalid
// amount shape" rule:
//   - a number, a decimal.Decimal, or a numeric string succeeds.
//   - a string that does not parse as a number is a format error.
//   - nil, a slice, or a map is a structurally invalid exchange
//     argument (ErrInvalidExchange), distinct from a merely
//     malformed numeric string.
//   - any other unrecognized shape is a format error.
func ParseAmount(amount any) (decimal.Decimal, error) {
	switch v := amount.(type) {
	case nil:
		return decimal.Decimal{}, fmt.Errorf("%w: amount is nil", xerrors.InvalidExchange)
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return decimal.NewFromFloat(float64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q is not a numeric string", xerrors.Format, v)
		}
		return d, nil
	default:
		rv := reflect.ValueOf(amount)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return decimal.Decimal{}, fmt.Errorf("%w: amount has an unsupported composite shape", xerrors.InvalidExchange)
		}
		return decimal.Decimal{}, fmt.Errorf("%w: amount has an unsupported shape %T", xerrors.Format, amount)
	}
}
