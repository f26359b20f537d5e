package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greven/forex/internal/registry"
)

func fixtureSet() Set {
	// Fixture values from the 2024-11-08 ECB feed (spec.md section 8).
	return NewSet(mustDate("2024-11-08"), []Entry{
		{Currency: "USD", Rate: decimal.NewFromFloat(1.0772)},
		{Currency: "GBP", Rate: decimal.NewFromFloat(0.83188)},
		{Currency: "JPY", Rate: decimal.NewFromFloat(164.18)},
	})
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func round(n int) *int { return &n }

func TestRebase_EURIsNoOp(t *testing.T) {
	s := fixtureSet()
	out, err := Rebase(s, "EUR", registry.Default)
	require.NoError(t, err)
	assert.Equal(t, s.Rates, out.Rates)
}

func TestRebase_UnknownBaseCurrency(t *testing.T) {
	s := fixtureSet()
	_, err := Rebase(s, "ZZZ", registry.Default)
	require.Error(t, err)
}

func TestRebase_BaseNotInSetIsNoOp(t *testing.T) {
	s := fixtureSet()
	// AUD exists in the registry but not in this fixture's rate list.
	out, err := Rebase(s, "AUD", registry.Default)
	require.NoError(t, err)
	assert.Equal(t, s.Rates, out.Rates)
}

func TestRebase_ToUSD(t *testing.T) {
	s := fixtureSet()
	out, err := Rebase(s, "USD", registry.Default)
	require.NoError(t, err)

	one, _ := out.Rates["USD"].Round(5).Float64()
	assert.Equal(t, 1.0, one)

	eur := out.Rates["EUR"]
	expectedEUR := decimal.NewFromInt(1).Div(decimal.NewFromFloat(1.0772))
	assert.True(t, eur.Sub(expectedEUR).Abs().LessThan(decimal.NewFromFloat(0.00001)))
}

func TestRebase_RoundTrip(t *testing.T) {
	s := fixtureSet()
	rebased, err := Rebase(s, "GBP", registry.Default)
	require.NoError(t, err)

	back, err := Rebase(rebased, "EUR", registry.Default)
	require.NoError(t, err)
	require.NoError(t, err)

	for code, original := range s.Rates {
		got := back.Rates[code]
		diff := original.Sub(got).Abs()
		assert.Truef(t, diff.LessThan(decimal.NewFromFloat(1e-15)), "round-trip drift for %s: %s vs %s", code, original, got)
	}
}

func TestFilterSymbols(t *testing.T) {
	s := fixtureSet()
	out := FilterSymbols(s, []string{"usd", "gbp"})
	assert.Len(t, out.Rates, 2)
	_, ok := out.Rates["USD"]
	assert.True(t, ok)
	_, ok = out.Rates["JPY"]
	assert.False(t, ok)
}

func TestFilterSymbols_EmptyIsNoOp(t *testing.T) {
	s := fixtureSet()
	out := FilterSymbols(s, nil)
	assert.Equal(t, s.Rates, out.Rates)
}

func TestExchange_GBPToEUR(t *testing.T) {
	s := fixtureSet()
	result, err := Exchange(s, decimal.NewFromInt(1), "GBP", "EUR", registry.Default, ExchangeOptions{Round: round(5), Format: FormatDecimal})
	require.NoError(t, err)

	d := result.(decimal.Decimal)
	f, _ := d.Float64()
	assert.InDelta(t, 1.20210, f, 0.0001)
}

func TestExchange_ZeroAmount(t *testing.T) {
	s := fixtureSet()
	result, err := Exchange(s, decimal.NewFromInt(0), "USD", "GBP", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.NoError(t, err)
	assert.True(t, result.(decimal.Decimal).IsZero())
}

func TestExchange_NegativeIsNegationOfPositive(t *testing.T) {
	s := fixtureSet()
	pos, err := Exchange(s, decimal.NewFromInt(5), "USD", "GBP", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.NoError(t, err)
	neg, err := Exchange(s, decimal.NewFromInt(-5), "USD", "GBP", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.NoError(t, err)

	assert.True(t, pos.(decimal.Decimal).Neg().Equal(neg.(decimal.Decimal)))
}

func TestExchange_SameCurrencyIsIdentity(t *testing.T) {
	s := fixtureSet()
	result, err := Exchange(s, decimal.NewFromInt(42), "EUR", "EUR", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.NoError(t, err)
	assert.True(t, result.(decimal.Decimal).Equal(decimal.NewFromInt(42)))
}

func TestExchange_UnknownCurrencyIsCurrencyError(t *testing.T) {
	s := fixtureSet()
	_, err := Exchange(s, decimal.NewFromInt(1), "ZZZ", "EUR", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.Error(t, err)
}

func TestExchange_Symmetry(t *testing.T) {
	s := fixtureSet()
	aToB, err := Exchange(s, decimal.NewFromInt(1), "GBP", "USD", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.NoError(t, err)
	bToA, err := Exchange(s, decimal.NewFromInt(1), "USD", "GBP", registry.Default, ExchangeOptions{Format: FormatDecimal})
	require.NoError(t, err)

	product := aToB.(decimal.Decimal).Mul(bToA.(decimal.Decimal))
	diff := product.Sub(decimal.NewFromInt(1)).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(1e-10)))
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name    string
		in      any
		wantErr bool
	}{
		{"int", 5, false},
		{"float64", 5.5, false},
		{"decimal", decimal.NewFromInt(1), false},
		{"numeric string", "12.50", false},
		{"bad string", "not-a-number", true},
		{"nil", nil, true},
		{"slice", []int{1, 2}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAmount(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLastNinetyDaysRounding(t *testing.T) {
	s := fixtureSet()
	got, err := Format(s.Rates["JPY"], round(2), FormatString)
	require.NoError(t, err)
	str := got.(string)
	assert.Regexp(t, `^\d+\.\d{2}$`, str)
}
