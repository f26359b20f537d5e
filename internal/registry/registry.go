// Package registry holds the compile-time constant table of currencies
// the module understands, mirroring spec.md section 4.1. The table is a
// process-wide, read-only map: no synchronization is needed to read it
// (spec.md section 5, "Shared resources").
package registry

import (
	"fmt"

	"github.com/greven/forex/internal/support"
)

// Currency describes one entry of the registry (spec.md section 3).
type Currency struct {
	Name        string
	ISOAlpha    string
	ISONumeric  string
	Symbol      string
	Subunit     float64
	SubunitName string
	AltNames    []string
	AltSymbols  []string
	Enabled     bool
}

// Registry is a read-only, process-wide table of Currency entries keyed
// by upper-case ISO alpha code.
type Registry struct {
	byCode map[string]Currency
}

// Default is the single process-wide registry instance, built once at
// package init from the constant table below.
var Default = New(table)

// New builds a Registry from a slice of Currency entries. Exported
// primarily so tests can build a scoped registry without touching the
// process-wide Default.
func New(entries []Currency) *Registry {
	byCode := make(map[string]Currency, len(entries))
	for _, c := range entries {
		byCode[c.ISOAlpha] = c
	}
	return &Registry{byCode: byCode}
}

// Get looks up a currency by ISO alpha code or any of its alt names or
// alt symbols, case-insensitively.
func (r *Registry) Get(code string) (Currency, bool) {
	norm := support.NormalizeCode(code)
	if c, ok := r.byCode[norm]; ok {
		return c, true
	}
	for _, c := range r.byCode {
		for _, alt := range c.AltNames {
			if support.NormalizeCode(alt) == norm {
				return c, true
			}
		}
		for _, alt := range c.AltSymbols {
			if support.NormalizeCode(alt) == norm {
				return c, true
			}
		}
	}
	return Currency{}, false
}

// MustGet is Get's throwing variant (spec.md section 7, the "!" family).
func (r *Registry) MustGet(code string) Currency {
	c, ok := r.Get(code)
	if !ok {
		panic(fmt.Sprintf("forex: unknown currency code %q", code))
	}
	return c
}

// Exists reports whether code names a known currency.
func (r *Registry) Exists(code string) bool {
	_, ok := r.Get(code)
	return ok
}

// All returns every registered currency keyed per the requested KeyStyle.
func (r *Registry) All(keys support.KeyStyle) map[string]Currency {
	return r.filter(keys, func(Currency) bool { return true })
}

// Available returns only currencies with Enabled = true (present in the
// "latest" feed).
func (r *Registry) Available(keys support.KeyStyle) map[string]Currency {
	return r.filter(keys, func(c Currency) bool { return c.Enabled })
}

// Disabled returns only currencies with Enabled = false (historic-only,
// or suspended).
func (r *Registry) Disabled(keys support.KeyStyle) map[string]Currency {
	return r.filter(keys, func(c Currency) bool { return !c.Enabled })
}

func (r *Registry) filter(keys support.KeyStyle, keep func(Currency) bool) map[string]Currency {
	out := make(map[string]Currency, len(r.byCode))
	for code, c := range r.byCode {
		if keep(c) {
			out[support.RenderKey(code, keys)] = c
		}
	}
	return out
}
