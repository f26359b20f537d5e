// Package support holds small normalization helpers shared across the
// registry, cache, and rates packages: currency-code casing, decimal
// formatting, and date parsing.
package support

import "strings"

// NormalizeCode upper-cases and trims an ISO alpha currency code so that
// registry and rate-set lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// KeyStyle selects how map keys are rendered back to a caller: lower-case
// symbols or upper-case strings. It stands in for the source project's
// atom-vs-string map-key distinction (spec.md section 9).
type KeyStyle int

const (
	// KeysUpper renders map keys as upper-case ISO alpha strings (the
	// default — e.g. "USD").
	KeysUpper KeyStyle = iota
	// KeysLower renders map keys as lower-case strings (e.g. "usd").
	KeysLower
)

// RenderKey applies a KeyStyle to an already-normalized ISO alpha code.
func RenderKey(code string, style KeyStyle) string {
	if style == KeysLower {
		return strings.ToLower(code)
	}
	return code
}
