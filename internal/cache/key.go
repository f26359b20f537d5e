// Package cache implements the module's closed three-key cache contract
// (spec.md section 4.3): a Backend abstraction with two concrete adapters
// (Memory, Disk) and a single-flight read-through wrapper in front of
// either one.
package cache

// Key is the closed set of cache slots the fetcher keeps warm.
type Key int

const (
	// KeyLatestRates holds today's single-day rate set.
	KeyLatestRates Key = iota
	// KeyLastNinetyDaysRates holds the rolling 90-day rate set.
	KeyLastNinetyDaysRates
	// KeyHistoricRates holds the full historic rate set since 1999-01-04.
	KeyHistoricRates
)

// String renders a Key for logging and as the key field of its record
// in the on-disk cache file.
func (k Key) String() string {
	switch k {
	case KeyLatestRates:
		return "latest_rates"
	case KeyLastNinetyDaysRates:
		return "last_ninety_days_rates"
	case KeyHistoricRates:
		return "historic_rates"
	default:
		return "unknown"
	}
}
