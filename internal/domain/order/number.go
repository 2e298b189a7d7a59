package order

import (
	"fmt"
	"time"
)

// Order number sequence bounds. The per-year counter starts at CounterStart
// and wraps back to it after CounterEnd.
const (
	CounterStart = 11111
	CounterEnd   = 99999

	numberPrefix = "MOM"
)

// NumberCounter is the per-year order number sequence row. Reservation must
// be a single atomic database operation, never a read-then-write pair.
type NumberCounter struct {
	Year    int
	Counter int
}

// NextCounter returns the counter value following cur, wrapping from
// CounterEnd back to CounterStart.
func NextCounter(cur int) int {
	if cur >= CounterEnd {
		return CounterStart
	}
	return cur + 1
}

// FormatNumber renders an order number of the form MOM<YY><5-digit-seq>.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s%02d%05d", numberPrefix, year%100, seq)
}

// FallbackNumber produces a timestamp-suffixed order number for the degraded
// path when the atomic reservation fails. Uniqueness is then only
// probabilistic; callers must log the degradation, not treat it as success.
func FallbackNumber(now time.Time) string {
	return fmt.Sprintf("%s%02d%05d", numberPrefix, now.Year()%100, now.UnixNano()%100000)
}
