package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextCounter(t *testing.T) {
	assert.Equal(t, 11112, NextCounter(11111))
	assert.Equal(t, 99999, NextCounter(99998))
}

func TestNextCounter_WrapsAround(t *testing.T) {
	// 99999 wraps back to 11111, never 100000
	assert.Equal(t, CounterStart, NextCounter(CounterEnd))
	assert.Equal(t, CounterStart, NextCounter(CounterEnd+5))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "MOM2611111", FormatNumber(2026, 11111))
	assert.Equal(t, "MOM0499999", FormatNumber(2104, 99999))
}

func TestFallbackNumber(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	n := FallbackNumber(now)
	assert.Len(t, n, 10)
	assert.Equal(t, "MOM26", n[:5])
}
