package shared

import "time"

// Clock abstracts wall-clock access so time-driven behavior can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}
