package orderbook

import "time"

// Clock returns the current time in nanoseconds.
type Clock func() int64

// monotonicClock anchors the monotonic clock reading at creation time to the
// wall clock, so values look like Unix nanos but never go backwards when the
// wall clock is adjusted.
func monotonicClock() Clock {
	start := time.Now()
	base := start.UnixNano()
	return func() int64 {
		return base + int64(time.Since(start))
	}
}
