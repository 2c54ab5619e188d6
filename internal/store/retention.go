package store

import (
	"math"
	"time"
)

// Retention bounds how many forecasts a store keeps per city and for how long.
// Zero values mean unlimited. The newest forecast of a city is always kept.
type Retention struct {
	MaxHistory int
	MaxAge     time.Duration
}

// cutoff returns the oldest fetch time still retained at now; ok is false when
// age is unlimited.
func (r Retention) cutoff(now time.Time) (t time.Time, ok bool) {
	if r.MaxAge <= 0 {
		return time.Time{}, false
	}
	return now.Add(-r.MaxAge), true
}

var (
	minNanoTime = time.Unix(0, math.MinInt64)
	maxNanoTime = time.Unix(0, math.MaxInt64)
)

// unixNano is t.UnixNano clamped to the int64 range, so bounds such as year 1 or
// year 9999 still order correctly against stored timestamps.
func unixNano(t time.Time) int64 {
	switch {
	case t.Before(minNanoTime):
		return math.MinInt64
	case t.After(maxNanoTime):
		return math.MaxInt64
	default:
		return t.UnixNano()
	}
}
