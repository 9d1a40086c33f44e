//go:build linux

package util

import "math"

func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	// counter wrapped or prev unset
	return 0
}

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// ClampPercent forces a percentage into [0,100]. Measurement jitter and
// multi-threaded tick accounting can push raw values outside the range.
func ClampPercent(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	// guard against NaN
	if math.IsNaN(x) {
		return 0
	}
	return x
}
