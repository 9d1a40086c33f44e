//go:build linux

package top

import "github.com/ja7ad/ptop/pkg/system/util"

const (
	// minSinceStartElapsed is the youngest process age a since-start rate is
	// computed for; anything younger reads 0 instead of blowing up the division.
	minSinceStartElapsed = 0.1 // seconds

	// minDeltaElapsed floors the wall-clock window in delta mode.
	minDeltaElapsed = 1e-3 // seconds
)

// SinceStartPercent derives CPU% over the process's whole lifetime:
// cumulative ticks against wall time since the process started.
// Gives the stable one-shot answer.
func SinceStartPercent(totalTicks, startTicks uint64, uptime float64, hz int) float64 {
	if hz <= 0 {
		return 0
	}
	elapsed := uptime - float64(startTicks)/float64(hz)
	if elapsed <= minSinceStartElapsed {
		// process just started; no meaningful rate yet
		return 0
	}
	cpuSec := float64(totalTicks) / float64(hz)
	return util.ClampPercent(100 * util.SafeDiv(cpuSec, elapsed))
}

// DeltaPercent derives CPU% over the most recent sampling window: tick delta
// against wall time since the previous cycle's sample. An unseen prior
// identity passes priorTicks 0. Negative deltas (counter anomalies, identity
// reuse) clamp to zero rather than propagate.
func DeltaPercent(totalTicks, priorTicks uint64, elapsed float64, hz int) float64 {
	if hz <= 0 {
		return 0
	}
	if elapsed < minDeltaElapsed {
		elapsed = minDeltaElapsed
	}
	d := util.DeltaU64(totalTicks, priorTicks)
	cpuSec := float64(d) / float64(hz)
	return util.ClampPercent(100 * cpuSec / elapsed)
}
