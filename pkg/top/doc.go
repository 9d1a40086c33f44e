// Package top is the sampling-and-derivation engine behind ptop: it walks a
// procfs tree, derives CPU%, memory, and command info per process (optionally
// per thread), and selects the top-N rows under a pluggable sort key.
//
// Overview
//
//   - Engine: owns one run's state. Engine.Sample performs a full pass:
//     enumerate pids (capped), gate each path through the validator, parse
//     records, derive rates, rank. Rows are immutable once built; only the
//     raw counters persist across cycles, inside History.
//
//   - Rates: SinceStartPercent answers "what fraction of its lifetime has
//     this process spent on CPU" and serves one-shot runs; DeltaPercent
//     answers "how busy was it during the last window" and serves watch
//     mode. The first pass of a run has no baseline and uses since-start;
//     later passes use deltas. Threads follow the mode of the enclosing
//     pass. Results are always clamped to [0,100].
//
//   - History: bounded LRU of identity → last counters + timestamp, the
//     delta baseline. Entries not re-observed for a few intervals are
//     evicted (a missing process has exited; its baseline must not survive
//     pid reuse). A second, one-second-TTL cache holds derived rows so
//     repeated lookups inside one slow scan skip re-parsing.
//
//   - Ranking: TopN keeps a bounded heap when n is small relative to the row
//     count, but its output is defined to be exactly sort-then-truncate,
//     tie-broken by ascending pid. The equivalence is property-tested.
//
// The engine is single-threaded by design; one pass is a sequential walk.
// History is nonetheless mutex-guarded so a parallel per-pid fan-out remains
// a safe future change (ordering before ranking is irrelevant, TopN re-sorts).
//
// Cancellation is cooperative: Sample checks its context between entities and
// lets in-flight reads finish; they are fast bounded local reads.
//
// Package import path: github.com/ja7ad/ptop/pkg/top
package top
