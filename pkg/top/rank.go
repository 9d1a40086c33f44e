//go:build linux

package top

import (
	"container/heap"
	"sort"
)

// rankBefore reports whether a outranks b under the chosen field: descending
// by the field's value, ties broken by ascending pid then tid so output is
// deterministic for any input permutation.
func rankBefore(a, b Sample, f SortField) bool {
	switch f {
	case SortMemory:
		if a.RSS != b.RSS {
			return a.RSS > b.RSS
		}
	case SortPID:
		if a.PID != b.PID {
			return a.PID > b.PID
		}
	case SortCommand:
		if a.Command != b.Command {
			return a.Command > b.Command
		}
	case SortCPUTime:
		if a.CPUTime != b.CPUTime {
			return a.CPUTime > b.CPUTime
		}
	default: // SortCPU
		if a.CPUPercent != b.CPUPercent {
			return a.CPUPercent > b.CPUPercent
		}
	}
	if a.PID != b.PID {
		return a.PID < b.PID
	}
	return a.TID < b.TID
}

// bottomHeap is a min-heap under rankBefore: the weakest kept row sits at the
// root, ready to be displaced by a stronger candidate.
type bottomHeap struct {
	rows  []Sample
	field SortField
}

func (h *bottomHeap) Len() int           { return len(h.rows) }
func (h *bottomHeap) Less(i, j int) bool { return rankBefore(h.rows[j], h.rows[i], h.field) }
func (h *bottomHeap) Swap(i, j int)      { h.rows[i], h.rows[j] = h.rows[j], h.rows[i] }
func (h *bottomHeap) Push(x any)         { h.rows = append(h.rows, x.(Sample)) }

func (h *bottomHeap) Pop() any {
	n := len(h.rows)
	x := h.rows[n-1]
	h.rows = h.rows[:n-1]
	return x
}

// TopN selects and orders the best n rows under the chosen field. For n well
// below the row count a bounded heap avoids the full sort; the output is
// identical to sorting everything and truncating, tie-breaks included.
func TopN(rows []Sample, field SortField, n int) []Sample {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	if n >= len(rows) {
		out := make([]Sample, len(rows))
		copy(out, rows)
		sort.Slice(out, func(i, j int) bool { return rankBefore(out[i], out[j], field) })
		return out
	}

	h := &bottomHeap{rows: make([]Sample, 0, n), field: field}
	for _, r := range rows {
		if h.Len() < n {
			heap.Push(h, r)
			continue
		}
		if rankBefore(r, h.rows[0], field) {
			h.rows[0] = r
			heap.Fix(h, 0)
		}
	}
	out := h.rows
	sort.Slice(out, func(i, j int) bool { return rankBefore(out[i], out[j], field) })
	return out
}
