//go:build linux

package top

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ja7ad/ptop/pkg/types"
)

// Kind distinguishes process rows from thread rows.
type Kind uint8

const (
	KindProcess Kind = iota
	KindThread
)

func (k Kind) String() string {
	if k == KindThread {
		return "thread"
	}
	return "process"
}

// MarshalJSON emits the kind as its display name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}

// Identity names a process (TID 0) or one of its threads.
type Identity struct {
	PID int
	TID int
}

func (id Identity) String() string {
	if id.TID > 0 {
		return strconv.Itoa(id.PID) + "/" + strconv.Itoa(id.TID)
	}
	return strconv.Itoa(id.PID)
}

// Sample is one process or thread observation, constructed fresh each
// sampling cycle and never mutated afterwards.
type Sample struct {
	PID        int         `json:"pid"`
	TID        int         `json:"tid,omitempty"` // 0 for process rows
	PPID       int         `json:"ppid"`
	State      string      `json:"state"` // single-character code
	Comm       string      `json:"comm"`
	Command    string      `json:"command"`
	CPUPercent float64     `json:"cpu_percent"` // clamped to [0,100]
	RSS        types.Bytes `json:"rss_bytes"`
	CPUTime    float64     `json:"cpu_time_seconds"` // cumulative, non-decreasing
	Kind       Kind        `json:"kind"`
}

// Identity returns the history key for this row.
func (s Sample) Identity() Identity { return Identity{PID: s.PID, TID: s.TID} }

// SortField selects the ranking key for the top-N table.
type SortField int

const (
	SortCPU SortField = iota
	SortMemory
	SortPID
	SortCommand
	SortCPUTime
)

var sortNames = map[SortField]string{
	SortCPU:     "cpu",
	SortMemory:  "mem",
	SortPID:     "pid",
	SortCommand: "command",
	SortCPUTime: "cputime",
}

func (f SortField) String() string {
	if n, ok := sortNames[f]; ok {
		return n
	}
	return "cpu"
}

// ParseSortField accepts the closed field set case-insensitively, with a few
// conventional aliases.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "":
		return SortCPU, nil
	case "mem", "memory", "rss":
		return SortMemory, nil
	case "pid":
		return SortPID, nil
	case "command", "cmd", "comm":
		return SortCommand, nil
	case "cputime", "time":
		return SortCPUTime, nil
	default:
		return SortCPU, fmt.Errorf("top: unknown sort field %q (want cpu, mem, pid, command, or cputime)", s)
	}
}
