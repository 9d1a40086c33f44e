//go:build linux

package proc

import (
	"strconv"
	"strings"
)

// Zombie is the stat state code of a process that has exited but whose exit
// status has not been collected by its parent.
const Zombie = 'Z'

// StatRecord is one parsed <pid>/stat (or <pid>/task/<tid>/stat) record.
// Counters are cumulative jiffies, monotonic over the entity's lifetime.
type StatRecord struct {
	PID        int
	Comm       string // short name, arbitrary bytes, not sanitized here
	State      byte
	PPID       int
	UTime      uint64 // user-mode ticks
	STime      uint64 // kernel-mode ticks
	CUTime     uint64 // waited-for children, user-mode
	CSTime     uint64 // waited-for children, kernel-mode
	StartTicks uint64 // start time, ticks since boot
}

// TotalTicks is the CPU time this entity itself consumed.
func (r StatRecord) TotalTicks() uint64 { return r.UTime + r.STime }

// ReadStat parses a process stat record. A vanished or malformed record
// yields an error the caller should treat as "skip this entity": processes
// legitimately exit between directory listing and file read.
func (fs *FS) ReadStat(pid int) (StatRecord, error) {
	return fs.readStatPath(fs.StatPath(pid, 0))
}

// ReadTaskStat parses a thread's own stat record.
func (fs *FS) ReadTaskStat(pid, tid int) (StatRecord, error) {
	return fs.readStatPath(fs.StatPath(pid, tid))
}

func (fs *FS) readStatPath(path string) (StatRecord, error) {
	b, err := fs.readFile(path)
	if err != nil {
		return StatRecord{}, err
	}
	return parseStat(string(b))
}

// parseStat tokenizes one stat line. The comm field is parenthesized and may
// itself contain spaces and parentheses, so the name is delimited by the LAST
// ')' in the line, never the first.
//
// Field positions (1-based, per proc(5)) extracted after comm:
// state (3), ppid (4), utime (14), stime (15), cutime (16), cstime (17),
// starttime (22).
func parseStat(line string) (StatRecord, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return StatRecord{}, ErrNoStat
	}
	l := strings.IndexByte(line, '(')
	r := strings.LastIndexByte(line, ')')
	if l < 0 || r < 0 || r <= l {
		return StatRecord{}, ErrNoStat
	}
	pid, err := strconv.Atoi(strings.TrimSpace(line[:l]))
	if err != nil || pid < 1 || pid > MaxPID {
		return StatRecord{}, ErrNoStat
	}

	rec := StatRecord{PID: pid, Comm: line[l+1 : r]}

	fields := strings.Fields(line[r+1:])
	// starttime is overall field 22; fields[0] is overall field 3
	const minFields = 20
	if len(fields) < minFields {
		return StatRecord{}, ErrShortStat
	}
	field := func(pos int) string { return fields[pos-3] }

	if len(field(3)) == 0 {
		return StatRecord{}, ErrNoStat
	}
	rec.State = field(3)[0]
	rec.PPID, _ = strconv.Atoi(field(4))
	if rec.PPID < 0 {
		rec.PPID = 0
	}
	rec.UTime, _ = strconv.ParseUint(field(14), 10, 64)
	rec.STime, _ = strconv.ParseUint(field(15), 10, 64)
	rec.CUTime, _ = strconv.ParseUint(field(16), 10, 64)
	rec.CSTime, _ = strconv.ParseUint(field(17), 10, 64)
	rec.StartTicks, _ = strconv.ParseUint(field(22), 10, 64)
	return rec, nil
}
