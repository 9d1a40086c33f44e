//go:build linux

package proc

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// statusLimit bounds how much of a status record is scanned; VmRSS sits well
// inside the first few KB.
const statusLimit = 64 * 1024

// MemoryKB returns the resident set size of a process in kilobytes, parsed
// from the VmRSS field of the status record, with a statm fallback. Returns 0
// when neither is readable: the row is still produced, just degraded. Both
// records are opened through the validation gate.
func (fs *FS) MemoryKB(pid int) uint64 {
	if f, err := fs.open(filepath.Join(fs.pidDir(pid), "status")); err == nil {
		defer f.Close()
		sc := bufio.NewScanner(io.LimitReader(f, statusLimit))
		for sc.Scan() {
			if !strings.HasPrefix(sc.Text(), "VmRSS:") {
				continue
			}
			fields := strings.Fields(sc.Text())
			if len(fields) >= 2 {
				kb, _ := strconv.ParseUint(fields[1], 10, 64)
				return kb
			}
			break
		}
	}
	// statm field 2 × page size; kernel threads have no status VmRSS line
	if b, err := fs.readFile(filepath.Join(fs.pidDir(pid), "statm")); err == nil {
		fields := strings.Fields(string(b))
		if len(fields) >= 2 {
			pages, _ := strconv.ParseUint(fields[1], 10, 64)
			return pages * uint64(PageSize()) / 1024
		}
	}
	return 0
}

// CommandLine returns a sanitized, width-bounded display string for the
// process's argument vector. The cmdline record is NUL-separated; the NULs
// become spaces. Kernel threads and zombies have an empty record, which falls
// back to the bracketed short name, top(1)-style.
func (fs *FS) CommandLine(pid int, comm string) string {
	b, _ := fs.readFile(filepath.Join(fs.pidDir(pid), "cmdline"))
	for i := range b {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return Sanitize("["+comm+"]", MaxDisplayWidth)
	}
	return Sanitize(s, MaxDisplayWidth)
}
