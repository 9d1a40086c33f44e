//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// ClockTicks returns the number of jiffies (clock ticks) per second.
// It first checks the env var CLK_TCK (useful for testing), then asks
// sysconf(_SC_CLK_TCK), and finally falls back to 100 (common default).
// Detect once at startup and treat the value as fixed for the run.
func ClockTicks() int {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return v
	}
	if hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK); err == nil && hz > 0 {
		return int(hz)
	}
	return 100
}

// PageSize returns the system memory page size in bytes.
// Like ClockTicks, it first checks an env override (PAGE_SIZE)
// to ease testing, then falls back to os.Getpagesize().
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return os.Getpagesize()
}

// Uptime returns seconds since boot. The uptime record under the root is
// authoritative; sysinfo(2) is the fallback when the record is unreadable.
// An error here is fatal to callers: without uptime, no since-start CPU
// percentage can be computed.
func (fs *FS) Uptime() (float64, error) {
	if b, err := os.ReadFile(filepath.Join(fs.root, "uptime")); err == nil {
		f := strings.Fields(string(b))
		if len(f) > 0 {
			if up, err := strconv.ParseFloat(f[0], 64); err == nil && up >= 0 {
				return up, nil
			}
		}
	}
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil && si.Uptime >= 0 {
		return float64(si.Uptime), nil
	}
	return 0, fmt.Errorf("%w: root %s", ErrNoUptime, fs.root)
}
