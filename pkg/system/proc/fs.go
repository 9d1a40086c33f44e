//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// MaxPID is the largest process identity accepted anywhere in this package.
// It matches the kernel's pid_max ceiling (2^22) on 64-bit systems.
const MaxPID = 4 << 20

// FS reads process records from a procfs-shaped directory tree. The root is
// configurable (env PROC_ROOT, or an explicit path) so tests can point it at
// a synthetic tree; production use is the real /proc.
type FS struct {
	root     string
	resolved string // root after symlink resolution, for containment checks
}

// NewFS opens a procfs root. The path must be an existing directory;
// everything else about its health is checked lazily per read.
func NewFS(root string) (*FS, error) {
	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoProcRoot, root)
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoProcRoot, root)
	}
	return &FS{root: root, resolved: resolved}, nil
}

// DefaultFS opens the system procfs, honoring the PROC_ROOT env override.
func DefaultFS() (*FS, error) {
	root := os.Getenv("PROC_ROOT")
	if root == "" {
		root = "/proc"
	}
	return NewFS(root)
}

// Root returns the configured root path.
func (fs *FS) Root() string { return fs.root }

func (fs *FS) pidDir(pid int) string {
	return filepath.Join(fs.root, strconv.Itoa(pid))
}

// StatPath returns the stat record path for a process, or for one of its
// threads when tid > 0.
func (fs *FS) StatPath(pid, tid int) string {
	if tid > 0 {
		return filepath.Join(fs.pidDir(pid), "task", strconv.Itoa(tid), "stat")
	}
	return filepath.Join(fs.pidDir(pid), "stat")
}

// open is the single gate every record reader goes through: the path must
// pass the containment and shape check before it is opened, so a crafted
// symlink can never be followed out of the root no matter which record a
// caller asks for.
func (fs *FS) open(path string) (*os.File, error) {
	if !fs.Allowed(path) {
		return nil, fmt.Errorf("%w: %s", ErrPathRejected, path)
	}
	return os.Open(path)
}

// readFile reads a whole record through the same gate as open.
func (fs *FS) readFile(path string) ([]byte, error) {
	if !fs.Allowed(path) {
		return nil, fmt.Errorf("%w: %s", ErrPathRejected, path)
	}
	return os.ReadFile(path)
}

// Exists reports whether a given PID currently has a directory under the root.
func (fs *FS) Exists(pid int) bool {
	_, err := os.Stat(fs.pidDir(pid))
	return err == nil
}

// PIDs enumerates numeric entries directly under the root, capped at max to
// bound a sweep over a pathological or adversarial directory. The result is
// ascending.
func (fs *FS) PIDs(max int) []int {
	entries, err := os.ReadDir(fs.root)
	if err != nil {
		return nil
	}
	pids := make([]int, 0, len(entries))
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		pid, ok := parseID(ent.Name())
		if !ok {
			continue
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	if max > 0 && len(pids) > max {
		pids = pids[:max]
	}
	return pids
}

// Threads enumerates thread identities under <pid>/task, capped at max per
// process. Ascending, like PIDs.
func (fs *FS) Threads(pid, max int) []int {
	entries, err := os.ReadDir(filepath.Join(fs.pidDir(pid), "task"))
	if err != nil {
		return nil
	}
	tids := make([]int, 0, len(entries))
	for _, ent := range entries {
		tid, ok := parseID(ent.Name())
		if !ok {
			continue
		}
		tids = append(tids, tid)
	}
	sort.Ints(tids)
	if max > 0 && len(tids) > max {
		tids = tids[:max]
	}
	return tids
}

// parseID accepts a strictly-numeric identity in [1, MaxPID]. Leading zeros,
// signs, and empty strings are rejected; the kernel never writes them.
func parseID(s string) (int, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 || id > MaxPID {
		return 0, false
	}
	return id, true
}
