//go:build linux

package proc

import (
	"path/filepath"
	"strings"
)

// Allowed reports whether a candidate path is a well-formed, in-bounds process
// or thread record under this FS's root. Symbolic links are resolved first, so
// a crafted link cannot escape the root; the resolved path must then match one
// of a closed set of shapes:
//
//	<root>/<pid>
//	<root>/<pid>/{stat,status,statm,cmdline}
//	<root>/<pid>/task
//	<root>/<pid>/task/<tid>
//	<root>/<pid>/task/<tid>/stat
//
// Any other shape (traversal, unexpected depth, a non-numeric segment where
// an identity is expected) is rejected. The pseudo-filesystem is indirectly
// attacker-influenceable (any process can spawn children with crafted names),
// so callers treat false as "skip this entity", never as fatal.
func (fs *FS) Allowed(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		// nonexistent or unresolvable: nothing safe to open
		return false
	}
	rel, err := filepath.Rel(fs.resolved, resolved)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	seg := strings.Split(rel, string(filepath.Separator))
	switch len(seg) {
	case 1:
		_, ok := parseID(seg[0])
		return ok
	case 2:
		if _, ok := parseID(seg[0]); !ok {
			return false
		}
		switch seg[1] {
		case "stat", "status", "statm", "cmdline", "task":
			return true
		}
		return false
	case 3:
		if _, ok := parseID(seg[0]); !ok {
			return false
		}
		if seg[1] != "task" {
			return false
		}
		_, ok := parseID(seg[2])
		return ok
	case 4:
		if _, ok := parseID(seg[0]); !ok {
			return false
		}
		if seg[1] != "task" {
			return false
		}
		if _, ok := parseID(seg[2]); !ok {
			return false
		}
		return seg[3] == "stat"
	default:
		return false
	}
}
