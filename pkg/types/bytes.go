package types

import (
	"fmt"
	"strings"
)

// Bytes is a uint64 wrapper representing a size in bytes.
type Bytes uint64

// FromKB converts a kibibyte count (the unit /proc reports RSS in) to Bytes.
func FromKB(kb uint64) Bytes { return Bytes(kb * 1024) }

// Humanized returns a human-readable string with automatic unit (B, KB, MB, GB, TB).
func (b Bytes) Humanized() string {
	const unit = 1024
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// KB returns the number of kilobytes (1024 base).
func (b Bytes) KB() float64 { return float64(b) / 1024 }

// MB returns the number of megabytes (1024 base).
func (b Bytes) MB() float64 { return float64(b) / (1024 * 1024) }

// GB returns the number of gigabytes (1024 base).
func (b Bytes) GB() float64 { return float64(b) / (1024 * 1024 * 1024) }

// Unit is a display-unit preference for memory columns.
type Unit int

const (
	UnitMB Unit = iota // default
	UnitKB
)

// ParseUnit accepts "kb"/"mb" case-insensitively. The empty string maps to MB.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kb":
		return UnitKB, nil
	case "mb", "":
		return UnitMB, nil
	default:
		return UnitMB, fmt.Errorf("types: unknown memory unit %q (want KB or MB)", s)
	}
}

func (u Unit) String() string {
	if u == UnitKB {
		return "KB"
	}
	return "MB"
}

// In returns the byte count expressed in the preferred unit.
func (b Bytes) In(u Unit) float64 {
	if u == UnitKB {
		return b.KB()
	}
	return b.MB()
}

// Format renders the value in the preferred unit with one decimal,
// e.g. "12.3" for the MEM column of a table.
func (b Bytes) Format(u Unit) string {
	return fmt.Sprintf("%.1f", b.In(u))
}
