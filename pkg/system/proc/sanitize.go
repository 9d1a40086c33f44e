//go:build linux

package proc

// MaxDisplayWidth caps sanitized command strings. Renderers may truncate
// further for narrow terminals, never widen.
const MaxDisplayWidth = 128

const ellipsis = "..."

// Sanitize replaces bytes outside the printable ASCII range with '?' and
// truncates to max bytes with an ellipsis marker. Process names and argument
// vectors are attacker-chosen; they must never reach a terminal raw.
func Sanitize(s string, max int) string {
	b := []byte(s)
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7e {
			b[i] = '?'
		}
	}
	if max > 0 && len(b) > max {
		if max <= len(ellipsis) {
			return string(b[:max])
		}
		return string(b[:max-len(ellipsis)]) + ellipsis
	}
	return string(b)
}
