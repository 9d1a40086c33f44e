package proc

import "errors"

var (
	// ErrNoStat indicates that a <pid>/stat record was empty or malformed.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrShortStat indicates that a <pid>/stat record had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrNoProcRoot indicates that the proc root is absent or not a directory.
	ErrNoProcRoot = errors.New("proc: root is not a directory")

	// ErrNoUptime indicates that system uptime could not be determined from
	// either the uptime record or sysinfo. Without it no CPU percentage is
	// meaningful, so callers treat this as fatal.
	ErrNoUptime = errors.New("proc: uptime unavailable")

	// ErrBadPID indicates a process or thread identity outside the supported range.
	ErrBadPID = errors.New("proc: pid out of range")

	// ErrPathRejected indicates a path that failed the containment or shape
	// check and was therefore never opened.
	ErrPathRejected = errors.New("proc: path rejected")
)
