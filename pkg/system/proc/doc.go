// Package proc provides safe, race-tolerant access to the procfs
// pseudo-filesystem for the ptop sampling engine.
//
// Overview
//
//   - FS: a procfs accessor rooted at a configurable directory (PROC_ROOT env
//     or an explicit path). Tests point it at a synthetic tree built under
//     t.TempDir; production code uses /proc. All reads go through the FS so
//     the root is enforced uniformly.
//
//   - Path validation: FS.Allowed resolves symlinks and accepts only the
//     closed set of record shapes the engine ever opens (<pid>, <pid>/stat,
//     <pid>/status, <pid>/cmdline, <pid>/task, <pid>/task/<tid>,
//     <pid>/task/<tid>/stat). Procfs contents are indirectly attacker
//     influenceable (any process can spawn children with crafted names), so
//     a rejected path means "skip", never "abort".
//
//   - Record readers:
//     ReadStat / ReadTaskStat  : tick counters, state, name, parent, start time
//     MemoryKB                 : VmRSS from status, statm fallback, 0 if degraded
//     CommandLine              : NUL-joined argv, bracketed-comm fallback
//
//   - Clock facts:
//     ClockTicks()   : jiffies per second, detected once at startup
//     (env CLK_TCK → sysconf(_SC_CLK_TCK) → 100)
//     FS.Uptime()    : seconds since boot, re-read every sampling cycle
//     (uptime record → sysinfo(2) → fatal)
//
// # Parsing caveats
//
// The comm field of a stat record is parenthesized and may contain spaces and
// literal parentheses (a process is free to call itself "a)b"). The parser
// therefore scans for the LAST ')' in the line before tokenizing the numeric
// remainder. Records with fewer fields than reach starttime (field 22) are
// reported as ErrShortStat and skipped by callers.
//
// # Failure model
//
// Processes exit between directory listing and file read; permission checks
// differ per record; contents can be malformed. Every per-entity failure is a
// silent skip. Only two conditions are fatal: a missing/unrecognizable proc
// root (ErrNoProcRoot at FS construction) and unreadable uptime (ErrNoUptime
// at sampling time).
//
// All display strings leaving this package pass through Sanitize, which
// replaces non-printable bytes and bounds the width, so downstream renderers
// never see raw attacker-chosen bytes.
//
// Package import path: github.com/ja7ad/ptop/pkg/system/proc
package proc
