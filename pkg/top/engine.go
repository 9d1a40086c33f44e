//go:build linux

package top

import (
	"context"
	"fmt"
	"time"

	"github.com/ja7ad/ptop/pkg/system/proc"
	"github.com/ja7ad/ptop/pkg/types"
	"go.uber.org/zap"
)

const (
	// scanBatchSize and batchPause keep very large sweeps from starving the
	// host: a short breather every batch.
	scanBatchSize = 512
	batchPause    = 2 * time.Millisecond

	// staleFactor times the refresh interval decides when an identity that
	// was not re-observed gets evicted from history.
	staleFactor = 4
)

// Engine owns one run's sampling state: the procfs accessor, the clock-tick
// rate detected at startup, and the history store carried across cycles.
type Engine struct {
	fs      *proc.FS
	cfg     Config
	hz      int
	history *History
	log     *zap.Logger

	// watch-cycle state; the first pass has no baseline and uses since-start
	// rates, later passes use deltas against history.
	passes   int
	lastPass time.Time
}

// NewEngine builds an engine. cfg is assumed normalized.
func NewEngine(fs *proc.FS, cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	hist, err := NewHistory(cfg.MaxScan, 0)
	if err != nil {
		return nil, fmt.Errorf("top: history: %w", err)
	}
	return &Engine{
		fs:      fs,
		cfg:     cfg,
		hz:      proc.ClockTicks(),
		history: hist,
		log:     log,
	}, nil
}

// Sample runs one full pass: enumerate, validate, read, derive, rank. The
// returned rows are the top N under the configured sort key, with thread rows
// attached beneath their owners when thread detail is on.
func (e *Engine) Sample(ctx context.Context) ([]Sample, error) {
	now := time.Now()
	uptime, err := e.fs.Uptime()
	if err != nil {
		return nil, err
	}

	pids := e.fs.PIDs(e.cfg.MaxScan)
	rows := make([]Sample, 0, len(pids))
	var skipped int
	for i, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && i%scanBatchSize == 0 {
			time.Sleep(batchPause)
		}
		row, ok := e.sampleProcess(pid, uptime, now)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	top := TopN(rows, e.cfg.Sort, e.cfg.Limit)
	if e.cfg.IncludeThreads {
		top = e.attachThreads(top, uptime, now)
	}

	e.passes++
	e.lastPass = now
	e.history.EvictStale(now, e.staleAge())

	e.log.Debug("sampling pass complete",
		zap.Int("scanned", len(pids)),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped),
		zap.Int("history", e.history.Len()))
	return top, nil
}

func (e *Engine) staleAge() time.Duration {
	age := staleFactor * e.cfg.Interval
	if age < 5*time.Second {
		age = 5 * time.Second
	}
	return age
}

// sampleProcess derives one process row. Any failure reads as "skip":
// processes exit between listing and read, and that race is tolerated, not
// escalated.
func (e *Engine) sampleProcess(pid int, uptime float64, now time.Time) (Sample, bool) {
	id := Identity{PID: pid}
	// validation first, always: the row cache must not resurrect an identity
	// whose record no longer passes the gate
	if !e.fs.Allowed(e.fs.StatPath(pid, 0)) {
		return Sample{}, false
	}
	if row, ok := e.history.CachedRow(id); ok {
		return row, true
	}
	rec, err := e.fs.ReadStat(pid)
	if err != nil {
		return Sample{}, false
	}
	if rec.State == proc.Zombie && !e.cfg.IncludeZombies {
		return Sample{}, false
	}

	total := rec.TotalTicks()
	row := Sample{
		PID:        pid,
		PPID:       rec.PPID,
		State:      string(rec.State),
		Comm:       proc.Sanitize(rec.Comm, proc.MaxDisplayWidth),
		Command:    e.fs.CommandLine(pid, rec.Comm),
		CPUPercent: e.percent(id, total, rec.StartTicks, uptime, now),
		RSS:        types.FromKB(e.fs.MemoryKB(pid)),
		CPUTime:    float64(total) / float64(e.hz),
		Kind:       KindProcess,
	}
	e.history.Put(id, total, now)
	e.history.CacheRow(row)
	return row, true
}

// percent picks the measurement mode: the first pass of a run has no
// baseline and reports since-start rates; every later pass reports the rate
// over the window since that identity was last seen. Threads follow the same
// mode as the enclosing pass.
func (e *Engine) percent(id Identity, total, startTicks uint64, uptime float64, now time.Time) float64 {
	if e.passes == 0 {
		return SinceStartPercent(total, startTicks, uptime, e.hz)
	}
	if ent, ok := e.history.Get(id); ok {
		return DeltaPercent(total, ent.TotalTicks, now.Sub(ent.At).Seconds(), e.hz)
	}
	// unseen identity mid-run: prior ticks 0 over the last cycle's window
	return DeltaPercent(total, 0, now.Sub(e.lastPass).Seconds(), e.hz)
}

// attachThreads expands each ranked process row with its thread rows, nested
// directly after the owner for display, capped per process. Thread sampling
// happens only for the ranked rows, so the cap bounds total extra reads by
// Limit*ThreadLimit.
func (e *Engine) attachThreads(top []Sample, uptime float64, now time.Time) []Sample {
	out := make([]Sample, 0, len(top))
	for _, p := range top {
		out = append(out, p)
		for _, tid := range e.fs.Threads(p.PID, e.cfg.ThreadLimit) {
			if !e.fs.Allowed(e.fs.StatPath(p.PID, tid)) {
				continue
			}
			rec, err := e.fs.ReadTaskStat(p.PID, tid)
			if err != nil {
				continue
			}
			if rec.State == proc.Zombie && !e.cfg.IncludeZombies {
				continue
			}
			id := Identity{PID: p.PID, TID: tid}
			total := rec.TotalTicks()
			row := Sample{
				PID:        p.PID,
				TID:        tid,
				PPID:       p.PID,
				State:      string(rec.State),
				Comm:       proc.Sanitize(rec.Comm, proc.MaxDisplayWidth),
				Command:    proc.Sanitize(rec.Comm, proc.MaxDisplayWidth),
				CPUPercent: e.percent(id, total, rec.StartTicks, uptime, now),
				RSS:        p.RSS, // threads share the owner's address space
				CPUTime:    float64(total) / float64(e.hz),
				Kind:       KindThread,
			}
			e.history.Put(id, total, now)
			out = append(out, row)
		}
	}
	return out
}
