//go:build linux

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/ja7ad/ptop/pkg/system/proc"
	"github.com/ja7ad/ptop/pkg/top"
	"github.com/ja7ad/ptop/pkg/types"
)

// clearScreen is the ANSI erase-display + cursor-home sequence used between
// watch refreshes on a terminal.
const clearScreen = "\x1b[2J\x1b[H"

type opts struct {
	// sampling
	limit       int
	sortKey     string
	watch       bool
	interval    time.Duration
	zombies     bool
	threads     bool
	threadLimit int
	maxScan     int

	// outputs
	unit    string
	jsonOut bool

	// ambient
	configPath string
	logFile    string
	verbose    bool
}

func main() {
	var o opts
	root := newRootCommand(&o)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ptop: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(o *opts) *cobra.Command {
	root := &cobra.Command{
		Use:   "ptop",
		Short: "Top-style process monitor over procfs",
		Long: `ptop sweeps the proc pseudo-filesystem, derives CPU utilization, resident
memory, scheduling state and command line for every visible process, and
prints the top consumers by a chosen key. With --watch it refreshes in place
like top; without it, one snapshot is printed and the tool exits.

* GitHub: https://github.com/ja7ad/ptop

Examples:
  ptop -n 10 -s mem
  ptop --watch -i 1s --threads
  ptop --json -s cpu > snapshot.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *o)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().IntVarP(&o.limit, "limit", "n", 20, "number of rows to display [1..1000]")
	root.Flags().StringVarP(&o.sortKey, "sort", "s", "cpu", "ranking key: cpu, mem, pid, command, cputime")
	root.Flags().BoolVarP(&o.watch, "watch", "w", false, "refresh continuously until interrupted")
	root.Flags().DurationVarP(&o.interval, "interval", "i", 2*time.Second, "refresh cadence in watch mode [1s..1h]")
	root.Flags().BoolVar(&o.zombies, "zombies", false, "include zombie processes")
	root.Flags().BoolVarP(&o.threads, "threads", "H", false, "show per-thread rows under each process")
	root.Flags().IntVar(&o.threadLimit, "thread-limit", 64, "per-process thread row cap [1..512]")
	root.Flags().IntVar(&o.maxScan, "max-scan", 64*1024, "maximum process directories per sweep")
	root.Flags().StringVar(&o.unit, "unit", "mb", "memory unit: kb or mb")
	root.Flags().BoolVar(&o.jsonOut, "json", false, "emit rows as JSON instead of a table")
	root.Flags().StringVar(&o.configPath, "config", "", "yaml config file (flags override it)")
	root.Flags().StringVar(&o.logFile, "log-file", "", "also write logs to this rotated file")
	root.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "debug-level diagnostics on stderr")

	return root
}

// newLogger writes console-encoded diagnostics to stderr so they never mix
// with table or JSON output on stdout. With a log file set, a rotated copy is
// teed there as well.
func newLogger(verbose bool, logFile string) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level),
	}
	if logFile != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(encoder, fileWriter, level))
	}
	return zap.New(zapcore.NewTee(cores...))
}

func run(cmd *cobra.Command, o opts) error {
	logger := newLogger(o.verbose, o.logFile)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := buildConfig(cmd, o, logger)
	if err != nil {
		return err
	}

	fs, err := proc.DefaultFS()
	if err != nil {
		return err
	}
	engine, err := top.NewEngine(fs, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !o.watch {
		rows, err := engine.Sample(ctx)
		if err != nil {
			return err
		}
		return render(os.Stdout, rows, cfg, o.jsonOut)
	}
	return watch(ctx, engine, cfg, o.jsonOut)
}

// buildConfig layers defaults, then the config file, then any flag the user
// actually set, and finally clamps the result.
func buildConfig(cmd *cobra.Command, o opts, logger *zap.Logger) (top.Config, error) {
	cfg := top.DefaultConfig()

	if o.configPath != "" {
		fc, err := top.LoadFileConfig(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fc.Apply(cfg, logger)
	}

	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Limit = o.limit
	}
	if flags.Changed("interval") {
		cfg.Interval = o.interval
	}
	if flags.Changed("zombies") {
		cfg.IncludeZombies = o.zombies
	}
	if flags.Changed("threads") {
		cfg.IncludeThreads = o.threads
	}
	if flags.Changed("thread-limit") {
		cfg.ThreadLimit = o.threadLimit
	}
	if flags.Changed("max-scan") {
		cfg.MaxScan = o.maxScan
	}
	// enum flags follow the config-file rule: warn and keep the previous
	// value, never abort
	if flags.Changed("sort") {
		if f, err := top.ParseSortField(o.sortKey); err != nil {
			logger.Warn("bad sort field, keeping previous", zap.String("sort", o.sortKey))
		} else {
			cfg.Sort = f
		}
	}
	if flags.Changed("unit") {
		if u, err := types.ParseUnit(o.unit); err != nil {
			logger.Warn("bad memory unit, keeping previous", zap.String("unit", o.unit))
		} else {
			cfg.Unit = u
		}
	}

	return cfg.Normalize(logger), nil
}

// watch refreshes in place on the configured cadence. The first pass renders
// immediately; section clearing happens only on a real terminal so piped
// output stays parseable.
func watch(ctx context.Context, engine *top.Engine, cfg top.Config, jsonOut bool) error {
	tty := term.IsTerminal(int(os.Stdout.Fd()))

	refresh := func() error {
		rows, err := engine.Sample(ctx)
		if err != nil {
			return err
		}
		if tty && !jsonOut {
			fmt.Print(clearScreen)
		}
		return render(os.Stdout, rows, cfg, jsonOut)
	}

	if err := refresh(); err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			zap.S().Info("interrupted")
			return nil
		case <-ticker.C:
			if err := refresh(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func render(w io.Writer, rows []top.Sample, cfg top.Config, jsonOut bool) error {
	if jsonOut {
		return renderJSON(w, rows)
	}
	return renderTable(w, rows, cfg.Unit)
}

func renderJSON(w io.Writer, rows []top.Sample) error {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func renderTable(w io.Writer, rows []top.Sample, unit types.Unit) error {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PID\tTID\tPPID\tS\tCPU%%\tMEM(%s)\tTIME+\tCOMMAND\n", unit)
	for _, r := range rows {
		tid := "-"
		command := r.Command
		if r.Kind == top.KindThread {
			tid = fmt.Sprint(r.TID)
			command = "  " + command
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%.1f\t%s\t%s\t%s\n",
			r.PID, tid, r.PPID, r.State,
			r.CPUPercent, r.RSS.Format(unit),
			formatCPUTime(r.CPUTime), truncate(command, width-64))
	}
	return tw.Flush()
}

// formatCPUTime renders cumulative CPU seconds the way top does, minutes,
// seconds and hundredths.
func formatCPUTime(sec float64) string {
	min := int(sec) / 60
	rem := sec - float64(min)*60
	return fmt.Sprintf("%d:%05.2f", min, rem)
}

// truncate trims the command column to what the terminal has left after the
// fixed columns. max <= 0 means unknown width, keep everything.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
