//go:build linux

package top

import (
	"fmt"
	"os"
	"time"

	"github.com/ja7ad/ptop/pkg/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Bounds for user-supplied options. Out-of-range values are clamped with a
// warning, never fatal.
const (
	MinLimit = 1
	MaxLimit = 1000

	MinInterval = 1 * time.Second
	MaxInterval = 3600 * time.Second

	MinThreadLimit = 1
	MaxThreadLimit = 512

	MinScanCount = 1
	MaxScanCount = 256 * 1024
)

// Config drives one engine run.
type Config struct {
	Limit          int           // top-N size
	Sort           SortField     // ranking key
	Interval       time.Duration // refresh cadence in watch mode
	IncludeZombies bool
	IncludeThreads bool
	ThreadLimit    int // per-process thread cap
	MaxScan        int // sweep cap over the proc root
	Unit           types.Unit
}

// DefaultConfig returns the values a bare invocation runs with.
func DefaultConfig() Config {
	return Config{
		Limit:       20,
		Sort:        SortCPU,
		Interval:    2 * time.Second,
		ThreadLimit: 64,
		MaxScan:     64 * 1024,
		Unit:        types.UnitMB,
	}
}

// Normalize clamps every field into its documented range, warning through the
// logger for each adjustment made.
func (c Config) Normalize(log *zap.Logger) Config {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultConfig()

	if c.Limit < MinLimit || c.Limit > MaxLimit {
		clamped := clampInt(c.Limit, MinLimit, MaxLimit, def.Limit)
		log.Warn("limit out of range, clamped",
			zap.Int("requested", c.Limit), zap.Int("using", clamped))
		c.Limit = clamped
	}
	if c.Interval < MinInterval || c.Interval > MaxInterval {
		clamped := c.Interval
		switch {
		case clamped <= 0:
			clamped = def.Interval
		case clamped < MinInterval:
			clamped = MinInterval
		case clamped > MaxInterval:
			clamped = MaxInterval
		}
		log.Warn("interval out of range, clamped",
			zap.Duration("requested", c.Interval), zap.Duration("using", clamped))
		c.Interval = clamped
	}
	if c.ThreadLimit < MinThreadLimit || c.ThreadLimit > MaxThreadLimit {
		clamped := clampInt(c.ThreadLimit, MinThreadLimit, MaxThreadLimit, def.ThreadLimit)
		log.Warn("thread limit out of range, clamped",
			zap.Int("requested", c.ThreadLimit), zap.Int("using", clamped))
		c.ThreadLimit = clamped
	}
	if c.MaxScan < MinScanCount || c.MaxScan > MaxScanCount {
		clamped := clampInt(c.MaxScan, MinScanCount, MaxScanCount, def.MaxScan)
		log.Warn("max scan count out of range, clamped",
			zap.Int("requested", c.MaxScan), zap.Int("using", clamped))
		c.MaxScan = clamped
	}
	return c
}

// clampInt snaps v into [lo,hi]; zero (unset) becomes the default.
func clampInt(v, lo, hi, def int) int {
	switch {
	case v == 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// FileConfig mirrors Config with optional fields for a yaml config file.
// Unset fields leave the corresponding Config value untouched.
type FileConfig struct {
	Limit       *int    `yaml:"limit"`
	Sort        *string `yaml:"sort"`
	Interval    *int    `yaml:"interval"` // seconds
	Zombies     *bool   `yaml:"zombies"`
	Threads     *bool   `yaml:"threads"`
	ThreadLimit *int    `yaml:"thread_limit"`
	MaxScan     *int    `yaml:"max_scan"`
	Unit        *string `yaml:"unit"` // KB or MB
}

// LoadFileConfig reads a yaml config file. A missing file is an error;
// callers decide whether the file was explicitly requested.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("top: read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("top: parse config: %w", err)
	}
	return fc, nil
}

// Apply overlays the file's set fields onto c. Unparseable enum values keep
// the existing setting with a warning, matching the clamp-don't-fail rule.
func (fc FileConfig) Apply(c Config, log *zap.Logger) Config {
	if log == nil {
		log = zap.NewNop()
	}
	if fc.Limit != nil {
		c.Limit = *fc.Limit
	}
	if fc.Sort != nil {
		f, err := ParseSortField(*fc.Sort)
		if err != nil {
			log.Warn("config file: bad sort field, keeping previous", zap.String("sort", *fc.Sort))
		} else {
			c.Sort = f
		}
	}
	if fc.Interval != nil {
		c.Interval = time.Duration(*fc.Interval) * time.Second
	}
	if fc.Zombies != nil {
		c.IncludeZombies = *fc.Zombies
	}
	if fc.Threads != nil {
		c.IncludeThreads = *fc.Threads
	}
	if fc.ThreadLimit != nil {
		c.ThreadLimit = *fc.ThreadLimit
	}
	if fc.MaxScan != nil {
		c.MaxScan = *fc.MaxScan
	}
	if fc.Unit != nil {
		u, err := types.ParseUnit(*fc.Unit)
		if err != nil {
			log.Warn("config file: bad memory unit, keeping previous", zap.String("unit", *fc.Unit))
		} else {
			c.Unit = u
		}
	}
	return c
}
