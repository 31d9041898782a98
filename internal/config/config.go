package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultInterval      = time.Second
	DefaultHistory       = 60
	DefaultRetainMissing = 300
	DefaultReadTimeout   = 2 * time.Second
)

// maxIntervalSeconds bounds -interval to what a time.Duration can hold.
const maxIntervalSeconds = math.MaxInt64 / float64(time.Second)

type Config struct {
	Interval        time.Duration
	History         int
	ShowStats       bool
	AutoScale       bool
	Dark            bool
	IncludeLoopback bool
	RetainMissing   int
	ReadTimeout     time.Duration
	MetricsAddr     string
	LogFile         string
	LogLevel        slog.Level
}

func Default() Config {
	return Config{
		Interval:      DefaultInterval,
		History:       DefaultHistory,
		ShowStats:     true,
		AutoScale:     true,
		RetainMissing: DefaultRetainMissing,
		ReadTimeout:   DefaultReadTimeout,
		LogLevel:      slog.LevelInfo,
	}
}

// Parse reads command-line arguments (without the program name) into a
// validated Config. flag.ErrHelp is returned unwrapped when -h is given.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("netchart", flag.ContinueOnError)
	fs.SetOutput(output)

	interval := fs.Float64("interval", cfg.Interval.Seconds(), "update interval in seconds")
	fs.Float64Var(interval, "i", cfg.Interval.Seconds(), "shorthand for -interval")
	fs.IntVar(&cfg.History, "history", cfg.History, "number of samples kept per interface")
	stats := fs.Bool("stats", true, "show the statistics panel")
	noStats := fs.Bool("no-stats", false, "hide the statistics panel")
	autoScale := fs.Bool("auto-scale", true, "pick KB/MB/GB automatically")
	noAutoScale := fs.Bool("no-auto-scale", false, "always display raw bytes")
	fs.BoolVar(&cfg.Dark, "dark", false, "use the dark theme")
	fs.BoolVar(&cfg.IncludeLoopback, "loopback", false, "include loopback interfaces")
	fs.IntVar(&cfg.RetainMissing, "retain-missing", cfg.RetainMissing, "purge interfaces absent for this many ticks (0 keeps them forever)")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "upper bound for one counter read")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&cfg.LogFile, "log-file", "", "write logs to this file")
	level := fs.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("%w: unexpected arguments: %s", ErrInvalid, strings.Join(fs.Args(), " "))
	}

	if math.IsNaN(*interval) || *interval <= 0 {
		return cfg, fmt.Errorf("%w: interval must be > 0, got %v", ErrInvalid, *interval)
	}
	if *interval >= maxIntervalSeconds {
		return cfg, fmt.Errorf("%w: interval must be below %.0f seconds, got %v", ErrInvalid, maxIntervalSeconds, *interval)
	}
	cfg.Interval = time.Duration(*interval * float64(time.Second))
	cfg.ShowStats = *stats && !*noStats
	cfg.AutoScale = *autoScale && !*noAutoScale

	lvl, err := ParseLevel(*level)
	if err != nil {
		return cfg, err
	}
	cfg.LogLevel = lvl

	return cfg, cfg.Validate()
}

// Validate checks the invariants the tick loop relies on.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be > 0, got %s", ErrInvalid, c.Interval)
	}
	if c.History <= 0 {
		return fmt.Errorf("%w: history must be > 0, got %d", ErrInvalid, c.History)
	}
	if c.RetainMissing < 0 {
		return fmt.Errorf("%w: retain-missing must be >= 0, got %d", ErrInvalid, c.RetainMissing)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: read-timeout must be > 0, got %s", ErrInvalid, c.ReadTimeout)
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log-level %q", ErrInvalid, s)
	}
	return lvl, nil
}
