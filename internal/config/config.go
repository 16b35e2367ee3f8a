package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rawwerks/overmon/internal/metrics"
)

// Config carries runtime options for overmon.
type Config struct {
	Interval     time.Duration
	PollTimeout  time.Duration
	Sources      []metrics.SourceID
	HistorySize  int
	SmoothWindow int
	RecheckTicks int
	RefreshRate  time.Duration // renderer redraw cadence, independent of Interval
	SettingsPath string
	Debug        bool
}

// ConfigError reports an invalid option. It is the only error surfaced
// before the sampler starts; everything later is absorbed into source
// health.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func Default() Config {
	return Config{
		Interval:     time.Second,
		PollTimeout:  500 * time.Millisecond,
		Sources:      metrics.AllSources(),
		HistorySize:  60,
		SmoothWindow: 1,
		RecheckTicks: 30,
		RefreshRate:  200 * time.Millisecond,
		SettingsPath: defaultSettingsPath(),
	}
}

// FromFlags parses flags and environment overrides. A .env file in the
// working directory is loaded first, best-effort.
func FromFlags(args []string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	fs := flag.NewFlagSet("overmon", flag.ContinueOnError)
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "sampling interval")
	fs.DurationVar(&cfg.PollTimeout, "timeout", cfg.PollTimeout, "per-source poll timeout")
	fs.IntVar(&cfg.HistorySize, "history", cfg.HistorySize, "rolling snapshot history size")
	fs.IntVar(&cfg.SmoothWindow, "smooth", cfg.SmoothWindow, "smoothing window in ticks (1 = off)")
	fs.IntVar(&cfg.RecheckTicks, "recheck", cfg.RecheckTicks, "ticks between probes of an unavailable source")
	fs.DurationVar(&cfg.RefreshRate, "refresh", cfg.RefreshRate, "renderer refresh cadence")
	fs.StringVar(&cfg.SettingsPath, "settings", cfg.SettingsPath, "settings file path")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")
	srcList := fs.String("sources", "", "comma-separated sources: cpu,memory,disk,network,gpu,battery")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if v := os.Getenv("OVERMON_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Interval = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
			cfg.Interval = parsed
		}
	}
	if v := os.Getenv("OVERMON_SOURCES"); v != "" && *srcList == "" {
		*srcList = v
	}
	if v := os.Getenv("OVERMON_DEBUG"); v == "1" {
		cfg.Debug = true
	}

	if *srcList != "" {
		sources, err := ParseSources(*srcList)
		if err != nil {
			return cfg, err
		}
		cfg.Sources = sources
	}
	return cfg, cfg.Validate()
}

// ParseSources parses a comma-separated source list.
func ParseSources(list string) ([]metrics.SourceID, error) {
	var out []metrics.SourceID
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := metrics.ParseSourceID(part)
		if !ok {
			return nil, &ConfigError{Field: "sources", Reason: fmt.Sprintf("unknown source %q", part)}
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, &ConfigError{Field: "sources", Reason: "empty source set"}
	}
	return out, nil
}

// Validate rejects options the sampler cannot run with.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return &ConfigError{Field: "interval", Reason: "must be positive"}
	}
	if c.PollTimeout <= 0 {
		return &ConfigError{Field: "timeout", Reason: "must be positive"}
	}
	if len(c.Sources) == 0 {
		return &ConfigError{Field: "sources", Reason: "empty source set"}
	}
	if c.HistorySize < 1 {
		return &ConfigError{Field: "history", Reason: "must be at least 1"}
	}
	if c.SmoothWindow < 1 {
		return &ConfigError{Field: "smooth", Reason: "must be at least 1"}
	}
	if c.RefreshRate <= 0 {
		return &ConfigError{Field: "refresh", Reason: "must be positive"}
	}
	return nil
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "overmon.yaml"
	}
	return filepath.Join(dir, "overmon", "settings.yaml")
}
