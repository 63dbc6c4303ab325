// Package config defines the pipeline configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers an optional YAML file and POINTSPLUS_ env vars on top.
// - Validation errors wrap ErrInvalidConfig; loading errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
)

// Input source kinds.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "text" or "json" log output.
	LogFormat string `koanf:"log_format"`

	// Season and AsOfDate label the published artifacts, e.g. "2025-26".
	Season   string `koanf:"season"`
	AsOfDate string `koanf:"as_of_date"`

	// Source selects where input tables come from: csv or sqlite.
	Source     string `koanf:"source"`
	RawDir     string `koanf:"raw_dir"`
	SQLitePath string `koanf:"sqlite_path"`

	// OutputDir receives the published JSON artifacts.
	OutputDir string `koanf:"output_dir"`

	// MinGames and MinMPG are the qualifying thresholds.
	MinGames int     `koanf:"min_games"`
	MinMPG   float64 `koanf:"min_mpg"`

	// Fetch refreshes raw tables from the stats provider before computing.
	Fetch          bool   `koanf:"fetch"`
	FetchBaseURL   string `koanf:"fetch_base_url"`
	FetchRetries   int    `koanf:"fetch_retries"`
	FetchDelayMS   int    `koanf:"fetch_delay_ms"`
	FetchTimeoutMS int    `koanf:"fetch_timeout_ms"`

	// Serve keeps the process running and exposes the result over HTTP.
	Serve bool   `koanf:"serve"`
	Addr  string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MetricsTextfile writes metrics.prom next to the artifacts after each run.
	MetricsTextfile bool `koanf:"metrics_textfile"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Season:              "2025-26",
		Source:              SourceCSV,
		RawDir:              "data/raw",
		SQLitePath:          "data/raw/pointsplus.db",
		OutputDir:           "data/output",
		MinGames:            20,
		MinMPG:              15.0,
		FetchBaseURL:        "https://stats.nba.com/stats",
		FetchRetries:        3,
		FetchDelayMS:        600,
		FetchTimeoutMS:      30_000,
		Addr:                ":9080",
		MaxLeaderboardLimit: 500,
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MinGames < 1:
		return fmt.Errorf("%w: min_games must be at least 1", ErrInvalidConfig)
	case c.MinMPG < 0:
		return fmt.Errorf("%w: min_mpg must not be negative", ErrInvalidConfig)
	case strings.TrimSpace(c.OutputDir) == "":
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	case c.FetchRetries < 1:
		return fmt.Errorf("%w: fetch_retries must be at least 1", ErrInvalidConfig)
	case c.Serve && strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Fetch && c.FetchTimeoutMS < 1:
		return fmt.Errorf("%w: fetch_timeout_ms must be at least 1", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}

	switch c.Source {
	case SourceCSV:
		if strings.TrimSpace(c.RawDir) == "" {
			return fmt.Errorf("%w: raw_dir must not be empty", ErrInvalidConfig)
		}
	case SourceSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	return nil
}
