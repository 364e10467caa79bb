// Package config loads the application configuration from a YAML file and
// applies environment variable overrides. Credentials always travel through
// here; nothing in the engine reads the environment on its own.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a backtest run.
type Config struct {
	Database Database `yaml:"database"`
	Logging  Logging  `yaml:"logging"`
	Backtest Backtest `yaml:"backtest"`
	Report   Report   `yaml:"report"`
	Sweep    Sweep    `yaml:"sweep"`
}

// Database holds the connection string for the price store.
type Database struct {
	URL string `yaml:"url"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Backtest holds the run parameters for the portfolio simulation.
type Backtest struct {
	Ticker         string     `yaml:"ticker"`
	Interval       string     `yaml:"interval"`
	Start          string     `yaml:"start"`
	End            string     `yaml:"end"`
	InitialCapital float64    `yaml:"initial_capital"`
	LotSize        int64      `yaml:"lot_size"`
	MACD           MACDParams `yaml:"macd"`
}

// MACDParams parameterizes the crossover strategy.
type MACDParams struct {
	Fast       int  `yaml:"fast"`
	Slow       int  `yaml:"slow"`
	Signal     int  `yaml:"signal"`
	LogReturns bool `yaml:"log_returns"`
}

// Report controls summary output.
type Report struct {
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	CurvePath    string  `yaml:"curve_path"`
}

// Sweep lists extra strategy parameterizations to evaluate alongside the
// primary run.
type Sweep struct {
	MaxWorkers int          `yaml:"max_workers"`
	Variants   []MACDParams `yaml:"variants"`
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// StartTime parses the configured start date.
func (b *Backtest) StartTime() (time.Time, error) {
	return parseDate(b.Start)
}

// EndTime parses the configured end date.
func (b *Backtest) EndTime() (time.Time, error) {
	return parseDate(b.End)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backtest.InitialCapital == 0 {
		cfg.Backtest.InitialCapital = 10000.0
	}
	if cfg.Backtest.LotSize == 0 {
		cfg.Backtest.LotSize = 100
	}
	if cfg.Backtest.Interval == "" {
		cfg.Backtest.Interval = "D"
	}
	if cfg.Backtest.MACD.Fast == 0 {
		cfg.Backtest.MACD.Fast = 12
	}
	if cfg.Backtest.MACD.Slow == 0 {
		cfg.Backtest.MACD.Slow = 26
	}
	if cfg.Backtest.MACD.Signal == 0 {
		cfg.Backtest.MACD.Signal = 9
	}
	if cfg.Sweep.MaxWorkers == 0 {
		cfg.Sweep.MaxWorkers = 4
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
