// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pairflow/internal/market"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Feed describes the upstream trade stream the collector subscribes to.
type Feed struct {
	Provider string   `yaml:"provider"` // "binance" or "stub"
	BaseURL  string   `yaml:"base_url"`
	Symbols  []string `yaml:"symbols"`
}

// Buffer tunes the shared tick buffer flush scheduler.
type Buffer struct {
	FlushIntervalMs int    `yaml:"flush_interval_ms"`
	RecordPath      string `yaml:"record_path"` // optional NDJSON tee, empty disables
}

// Aggregation controls the tick-to-OHLC resampling loops.
type Aggregation struct {
	Timeframes      []string `yaml:"timeframes"`
	WindowMinutes   int      `yaml:"window_minutes"`
	RecoverySeconds int      `yaml:"recovery_seconds"`
}

// Analytics carries the knobs consumed by the statistics engine.
type Analytics struct {
	RollingWindow  int    `yaml:"rolling_window"`
	RegressionMode string `yaml:"regression_mode"` // "ols" or "robust"
}

// Store selects the persistence backend.
type Store struct {
	Driver string `yaml:"driver"` // "memory" or "postgres"
	DSN    string `yaml:"dsn"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App         App         `yaml:"app"`
	Feed        Feed        `yaml:"feed"`
	Buffer      Buffer      `yaml:"buffer"`
	Aggregation Aggregation `yaml:"aggregation"`
	Analytics   Analytics   `yaml:"analytics"`
	Store       Store       `yaml:"store"`
}

const (
	defaultBaseURL         = "wss://fstream.binance.com/ws"
	defaultFlushIntervalMs = 2000
	defaultWindowMinutes   = 60
	defaultRecoverySeconds = 5
	defaultRollingWindow   = 20
)

// Load reads a YAML file from disk and hydrates a Config struct with defaults applied.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.MetricsAddr == "" {
		c.App.MetricsAddr = ":9091"
	}
	if c.Feed.Provider == "" {
		c.Feed.Provider = "binance"
	}
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = defaultBaseURL
	}
	if c.Buffer.FlushIntervalMs <= 0 {
		c.Buffer.FlushIntervalMs = defaultFlushIntervalMs
	}
	if len(c.Aggregation.Timeframes) == 0 {
		for _, tf := range market.Timeframes {
			c.Aggregation.Timeframes = append(c.Aggregation.Timeframes, tf.String())
		}
	}
	if c.Aggregation.WindowMinutes <= 0 {
		c.Aggregation.WindowMinutes = defaultWindowMinutes
	}
	if c.Aggregation.RecoverySeconds <= 0 {
		c.Aggregation.RecoverySeconds = defaultRecoverySeconds
	}
	if c.Analytics.RollingWindow <= 0 {
		c.Analytics.RollingWindow = defaultRollingWindow
	}
	if c.Analytics.RegressionMode == "" {
		c.Analytics.RegressionMode = "ols"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Feed.Symbols) == 0 {
		return fmt.Errorf("at least one symbol must be configured")
	}
	for _, s := range c.Feed.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("blank symbol in feed.symbols")
		}
	}
	for _, tf := range c.Aggregation.Timeframes {
		if _, err := market.ParseTimeframe(tf); err != nil {
			return fmt.Errorf("aggregation.timeframes: %w", err)
		}
	}
	switch c.Analytics.RegressionMode {
	case "ols", "robust":
	default:
		return fmt.Errorf("analytics.regression_mode must be ols or robust, got %q", c.Analytics.RegressionMode)
	}
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn required for postgres driver")
		}
	default:
		return fmt.Errorf("store.driver must be memory or postgres, got %q", c.Store.Driver)
	}
	return nil
}

// FlushInterval returns the flush cadence as a duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Buffer.FlushIntervalMs) * time.Millisecond
}

// Window returns the trailing tick window rescanned by the aggregation loops.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Aggregation.WindowMinutes) * time.Minute
}

// Recovery returns the sleep applied after a failed aggregation cycle.
func (c *Config) Recovery() time.Duration {
	return time.Duration(c.Aggregation.RecoverySeconds) * time.Second
}

// ParsedTimeframes converts the configured timeframe labels; call Validate first.
func (c *Config) ParsedTimeframes() []market.Timeframe {
	out := make([]market.Timeframe, 0, len(c.Aggregation.Timeframes))
	for _, s := range c.Aggregation.Timeframes {
		tf, err := market.ParseTimeframe(s)
		if err != nil {
			continue
		}
		out = append(out, tf)
	}
	return out
}
