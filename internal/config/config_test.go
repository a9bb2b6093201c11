package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "pairflow-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.Feed.Provider != "binance" {
		t.Fatalf("unexpected Feed.Provider: %s", cfg.Feed.Provider)
	}
	if len(cfg.Feed.Symbols) != 2 || cfg.Feed.Symbols[0] != "btcusdt" {
		t.Fatalf("unexpected symbols: %+v", cfg.Feed.Symbols)
	}
	if cfg.Buffer.FlushIntervalMs != 2000 {
		t.Fatalf("unexpected flush interval: %d", cfg.Buffer.FlushIntervalMs)
	}
	if cfg.FlushInterval() != 2*time.Second {
		t.Fatalf("unexpected FlushInterval: %s", cfg.FlushInterval())
	}
	if len(cfg.Aggregation.Timeframes) != 3 {
		t.Fatalf("unexpected timeframes: %+v", cfg.Aggregation.Timeframes)
	}
	if cfg.Window() != time.Hour {
		t.Fatalf("unexpected window: %s", cfg.Window())
	}
	if cfg.Recovery() != 5*time.Second {
		t.Fatalf("unexpected recovery: %s", cfg.Recovery())
	}
	if cfg.Analytics.RollingWindow != 20 {
		t.Fatalf("unexpected rolling window: %d", cfg.Analytics.RollingWindow)
	}
	if cfg.Analytics.RegressionMode != "ols" {
		t.Fatalf("unexpected regression mode: %s", cfg.Analytics.RegressionMode)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("unexpected store driver: %s", cfg.Store.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(cfg.ParsedTimeframes()) != 3 {
		t.Fatalf("unexpected parsed timeframes: %+v", cfg.ParsedTimeframes())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := func() *Config {
		cfg := &Config{Feed: Feed{Symbols: []string{"btcusdt"}}}
		cfg.applyDefaults()
		return cfg
	}

	cases := map[string]func(*Config){
		"no symbols":     func(c *Config) { c.Feed.Symbols = nil },
		"blank symbol":   func(c *Config) { c.Feed.Symbols = []string{"btcusdt", "  "} },
		"bad timeframe":  func(c *Config) { c.Aggregation.Timeframes = []string{"2h"} },
		"bad regression": func(c *Config) { c.Analytics.RegressionMode = "lasso" },
		"bad driver":     func(c *Config) { c.Store.Driver = "sqlite" },
		"postgres no dsn": func(c *Config) {
			c.Store.Driver = "postgres"
			c.Store.DSN = ""
		},
	}
	for name, mutate := range cases {
		cfg := base()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestDefaultsApplied(t *testing.T) {
	cfg := &Config{Feed: Feed{Symbols: []string{"btcusdt"}}}
	cfg.applyDefaults()

	if cfg.Feed.BaseURL == "" {
		t.Fatalf("expected default base url")
	}
	if cfg.FlushInterval() != 2*time.Second {
		t.Fatalf("expected 2s default flush interval, got %s", cfg.FlushInterval())
	}
	if len(cfg.Aggregation.Timeframes) != 3 {
		t.Fatalf("expected all timeframes by default, got %+v", cfg.Aggregation.Timeframes)
	}
	if cfg.Analytics.RegressionMode != "ols" {
		t.Fatalf("expected ols default, got %s", cfg.Analytics.RegressionMode)
	}
}
