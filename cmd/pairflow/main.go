package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"pairflow/internal/analytics"
	"pairflow/internal/buffer"
	"pairflow/internal/collector"
	"pairflow/internal/config"
	"pairflow/internal/metrics"
	"pairflow/internal/processor"
	"pairflow/internal/store"
	"pairflow/internal/store/memory"
	"pairflow/internal/store/ndjson"
	"pairflow/internal/store/postgres"
	"pairflow/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	if dsn := os.Getenv("PAIRFLOW_DSN"); dsn != "" {
		cfg.Store.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := postgres.Open(cfg.Store.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres store")
		}
		defer pg.Close()
		st = pg
	default:
		st = memory.New()
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("store ready")

	buf := buffer.New(1024)
	var flushOpts []buffer.FlusherOption
	if cfg.Buffer.RecordPath != "" {
		rec, err := ndjson.NewRecorder(cfg.Buffer.RecordPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open tick recorder")
		}
		defer rec.Close()
		flushOpts = append(flushOpts, buffer.WithRecorder(rec))
	}
	flusher := buffer.NewFlusher(buf, st, cfg.FlushInterval(), util.Component(log, "flusher"), flushOpts...)

	col, err := collector.New(cfg.Feed.Provider, cfg.Feed.BaseURL, cfg.Feed.Symbols,
		buf, flusher, util.Component(log, "collector"))
	if err != nil {
		log.Fatal().Err(err).Msg("build collector")
	}
	proc := processor.New(st, cfg.ParsedTimeframes(), cfg.Window(), cfg.Recovery(),
		util.Component(log, "processor"))

	// The analytics capability set is resolved once here; downstream consumers
	// (dashboards, signal jobs) receive the engine fully configured.
	engine := analytics.New(
		analytics.WithRollingWindow(cfg.Analytics.RollingWindow),
		analytics.WithRobustRegression(true),
		analytics.WithLogger(util.Component(log, "analytics")),
	)
	log.Info().Str("regression_mode", cfg.Analytics.RegressionMode).
		Bool("robust_available", engine.RobustAvailable()).
		Int("rolling_window", cfg.Analytics.RollingWindow).Msg("analytics engine ready")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = col.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = proc.Run(ctx)
	}()

	log.Info().Strs("symbols", col.Symbols()).Msg("pipeline started")
	wg.Wait()
	log.Info().Msg("pipeline stopped")
}
