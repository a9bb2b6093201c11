// Package processor runs the per-timeframe aggregation loops that turn stored
// ticks into OHLC bars.
package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pairflow/internal/market"
	"pairflow/internal/metrics"
	"pairflow/internal/resample"
	"pairflow/internal/store"
)

// Processor re-aggregates the trailing tick window for every known symbol on
// each timeframe's cadence. Recomputing the overlapping window on every cycle
// is intentional: upserts by (symbol, timeframe, bucket) heal restarts and
// late-arriving ticks inside the window.
type Processor struct {
	store      store.Store
	timeframes []market.Timeframe
	window     time.Duration
	recovery   time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// Option configures Processor construction parameters.
type Option func(*Processor)

// WithClock overrides the wall clock (tests pin it).
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// New builds a processor for the given timeframes.
func New(st store.Store, timeframes []market.Timeframe, window, recovery time.Duration, log zerolog.Logger, opts ...Option) *Processor {
	if window <= 0 {
		window = time.Hour
	}
	if recovery <= 0 {
		recovery = 5 * time.Second
	}
	p := &Processor{
		store:      st,
		timeframes: timeframes,
		window:     window,
		recovery:   recovery,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run spawns one loop per timeframe and blocks until the context is canceled.
func (p *Processor) Run(ctx context.Context) error {
	p.log.Info().Int("timeframes", len(p.timeframes)).Msg("processor starting")

	var wg sync.WaitGroup
	for _, tf := range p.timeframes {
		wg.Add(1)
		go func(tf market.Timeframe) {
			defer wg.Done()
			p.loop(ctx, tf)
		}(tf)
	}
	wg.Wait()
	p.log.Info().Msg("processor stopped")
	return ctx.Err()
}

func (p *Processor) loop(ctx context.Context, tf market.Timeframe) {
	log := p.log.With().Str("timeframe", tf.String()).Logger()
	for {
		wait := tf.Duration()
		if err := p.Cycle(ctx, tf); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("aggregation cycle degraded")
			wait = p.recovery
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Cycle resamples the recent tick window for every known symbol once. A
// failure on one symbol is recorded and the remaining symbols still run; the
// first error is returned so the loop can apply its recovery sleep.
func (p *Processor) Cycle(ctx context.Context, tf market.Timeframe) error {
	symbols, err := p.store.Symbols(ctx)
	if err != nil {
		metrics.AggregateErrors.WithLabelValues(tf.String()).Inc()
		return fmt.Errorf("list symbols: %w", err)
	}

	var firstErr error
	for _, sym := range symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.processSymbol(ctx, sym, tf); err != nil {
			metrics.AggregateErrors.WithLabelValues(tf.String()).Inc()
			p.log.Warn().Err(err).Str("symbol", sym).Str("timeframe", tf.String()).Msg("symbol aggregation failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (p *Processor) processSymbol(ctx context.Context, symbol string, tf market.Timeframe) error {
	end := p.now()
	start := end.Add(-p.window)

	ticks, err := p.store.GetTicks(ctx, symbol, start, end, 0)
	if err != nil {
		return fmt.Errorf("fetch ticks: %w", err)
	}
	if len(ticks) == 0 {
		return nil
	}

	bars := resample.Resample(ticks, tf)
	for _, bar := range bars {
		if err := p.store.InsertBar(ctx, bar); err != nil {
			return fmt.Errorf("upsert bar: %w", err)
		}
		metrics.BarsTotal.WithLabelValues(symbol, tf.String()).Inc()
	}
	p.log.Debug().Str("symbol", symbol).Str("timeframe", tf.String()).Int("bars", len(bars)).Msg("resampled window")
	return nil
}
