package buffer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pairflow/internal/market"
	"pairflow/internal/metrics"
	"pairflow/internal/store"
)

// Recorder optionally tees every flushed batch, e.g. to an NDJSON file.
type Recorder interface {
	Record(ticks []market.Tick)
}

// Flusher drains the shared buffer into storage on a fixed interval. A failed
// batched write is logged and dropped, never retried: ingestion favors
// simplicity over durability for transient storage errors.
type Flusher struct {
	buf      *Buffer
	store    store.Store
	interval time.Duration
	log      zerolog.Logger
	recorder Recorder
}

// FlusherOption configures Flusher construction parameters.
type FlusherOption func(*Flusher)

// WithRecorder tees flushed batches to the given recorder.
func WithRecorder(r Recorder) FlusherOption {
	return func(f *Flusher) { f.recorder = r }
}

// NewFlusher wires a flush scheduler over the shared buffer.
func NewFlusher(buf *Buffer, st store.Store, interval time.Duration, log zerolog.Logger, opts ...FlusherOption) *Flusher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	f := &Flusher{buf: buf, store: st, interval: interval, log: log}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run flushes on every tick of the interval until the context is canceled.
// The final drain of a non-empty buffer is the Collector's job, not Run's.
func (f *Flusher) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush swaps the buffer for an empty one and persists the batch in a single
// batched write. Returns the number of ticks persisted.
func (f *Flusher) Flush(ctx context.Context) int {
	batch := f.buf.Swap()
	if len(batch) == 0 {
		return 0
	}

	metrics.FlushesTotal.Inc()
	if f.recorder != nil {
		f.recorder.Record(batch)
	}
	if err := f.store.InsertTicks(ctx, batch); err != nil {
		metrics.FlushFailures.Inc()
		f.log.Error().Err(err).Int("ticks", len(batch)).Msg("flush failed, batch dropped")
		return 0
	}
	metrics.FlushedTicks.Add(float64(len(batch)))
	f.log.Debug().Int("ticks", len(batch)).Msg("flushed buffer")
	return len(batch)
}
