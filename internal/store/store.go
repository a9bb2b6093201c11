// Package store defines the persistence contract consumed by the ingestion and aggregation pipeline.
package store

import (
	"context"
	"time"

	"pairflow/internal/market"
)

// Store is the time-series persistence collaborator. Implementations must be
// safe for concurrent batched writes and concurrent reads.
type Store interface {
	// InsertTicks persists a batch in one call. Duplicate ticks with an identical
	// (symbol, ts, price, size) key are merged idempotently.
	InsertTicks(ctx context.Context, ticks []market.Tick) error
	// InsertBar upserts one OHLC bar keyed by (symbol, timeframe, ts).
	InsertBar(ctx context.Context, bar market.Bar) error
	// GetTicks returns ticks for a symbol within [start, end], ascending by time.
	// limit <= 0 means no limit; a positive limit keeps the most recent rows.
	GetTicks(ctx context.Context, symbol string, start, end time.Time, limit int) ([]market.Tick, error)
	// GetBars returns bars for a symbol and timeframe within [start, end], ascending by time.
	GetBars(ctx context.Context, symbol string, tf market.Timeframe, start, end time.Time) ([]market.Bar, error)
	// Symbols lists every symbol with at least one stored tick.
	Symbols(ctx context.Context) ([]string, error)
}
