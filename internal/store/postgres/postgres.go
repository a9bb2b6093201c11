// Package postgres backs the Store interface with a Postgres database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"pairflow/internal/market"
)

const schema = `
CREATE TABLE IF NOT EXISTS ticks (
	symbol TEXT NOT NULL,
	ts TIMESTAMPTZ NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	size DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (symbol, ts, price, size)
);
CREATE INDEX IF NOT EXISTS ticks_symbol_ts ON ticks (symbol, ts);

CREATE TABLE IF NOT EXISTS ohlc (
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	ts TIMESTAMPTZ NOT NULL,
	open DOUBLE PRECISION NOT NULL,
	high DOUBLE PRECISION NOT NULL,
	low DOUBLE PRECISION NOT NULL,
	close DOUBLE PRECISION NOT NULL,
	volume DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (symbol, timeframe, ts)
);
`

// Store persists ticks and OHLC bars in Postgres.
type Store struct {
	db *sql.DB
}

// Open connects, verifies the connection, and bootstraps the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) InsertTicks(ctx context.Context, ticks []market.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tick batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ticks (symbol, ts, price, size) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (symbol, ts, price, size) DO NOTHING`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare tick insert: %w", err)
	}
	defer stmt.Close()

	for _, tk := range ticks {
		if _, err := stmt.ExecContext(ctx, tk.Symbol, tk.Ts, tk.Price, tk.Size); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert tick: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tick batch: %w", err)
	}
	return nil
}

func (s *Store) InsertBar(ctx context.Context, bar market.Bar) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ohlc (symbol, timeframe, ts, open, high, low, close, volume)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (symbol, timeframe, ts)
		 DO UPDATE SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
		               close = EXCLUDED.close, volume = EXCLUDED.volume`,
		bar.Symbol, string(bar.Timeframe), bar.Ts, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	if err != nil {
		return fmt.Errorf("upsert bar: %w", err)
	}
	return nil
}

func (s *Store) GetTicks(ctx context.Context, symbol string, start, end time.Time, limit int) ([]market.Tick, error) {
	query := `SELECT symbol, ts, price, size FROM ticks
	          WHERE symbol = $1 AND ts >= $2 AND ts <= $3 ORDER BY ts ASC`
	args := []any{symbol, start, end}
	if limit > 0 {
		// Keep the most recent rows but return them ascending.
		query = `SELECT symbol, ts, price, size FROM (
		           SELECT symbol, ts, price, size FROM ticks
		           WHERE symbol = $1 AND ts >= $2 AND ts <= $3 ORDER BY ts DESC LIMIT $4
		         ) recent ORDER BY ts ASC`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	var out []market.Tick
	for rows.Next() {
		var tk market.Tick
		if err := rows.Scan(&tk.Symbol, &tk.Ts, &tk.Price, &tk.Size); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		out = append(out, tk)
	}
	return out, rows.Err()
}

func (s *Store) GetBars(ctx context.Context, symbol string, tf market.Timeframe, start, end time.Time) ([]market.Bar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, timeframe, ts, open, high, low, close, volume FROM ohlc
		 WHERE symbol = $1 AND timeframe = $2 AND ts >= $3 AND ts <= $4 ORDER BY ts ASC`,
		symbol, string(tf), start, end)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var out []market.Bar
	for rows.Next() {
		var bar market.Bar
		var tfs string
		if err := rows.Scan(&bar.Symbol, &tfs, &bar.Ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bar.Timeframe = market.Timeframe(tfs)
		out = append(out, bar)
	}
	return out, rows.Err()
}

func (s *Store) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM ticks ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}
