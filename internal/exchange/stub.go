package exchange

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pairflow/internal/market"
	"pairflow/internal/metrics"
)

// Stub appends deterministic synthetic ticks for every configured symbol.
// It stands in for the live feed in tests and offline runs.
type Stub struct {
	symbols  []string
	interval time.Duration
	buf      Appender
	log      zerolog.Logger
}

// NewStub builds a stub source emitting one tick per symbol per interval.
func NewStub(symbols []string, interval time.Duration, buf Appender, log zerolog.Logger) *Stub {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	clean := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			clean = append(clean, s)
		}
	}
	return &Stub{symbols: clean, interval: interval, buf: buf, log: log}
}

// Run pushes ticks into the buffer until the context is canceled.
func (s *Stub) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	px := 100.0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			px += 0.1
			for _, sym := range s.symbols {
				s.buf.Append(market.Tick{Symbol: sym, Ts: ts, Price: px, Size: 1})
				metrics.TicksTotal.WithLabelValues(sym).Inc()
			}
		}
	}
}
