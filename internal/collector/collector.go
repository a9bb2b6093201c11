// Package collector owns the lifecycle of the ingestion side: one feed
// connection per symbol plus the flush scheduler.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pairflow/internal/buffer"
	"pairflow/internal/exchange"
)

// Collector orchestrates the configured symbol streams and the buffer flusher.
// Run blocks until the context is canceled, joins every task, then performs
// the one final flush of whatever is still buffered.
type Collector struct {
	symbols []string
	flusher *buffer.Flusher
	log     zerolog.Logger

	conns []*exchange.Conn
	stub  *exchange.Stub
}

// New validates the symbol list and constructs all per-symbol connections.
func New(provider, baseURL string, symbols []string, buf *buffer.Buffer, flusher *buffer.Flusher, log zerolog.Logger, connOpts ...exchange.ConnOption) (*Collector, error) {
	clean := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		clean = append(clean, s)
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("at least one symbol must be provided")
	}

	c := &Collector{symbols: clean, flusher: flusher, log: log}
	switch provider {
	case exchange.ProviderStub:
		c.stub = exchange.NewStub(clean, 0, buf, log)
	case exchange.ProviderBinance, "":
		for _, sym := range clean {
			c.conns = append(c.conns, exchange.NewConn(baseURL, sym, buf, log, connOpts...))
		}
	default:
		return nil, fmt.Errorf("unknown feed provider %q", provider)
	}
	return c, nil
}

// Symbols returns the normalized symbol list.
func (c *Collector) Symbols() []string {
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Conns exposes the per-symbol connections for state inspection.
func (c *Collector) Conns() []*exchange.Conn { return c.conns }

// Run starts every feed task and the flush scheduler, waits for shutdown,
// joins all tasks, and flushes the remaining buffer exactly once.
func (c *Collector) Run(ctx context.Context) error {
	c.log.Info().Strs("symbols", c.symbols).Msg("collector starting")

	var wg sync.WaitGroup
	if c.stub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.stub.Run(ctx)
		}()
	}
	for _, conn := range c.conns {
		wg.Add(1)
		go func(conn *exchange.Conn) {
			defer wg.Done()
			// A fatal endpoint error stops this symbol only; siblings keep running.
			if err := conn.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.log.Error().Err(err).Msg("feed connection stopped")
			}
		}(conn)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.flusher.Run(ctx)
	}()

	wg.Wait()

	// The run context is already canceled; give the final flush its own bound.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if n := c.flusher.Flush(flushCtx); n > 0 {
		c.log.Info().Int("ticks", n).Msg("final flush")
	}
	c.log.Info().Msg("collector stopped")
	return ctx.Err()
}
