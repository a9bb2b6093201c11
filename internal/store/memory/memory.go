// Package memory provides an in-process Store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pairflow/internal/market"
)

type tickKey struct {
	symbol string
	ts     int64
	price  float64
	size   float64
}

type barKey struct {
	symbol    string
	timeframe market.Timeframe
	ts        int64
}

// Store keeps ticks and bars in maps keyed the same way the durable backends are.
type Store struct {
	mu    sync.RWMutex
	ticks map[tickKey]market.Tick
	bars  map[barKey]market.Bar
}

func New() *Store {
	return &Store{
		ticks: make(map[tickKey]market.Tick),
		bars:  make(map[barKey]market.Bar),
	}
}

func (s *Store) InsertTicks(_ context.Context, ticks []market.Tick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tk := range ticks {
		key := tickKey{symbol: tk.Symbol, ts: tk.Ts.UnixNano(), price: tk.Price, size: tk.Size}
		s.ticks[key] = tk
	}
	return nil
}

func (s *Store) InsertBar(_ context.Context, bar market.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := barKey{symbol: bar.Symbol, timeframe: bar.Timeframe, ts: bar.Ts.UnixNano()}
	s.bars[key] = bar
	return nil
}

func (s *Store) GetTicks(_ context.Context, symbol string, start, end time.Time, limit int) ([]market.Tick, error) {
	s.mu.RLock()
	var out []market.Tick
	for key, tk := range s.ticks {
		if key.symbol != symbol {
			continue
		}
		if tk.Ts.Before(start) || tk.Ts.After(end) {
			continue
		}
		out = append(out, tk)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Store) GetBars(_ context.Context, symbol string, tf market.Timeframe, start, end time.Time) ([]market.Bar, error) {
	s.mu.RLock()
	var out []market.Bar
	for key, bar := range s.bars {
		if key.symbol != symbol || key.timeframe != tf {
			continue
		}
		if bar.Ts.Before(start) || bar.Ts.After(end) {
			continue
		}
		out = append(out, bar)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })
	return out, nil
}

func (s *Store) Symbols(_ context.Context) ([]string, error) {
	s.mu.RLock()
	set := make(map[string]struct{})
	for key := range s.ticks {
		set[key.symbol] = struct{}{}
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(set))
	for sym := range set {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out, nil
}

// TickCount reports the number of stored unique ticks.
func (s *Store) TickCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ticks)
}
