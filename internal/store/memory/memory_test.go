package memory

import (
	"context"
	"testing"
	"time"

	"pairflow/internal/market"
)

func TestInsertTicksDeduplicates(t *testing.T) {
	s := New()
	ctx := context.Background()
	ts := time.Unix(100, 0).UTC()
	tk := market.Tick{Symbol: "btcusdt", Ts: ts, Price: 100, Size: 1}

	if err := s.InsertTicks(ctx, []market.Tick{tk, tk}); err != nil {
		t.Fatalf("InsertTicks returned error: %v", err)
	}
	if err := s.InsertTicks(ctx, []market.Tick{tk}); err != nil {
		t.Fatalf("InsertTicks returned error: %v", err)
	}
	if s.TickCount() != 1 {
		t.Fatalf("expected 1 unique tick, got %d", s.TickCount())
	}
}

func TestGetTicksOrderedAndLimited(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Unix(1000, 0).UTC()

	ticks := []market.Tick{
		{Symbol: "btcusdt", Ts: base.Add(2 * time.Second), Price: 102, Size: 1},
		{Symbol: "btcusdt", Ts: base, Price: 100, Size: 1},
		{Symbol: "btcusdt", Ts: base.Add(time.Second), Price: 101, Size: 1},
		{Symbol: "ethusdt", Ts: base, Price: 10, Size: 1},
	}
	if err := s.InsertTicks(ctx, ticks); err != nil {
		t.Fatalf("InsertTicks returned error: %v", err)
	}

	got, err := s.GetTicks(ctx, "btcusdt", base, base.Add(time.Minute), 0)
	if err != nil {
		t.Fatalf("GetTicks returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Ts.Before(got[i-1].Ts) {
			t.Fatalf("ticks not ascending at %d", i)
		}
	}

	limited, err := s.GetTicks(ctx, "btcusdt", base, base.Add(time.Minute), 2)
	if err != nil {
		t.Fatalf("GetTicks returned error: %v", err)
	}
	if len(limited) != 2 || limited[0].Price != 101 {
		t.Fatalf("expected the 2 most recent ticks, got %+v", limited)
	}
}

func TestInsertBarUpserts(t *testing.T) {
	s := New()
	ctx := context.Background()
	ts := time.Unix(60, 0).UTC()

	bar := market.Bar{Symbol: "btcusdt", Timeframe: market.TF1m, Ts: ts, Open: 1, High: 2, Low: 1, Close: 2, Volume: 5}
	if err := s.InsertBar(ctx, bar); err != nil {
		t.Fatalf("InsertBar returned error: %v", err)
	}
	// Same key, identical values: stored state unchanged.
	if err := s.InsertBar(ctx, bar); err != nil {
		t.Fatalf("InsertBar returned error: %v", err)
	}
	got, err := s.GetBars(ctx, "btcusdt", market.TF1m, ts, ts)
	if err != nil {
		t.Fatalf("GetBars returned error: %v", err)
	}
	if len(got) != 1 || got[0].Close != 2 {
		t.Fatalf("unexpected bars: %+v", got)
	}

	// Same key, new values: overwritten.
	bar.Close = 3
	bar.Volume = 9
	if err := s.InsertBar(ctx, bar); err != nil {
		t.Fatalf("InsertBar returned error: %v", err)
	}
	got, err = s.GetBars(ctx, "btcusdt", market.TF1m, ts, ts)
	if err != nil {
		t.Fatalf("GetBars returned error: %v", err)
	}
	if len(got) != 1 || got[0].Close != 3 || got[0].Volume != 9 {
		t.Fatalf("expected overwrite, got %+v", got)
	}
}

func TestSymbols(t *testing.T) {
	s := New()
	ctx := context.Background()
	ts := time.Unix(0, 0).UTC()
	_ = s.InsertTicks(ctx, []market.Tick{
		{Symbol: "ethusdt", Ts: ts, Price: 1, Size: 1},
		{Symbol: "btcusdt", Ts: ts, Price: 1, Size: 1},
	})

	syms, err := s.Symbols(ctx)
	if err != nil {
		t.Fatalf("Symbols returned error: %v", err)
	}
	if len(syms) != 2 || syms[0] != "btcusdt" || syms[1] != "ethusdt" {
		t.Fatalf("unexpected symbols: %+v", syms)
	}
}
