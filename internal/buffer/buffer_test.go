package buffer

import (
	"sync"
	"testing"
	"time"

	"pairflow/internal/market"
)

func TestAppendAndSwap(t *testing.T) {
	buf := New(8)
	ts := time.Unix(1, 0).UTC()
	buf.Append(market.Tick{Symbol: "btcusdt", Ts: ts, Price: 1, Size: 1})
	buf.Append(market.Tick{Symbol: "btcusdt", Ts: ts.Add(time.Second), Price: 2, Size: 1})

	if buf.Len() != 2 {
		t.Fatalf("expected 2 buffered ticks, got %d", buf.Len())
	}

	batch := buf.Swap()
	if len(batch) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(batch))
	}
	if batch[0].Price != 1 || batch[1].Price != 2 {
		t.Fatalf("append order not preserved: %+v", batch)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty buffer after swap, got %d", buf.Len())
	}
	if got := buf.Swap(); len(got) != 0 {
		t.Fatalf("expected empty batch from empty buffer, got %d", len(got))
	}
}

func TestConcurrentAppendersLoseNothing(t *testing.T) {
	buf := New(0)
	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				buf.Append(market.Tick{Symbol: sym, Price: float64(i)})
			}
		}(string(rune('a' + p)))
	}

	var drained int
	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	for {
		drained += len(buf.Swap())
		select {
		case <-done:
			drained += len(buf.Swap())
			if drained != producers*perProducer {
				t.Errorf("expected %d ticks across swaps, got %d", producers*perProducer, drained)
			}
			return
		default:
		}
	}
}
