// Package buffer accumulates normalized ticks from every feed connection and
// drains them to storage on a fixed cadence.
package buffer

import (
	"sync"

	"pairflow/internal/market"
)

// Buffer is the single mutex-guarded tick accumulator shared by all
// connections. Appends never block on persistence; the flush scheduler swaps
// the slice out wholesale so writers observe either the pre- or post-swap
// buffer, never a torn state.
type Buffer struct {
	mu    sync.Mutex
	ticks []market.Tick
}

// New creates an empty buffer optionally pre-sizing storage.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{ticks: make([]market.Tick, 0, capacity)}
}

// Append adds one tick in arrival order.
func (b *Buffer) Append(t market.Tick) {
	b.mu.Lock()
	b.ticks = append(b.ticks, t)
	b.mu.Unlock()
}

// Swap atomically replaces the accumulator with an empty one and returns the
// drained batch.
func (b *Buffer) Swap() []market.Tick {
	b.mu.Lock()
	out := b.ticks
	b.ticks = make([]market.Tick, 0, cap(out))
	b.mu.Unlock()
	return out
}

// Len reports the number of buffered ticks.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ticks)
}
