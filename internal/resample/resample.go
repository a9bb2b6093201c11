// Package resample converts raw tick series into fixed-interval OHLC bars.
package resample

import (
	"sort"
	"time"

	"pairflow/internal/market"
)

// Resample partitions ticks into non-overlapping buckets aligned to the
// timeframe boundary and summarizes each non-empty bucket as one bar. Empty
// buckets produce no bar (no forward-fill). Output is deterministic: bars are
// sorted by bucket open time and repeated invocations over the same input
// yield identical results.
func Resample(ticks []market.Tick, tf market.Timeframe) []market.Bar {
	if len(ticks) == 0 {
		return nil
	}

	ordered := make([]market.Tick, len(ticks))
	copy(ordered, ticks)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ts.Before(ordered[j].Ts) })

	width := tf.Duration()
	var bars []market.Bar
	var cur *market.Bar
	var curBucket time.Time

	for _, tk := range ordered {
		bucket := tk.Ts.Truncate(width)
		if cur == nil || !bucket.Equal(curBucket) {
			if cur != nil {
				bars = append(bars, *cur)
			}
			cur = &market.Bar{
				Symbol:    tk.Symbol,
				Timeframe: tf,
				Ts:        bucket,
				Open:      tk.Price,
				High:      tk.Price,
				Low:       tk.Price,
				Close:     tk.Price,
				Volume:    tk.Size,
			}
			curBucket = bucket
			continue
		}
		if tk.Price > cur.High {
			cur.High = tk.Price
		}
		if tk.Price < cur.Low {
			cur.Low = tk.Price
		}
		cur.Close = tk.Price
		cur.Volume += tk.Size
	}
	bars = append(bars, *cur)
	return bars
}
