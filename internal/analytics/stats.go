package analytics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"pairflow/internal/market"
)

// PriceStats summarizes the distribution of a price series.
type PriceStats struct {
	Mean     float64
	Std      float64
	Min      float64
	Max      float64
	Median   float64
	Skew     float64
	Kurtosis float64 // excess kurtosis
	Count    int
}

// PriceStats computes basic distributional statistics. NaN observations are
// dropped first; an empty series yields ok=false, not an error.
func (e *Engine) PriceStats(prices []float64) (PriceStats, bool) {
	clean := dropNaN(prices)
	if len(clean) == 0 {
		return PriceStats{}, false
	}
	return PriceStats{
		Mean:     stat.Mean(clean, nil),
		Std:      stat.StdDev(clean, nil),
		Min:      floats.Min(clean),
		Max:      floats.Max(clean),
		Median:   median(clean),
		Skew:     stat.Skew(clean, nil),
		Kurtosis: stat.ExKurtosis(clean, nil),
		Count:    len(clean),
	}, true
}

func median(series []float64) float64 {
	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// LiquidityMetrics summarizes trade activity over a tick batch.
type LiquidityMetrics struct {
	TotalVolume  float64
	TradeCount   int
	AvgTradeSize float64
}

// Liquidity computes volume metrics over a tick batch; empty input yields ok=false.
func (e *Engine) Liquidity(ticks []market.Tick) (LiquidityMetrics, bool) {
	if len(ticks) == 0 {
		return LiquidityMetrics{}, false
	}
	var total float64
	for _, tk := range ticks {
		total += tk.Size
	}
	return LiquidityMetrics{
		TotalVolume:  total,
		TradeCount:   len(ticks),
		AvgTradeSize: total / float64(len(ticks)),
	}, true
}
