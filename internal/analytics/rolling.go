package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RollingZScore computes (value − rolling mean) / rolling std over a fixed
// trailing window. Positions before the window fills, and windows with zero
// variance, are NaN rather than a fault. window <= 0 uses the engine default.
func (e *Engine) RollingZScore(series []float64, window int) []float64 {
	if window <= 0 {
		window = e.rollingWindow
	}
	out := make([]float64, len(series))
	for i := range series {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		win := series[i+1-window : i+1]
		mean := stat.Mean(win, nil)
		std := stat.StdDev(win, nil)
		if std == 0 || math.IsNaN(std) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (series[i] - mean) / std
	}
	return out
}

// RollingCorrelation computes the Pearson correlation between two equal-length
// series over a fixed trailing window. Unfilled or degenerate windows are NaN.
func (e *Engine) RollingCorrelation(x, y []float64, window int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, ErrMismatchedSeries
	}
	if window <= 0 {
		window = e.rollingWindow
	}
	out := make([]float64, len(x))
	for i := range x {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Correlation(x[i+1-window:i+1], y[i+1-window:i+1], nil)
	}
	return out, nil
}
