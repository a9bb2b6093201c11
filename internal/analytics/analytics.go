// Package analytics computes the statistics behind pairs-style signal
// generation: price moments, hedge-ratio regression, spread construction,
// rolling z-scores and correlation, and the ADF stationarity test. Every
// function is pure given its inputs.
package analytics

import (
	"errors"
	"math"

	"github.com/rs/zerolog"
)

var (
	// ErrInsufficientData marks series too short for the requested computation.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMismatchedSeries marks paired inputs whose lengths differ.
	ErrMismatchedSeries = errors.New("series lengths differ")
)

// Engine bundles the configuration the statistics consume. The robust
// regression capability is resolved once at construction; a robust request
// without the capability silently degrades to OLS.
type Engine struct {
	rollingWindow   int
	robustAvailable bool
	log             zerolog.Logger
}

// Option configures Engine construction parameters.
type Option func(*Engine)

// WithRollingWindow sets the default trailing window for z-score/correlation.
func WithRollingWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.rollingWindow = n
		}
	}
}

// WithRobustRegression toggles the Huber estimator capability.
func WithRobustRegression(available bool) Option {
	return func(e *Engine) { e.robustAvailable = available }
}

// WithLogger attaches a logger for degradation notices.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New constructs an engine. Defaults: 20-observation rolling window, robust
// regression available.
func New(opts ...Option) *Engine {
	e := &Engine{rollingWindow: 20, robustAvailable: true, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RobustAvailable reports whether the Huber estimator capability is enabled.
func (e *Engine) RobustAvailable() bool { return e.robustAvailable }

// dropNaN returns the finite-or-NaN-free subset of a series.
func dropNaN(series []float64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// cleanPairs drops rows where either side is NaN.
func cleanPairs(x, y []float64) ([]float64, []float64) {
	cx := make([]float64, 0, len(x))
	cy := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		cx = append(cx, x[i])
		cy = append(cy, y[i])
	}
	return cx, cy
}
