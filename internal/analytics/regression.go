package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RegressionResult carries a hedge-ratio fit y ≈ HedgeRatio·x + Intercept and
// the residual ("spread") moments. RSquared, PValue, and StdErr are NaN when
// Robust is set: the Huber estimator does not produce them.
type RegressionResult struct {
	HedgeRatio float64
	Intercept  float64
	SpreadMean float64
	SpreadStd  float64
	NObs       int
	Robust     bool
	RSquared   float64
	PValue     float64
	StdErr     float64
}

// Regression fits the hedge ratio between two equal-length series. Rows with
// either value missing are dropped before fitting. With robust set and the
// capability available, a Huber estimator is used; otherwise ordinary least
// squares, including when robust mode is requested but unavailable.
func (e *Engine) Regression(x, y []float64, robust bool) (RegressionResult, error) {
	if len(x) != len(y) {
		return RegressionResult{}, ErrMismatchedSeries
	}
	cx, cy := cleanPairs(x, y)
	if len(cx) < 2 {
		return RegressionResult{}, ErrInsufficientData
	}

	if robust && !e.robustAvailable {
		e.log.Warn().Msg("robust regression requested but unavailable, using OLS")
		robust = false
	}

	var alpha, beta float64
	if robust {
		beta, alpha = huberFit(cx, cy)
	} else {
		alpha, beta = stat.LinearRegression(cx, cy, nil, false)
	}

	res := make([]float64, len(cx))
	for i := range cx {
		res[i] = cy[i] - (beta*cx[i] + alpha)
	}

	out := RegressionResult{
		HedgeRatio: beta,
		Intercept:  alpha,
		SpreadMean: stat.Mean(res, nil),
		SpreadStd:  stat.StdDev(res, nil),
		NObs:       len(cx),
		Robust:     robust,
		RSquared:   math.NaN(),
		PValue:     math.NaN(),
		StdErr:     math.NaN(),
	}
	if robust {
		return out, nil
	}

	out.RSquared = stat.RSquared(cx, cy, nil, alpha, beta)
	if n := len(cx); n > 2 {
		xMean := stat.Mean(cx, nil)
		var sxx, sse float64
		for i := range cx {
			dx := cx[i] - xMean
			sxx += dx * dx
			sse += res[i] * res[i]
		}
		if sxx > 0 {
			se := math.Sqrt(sse / float64(n-2) / sxx)
			out.StdErr = se
			tstat := math.Inf(1)
			if se > 0 {
				tstat = math.Abs(beta / se)
			}
			tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
			out.PValue = 2 * (1 - tdist.CDF(tstat))
		}
	}
	return out, nil
}

// huberFit runs iteratively reweighted least squares with the Huber loss
// (delta 1.345, MAD scale). Falls back to the OLS start point when the fit is
// already exact.
func huberFit(x, y []float64) (beta, alpha float64) {
	alpha, beta = stat.LinearRegression(x, y, nil, false)

	const delta = 1.345
	const maxIter = 50
	const tol = 1e-10

	n := len(x)
	res := make([]float64, n)
	weights := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		for i := range x {
			res[i] = y[i] - (beta*x[i] + alpha)
		}
		scale := 1.4826 * medianAbs(res)
		if scale == 0 {
			return beta, alpha
		}
		for i := range res {
			r := math.Abs(res[i]) / scale
			if r <= delta {
				weights[i] = 1
			} else {
				weights[i] = delta / r
			}
		}
		newAlpha, newBeta := stat.LinearRegression(x, y, weights, false)
		if math.Abs(newBeta-beta) < tol && math.Abs(newAlpha-alpha) < tol {
			return newBeta, newAlpha
		}
		alpha, beta = newAlpha, newBeta
	}
	return beta, alpha
}

func medianAbs(res []float64) float64 {
	abs := make([]float64, len(res))
	for i, r := range res {
		abs[i] = math.Abs(r)
	}
	return median(abs)
}
