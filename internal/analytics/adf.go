package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ADFResult holds an augmented Dickey-Fuller test outcome for the
// constant-only regression.
type ADFResult struct {
	Statistic      float64
	PValue         float64
	CriticalValues map[string]float64
	Lags           int
	NObs           int
	Stationary     bool // verdict at the 5% significance threshold
}

const adfMinObservations = 10

// ADF runs the augmented Dickey-Fuller stationarity test. NaN observations
// are dropped first; fewer than 10 valid observations is an error result.
// maxLag < 0 selects the Schwert default, and the used lag is chosen by AIC.
func (e *Engine) ADF(series []float64, maxLag int) (ADFResult, error) {
	y := dropNaN(series)
	n := len(y)
	if n < adfMinObservations {
		return ADFResult{}, ErrInsufficientData
	}

	if maxLag < 0 {
		maxLag = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	// Keep the regression overdetermined: nobs, n-1-maxLag, must exceed the
	// parameter count maxLag+2.
	for maxLag > 0 && n-1-maxLag < maxLag+3 {
		maxLag--
	}

	// Lag selection by AIC over a fixed sample so fits are comparable.
	bestLag := 0
	bestAIC := math.Inf(1)
	for k := 0; k <= maxLag; k++ {
		fit, err := adfRegression(y, k, maxLag+1)
		if err != nil {
			continue
		}
		if fit.aic < bestAIC {
			bestAIC = fit.aic
			bestLag = k
		}
	}

	fit, err := adfRegression(y, bestLag, bestLag+1)
	if err != nil {
		return ADFResult{}, fmt.Errorf("adf regression: %w", err)
	}

	pvalue := mackinnonP(fit.tau)
	return ADFResult{
		Statistic:      fit.tau,
		PValue:         pvalue,
		CriticalValues: mackinnonCrit(fit.nobs),
		Lags:           bestLag,
		NObs:           fit.nobs,
		Stationary:     pvalue < 0.05,
	}, nil
}

type adfFit struct {
	tau  float64
	aic  float64
	nobs int
}

// adfRegression fits Δy_t = α + γ·y_{t-1} + Σ δ_i·Δy_{t-i} + ε over rows
// t = startT..n-1 and returns the t-statistic of γ.
func adfRegression(y []float64, k, startT int) (adfFit, error) {
	n := len(y)
	rows := n - startT
	cols := 2 + k
	if rows <= cols {
		return adfFit{}, ErrInsufficientData
	}

	diff := func(t int) float64 { return y[t] - y[t-1] }

	X := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := startT + r
		b.SetVec(r, diff(t))
		X.Set(r, 0, 1)
		X.Set(r, 1, y[t-1])
		for i := 1; i <= k; i++ {
			X.Set(r, 1+i, diff(t-i))
		}
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, b); err != nil {
		return adfFit{}, fmt.Errorf("solve least squares: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(X, &beta)
	var sse float64
	for r := 0; r < rows; r++ {
		resid := b.AtVec(r) - fitted.AtVec(r)
		sse += resid * resid
	}

	var xtx, inv mat.Dense
	xtx.Mul(X.T(), X)
	if err := inv.Inverse(&xtx); err != nil {
		return adfFit{}, fmt.Errorf("invert normal matrix: %w", err)
	}

	sigma2 := sse / float64(rows-cols)
	se := math.Sqrt(sigma2 * inv.At(1, 1))
	tau := math.Inf(-1)
	if se > 0 {
		tau = beta.AtVec(1) / se
	}

	aic := math.Inf(-1)
	if sse > 0 {
		aic = float64(rows)*math.Log(sse/float64(rows)) + 2*float64(cols)
	}
	return adfFit{tau: tau, aic: aic, nobs: rows}, nil
}

// MacKinnon (2010) response-surface coefficients for the constant-only case,
// one integrated series. cv = b0 + b1/T + b2/T² + b3/T³.
var mackinnonCritCoeffs = map[string][4]float64{
	"1%":  {-3.43035, -6.5393, -16.786, -79.433},
	"5%":  {-2.86154, -2.8903, -4.234, -40.04},
	"10%": {-2.56677, -1.5384, -2.809, 0},
}

func mackinnonCrit(nobs int) map[string]float64 {
	T := float64(nobs)
	out := make(map[string]float64, len(mackinnonCritCoeffs))
	for level, c := range mackinnonCritCoeffs {
		out[level] = c[0] + c[1]/T + c[2]/(T*T) + c[3]/(T*T*T)
	}
	return out
}

// MacKinnon (1994) approximate asymptotic p-value for the constant-only tau
// statistic: Φ evaluated on a polynomial of tau, with separate fits for the
// lower and upper range.
const (
	tauStar = -1.61
	tauMin  = -18.83
	tauMax  = 2.74
)

var (
	tauSmallP = []float64{2.1659, 1.4412, 0.038269}
	tauLargeP = []float64{1.7339, 0.93202, -0.15580, -0.03332}
)

func mackinnonP(tau float64) float64 {
	switch {
	case tau <= tauMin:
		return 0
	case tau >= tauMax:
		return 1
	}
	coeffs := tauLargeP
	if tau <= tauStar {
		coeffs = tauSmallP
	}
	var poly, pow float64
	pow = 1
	for _, c := range coeffs {
		poly += c * pow
		pow *= tau
	}
	return distuv.UnitNormal.CDF(poly)
}
