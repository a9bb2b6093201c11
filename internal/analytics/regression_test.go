package analytics

import (
	"errors"
	"math"
	"testing"
)

func TestRegressionPerfectLinear(t *testing.T) {
	e := New()
	x := []float64{1, 2, 3, 4, 5}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	res, err := e.Regression(x, y, false)
	if err != nil {
		t.Fatalf("Regression returned error: %v", err)
	}
	if math.Abs(res.HedgeRatio-2) > 1e-9 {
		t.Fatalf("expected hedge ratio 2, got %f", res.HedgeRatio)
	}
	if math.Abs(res.Intercept-1) > 1e-9 {
		t.Fatalf("expected intercept 1, got %f", res.Intercept)
	}
	if math.Abs(res.RSquared-1) > 1e-9 {
		t.Fatalf("expected r-squared 1, got %f", res.RSquared)
	}
	if res.NObs != 5 {
		t.Fatalf("expected 5 observations, got %d", res.NObs)
	}
	if math.Abs(res.SpreadMean) > 1e-9 || math.Abs(res.SpreadStd) > 1e-9 {
		t.Fatalf("expected zero residual moments, got %f/%f", res.SpreadMean, res.SpreadStd)
	}
	if res.PValue != 0 {
		t.Fatalf("expected p-value 0 for exact fit, got %f", res.PValue)
	}
	if res.Robust {
		t.Fatal("expected OLS result")
	}
}

func TestRegressionTwoPoints(t *testing.T) {
	e := New()
	res, err := e.Regression([]float64{0, 1}, []float64{1, 3}, false)
	if err != nil {
		t.Fatalf("Regression returned error: %v", err)
	}
	if math.Abs(res.HedgeRatio-2) > 1e-9 || math.Abs(res.Intercept-1) > 1e-9 {
		t.Fatalf("unexpected fit: %+v", res)
	}
	// No degrees of freedom left for inference.
	if !math.IsNaN(res.PValue) || !math.IsNaN(res.StdErr) {
		t.Fatalf("expected NaN diagnostics with n=2, got %+v", res)
	}
}

func TestRegressionErrors(t *testing.T) {
	e := New()
	if _, err := e.Regression([]float64{1, 2}, []float64{1}, false); !errors.Is(err, ErrMismatchedSeries) {
		t.Fatalf("expected ErrMismatchedSeries, got %v", err)
	}
	if _, err := e.Regression([]float64{1}, []float64{2}, false); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	// NaN rows are dropped before the length check on valid pairs.
	nan := math.NaN()
	if _, err := e.Regression([]float64{1, nan, nan}, []float64{2, 3, 4}, false); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData after dropping NaN rows, got %v", err)
	}
}

func TestRegressionDropsNaNPairs(t *testing.T) {
	e := New()
	nan := math.NaN()
	x := []float64{1, 2, nan, 3, 4}
	y := []float64{3, 5, 100, nan, 9}

	res, err := e.Regression(x, y, false)
	if err != nil {
		t.Fatalf("Regression returned error: %v", err)
	}
	if res.NObs != 3 {
		t.Fatalf("expected 3 valid pairs, got %d", res.NObs)
	}
	if math.Abs(res.HedgeRatio-2) > 1e-9 || math.Abs(res.Intercept-1) > 1e-9 {
		t.Fatalf("unexpected fit: %+v", res)
	}
}

func TestRobustRegressionResistsOutlier(t *testing.T) {
	e := New()
	var x, y []float64
	for i := 0; i < 20; i++ {
		x = append(x, float64(i))
		y = append(y, 2*float64(i)+1)
	}
	y[10] += 50 // gross outlier

	ols, err := e.Regression(x, y, false)
	if err != nil {
		t.Fatalf("OLS returned error: %v", err)
	}
	robust, err := e.Regression(x, y, true)
	if err != nil {
		t.Fatalf("robust returned error: %v", err)
	}
	if !robust.Robust {
		t.Fatal("expected robust result")
	}
	if math.Abs(robust.HedgeRatio-2) >= math.Abs(ols.HedgeRatio-2) {
		t.Fatalf("expected robust fit closer to 2: robust=%f ols=%f", robust.HedgeRatio, ols.HedgeRatio)
	}
	if !math.IsNaN(robust.RSquared) || !math.IsNaN(robust.PValue) || !math.IsNaN(robust.StdErr) {
		t.Fatalf("expected NaN diagnostics in robust mode, got %+v", robust)
	}
}

func TestRobustRegressionDegradesToOLS(t *testing.T) {
	e := New(WithRobustRegression(false))
	x := []float64{1, 2, 3, 4}
	y := []float64{3, 5, 7, 9}

	res, err := e.Regression(x, y, true)
	if err != nil {
		t.Fatalf("Regression returned error: %v", err)
	}
	if res.Robust {
		t.Fatal("expected silent degradation to OLS")
	}
	if math.IsNaN(res.RSquared) {
		t.Fatal("expected OLS diagnostics after degradation")
	}
}
