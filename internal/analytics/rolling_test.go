package analytics

import (
	"errors"
	"math"
	"testing"
)

func TestRollingZScoreWarmupAndValues(t *testing.T) {
	e := New()
	series := []float64{1, 2, 3, 4, 5}
	z := e.RollingZScore(series, 3)
	if len(z) != 5 {
		t.Fatalf("expected output length 5, got %d", len(z))
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(z[i]) {
			t.Fatalf("expected NaN during warmup at %d, got %f", i, z[i])
		}
	}
	// Window [1,2,3]: mean 2, sample std 1 → z = (3-2)/1.
	if math.Abs(z[2]-1) > 1e-12 {
		t.Fatalf("expected z=1 at index 2, got %f", z[2])
	}
	if math.Abs(z[4]-1) > 1e-12 {
		t.Fatalf("expected z=1 at index 4, got %f", z[4])
	}
}

func TestRollingZScoreConstantSeries(t *testing.T) {
	e := New()
	series := []float64{7, 7, 7, 7, 7, 7}
	for i, v := range e.RollingZScore(series, 3) {
		if !math.IsNaN(v) {
			t.Fatalf("expected NaN for zero-variance window at %d, got %f", i, v)
		}
	}
}

func TestRollingZScoreDefaultWindow(t *testing.T) {
	e := New(WithRollingWindow(4))
	series := []float64{1, 2, 3, 4, 5}
	z := e.RollingZScore(series, 0)
	if !math.IsNaN(z[2]) {
		t.Fatalf("expected NaN before default window fills, got %f", z[2])
	}
	if math.IsNaN(z[3]) {
		t.Fatal("expected value once default window fills")
	}
}

func TestRollingCorrelation(t *testing.T) {
	e := New()
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2, 4, 6, 8, 10, 12}
	corr, err := e.RollingCorrelation(x, y, 3)
	if err != nil {
		t.Fatalf("RollingCorrelation returned error: %v", err)
	}
	for i := 2; i < len(corr); i++ {
		if math.Abs(corr[i]-1) > 1e-12 {
			t.Fatalf("expected correlation 1 at %d, got %f", i, corr[i])
		}
	}

	inv := []float64{12, 10, 8, 6, 4, 2}
	corr, err = e.RollingCorrelation(x, inv, 3)
	if err != nil {
		t.Fatalf("RollingCorrelation returned error: %v", err)
	}
	for i := 2; i < len(corr); i++ {
		if math.Abs(corr[i]+1) > 1e-12 {
			t.Fatalf("expected correlation -1 at %d, got %f", i, corr[i])
		}
	}
}

func TestRollingCorrelationMismatched(t *testing.T) {
	e := New()
	if _, err := e.RollingCorrelation([]float64{1, 2}, []float64{1}, 2); !errors.Is(err, ErrMismatchedSeries) {
		t.Fatalf("expected ErrMismatchedSeries, got %v", err)
	}
}
