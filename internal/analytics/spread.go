package analytics

import (
	"sort"
	"time"
)

// Point is one observation of a time series.
type Point struct {
	Ts    time.Time
	Value float64
}

// Spread pairs each observation of series b with the most recent observation
// of series a at or before its timestamp (as-of matching) and computes
// b − hedgeRatio·a. A zero hedge ratio defaults to 1. Observations of b with
// no prior a are skipped.
func (e *Engine) Spread(a, b []Point, hedgeRatio float64) []Point {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	if hedgeRatio == 0 {
		hedgeRatio = 1
	}

	sa := sortedByTime(a)
	sb := sortedByTime(b)

	out := make([]Point, 0, len(sb))
	i := 0
	for _, pb := range sb {
		for i+1 < len(sa) && !sa[i+1].Ts.After(pb.Ts) {
			i++
		}
		if sa[i].Ts.After(pb.Ts) {
			continue
		}
		out = append(out, Point{Ts: pb.Ts, Value: pb.Value - hedgeRatio*sa[i].Value})
	}
	return out
}

func sortedByTime(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })
	return out
}

// Values extracts the value column of a point series.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
