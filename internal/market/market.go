// Package market standardizes payloads shared between data ingestion, aggregation, and analytics layers.
package market

import (
	"fmt"
	"time"
)

// Tick models one normalized trade event. Immutable once constructed.
type Tick struct {
	Symbol string    `json:"symbol"`
	Ts     time.Time `json:"ts"`
	Price  float64   `json:"price"`
	Size   float64   `json:"size"`
}

// Timeframe identifies a fixed OHLC aggregation interval.
type Timeframe string

const (
	TF1s Timeframe = "1s"
	TF1m Timeframe = "1m"
	TF5m Timeframe = "5m"
)

// Timeframes lists every supported aggregation interval.
var Timeframes = []Timeframe{TF1s, TF1m, TF5m}

// ParseTimeframe validates a timeframe label.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TF1s, TF1m, TF5m:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

// Duration returns the width of one bucket for the timeframe.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF1s:
		return time.Second
	case TF5m:
		return 5 * time.Minute
	default:
		return time.Minute
	}
}

func (tf Timeframe) String() string { return string(tf) }

// Bar is one OHLCV summary of the ticks inside a single bucket.
// Ts is the bucket open time; one bar exists per (symbol, timeframe, Ts).
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timeframe Timeframe `json:"timeframe"`
	Ts        time.Time `json:"ts"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}
