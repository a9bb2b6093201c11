package exchange

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"pairflow/internal/market"
	"pairflow/internal/metrics"
)

type rawTrade struct {
	Event     string          `json:"e"`
	Symbol    string          `json:"s"`
	TradeTime int64           `json:"T"`
	EventTime int64           `json:"E"`
	Time      int64           `json:"t"`
	Price     json.RawMessage `json:"p"`
	Quantity  json.RawMessage `json:"q"`
}

// Normalize maps a raw exchange message to a Tick. Non-trade events and
// undecodable bodies are dropped (ok=false). Unparsable numeric fields default
// to 0 rather than failing the message; each such tick bumps a counter so the
// lossy fallback stays observable.
func Normalize(raw []byte, now func() time.Time) (market.Tick, bool) {
	var msg rawTrade
	if err := json.Unmarshal(raw, &msg); err != nil {
		return market.Tick{}, false
	}
	if msg.Event != "trade" {
		return market.Tick{}, false
	}

	var ts time.Time
	switch {
	case msg.TradeTime != 0:
		ts = time.UnixMilli(msg.TradeTime)
	case msg.EventTime != 0:
		ts = time.UnixMilli(msg.EventTime)
	case msg.Time != 0:
		ts = time.UnixMilli(msg.Time)
	default:
		ts = now()
	}

	price, pok := parseNumeric(msg.Price)
	size, qok := parseNumeric(msg.Quantity)

	tick := market.Tick{
		Symbol: strings.ToLower(msg.Symbol),
		Ts:     ts,
		Price:  price,
		Size:   size,
	}
	if !pok || !qok {
		metrics.TicksDefaulted.WithLabelValues(tick.Symbol).Inc()
	}
	return tick, true
}

// parseNumeric accepts both quoted ("123.4") and bare (123.4) JSON numbers.
// Anything unparsable, negative, or non-finite collapses to 0.
func parseNumeric(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	if s == "" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
