// Package exchange hosts the upstream trade stream connections and message normalization.
package exchange

import (
	"errors"

	"pairflow/internal/market"
)

const (
	// ProviderStub emits deterministic synthetic ticks (useful for tests/offline work).
	ProviderStub = "stub"
	// ProviderBinance streams live trades from Binance futures public websockets.
	ProviderBinance = "binance"
)

// ErrBadEndpoint marks a malformed subscription target. It is the one
// unrecoverable connection error: the symbol's stream stops instead of retrying.
var ErrBadEndpoint = errors.New("invalid stream endpoint")

// Appender receives normalized ticks from a running connection.
type Appender interface {
	Append(market.Tick)
}

// State tracks where a symbol connection is in its reconnect lifecycle.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateStopped:
		return "stopped"
	default:
		return "disconnected"
	}
}
