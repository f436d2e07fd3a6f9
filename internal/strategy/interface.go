// Package strategy turns indicator series into discrete per-candle
// trade signals.
//
// Every built-in strategy follows the same pattern: it detects crossing
// events (a strict inequality flip between index i-1 and i) rather than
// sustained level conditions, so a condition that stays true does not
// re-emit BUY on every bar. Indices where a required indicator is still
// inside its warm-up window yield ActionNone, never a default HOLD.
package strategy

import (
	"github.com/quantfold/helix/internal/core"
)

// Strategy defines the interface for signal-generating strategies.
type Strategy interface {
	// Name returns the catalog identifier, e.g. "macd_crossover".
	Name() string

	// Description returns a short human-readable summary.
	Description() string

	// Signals produces one action per candle, same length as candles.
	Signals(candles []core.Candle) []core.Action
}

// emptySignals returns an all-None action series of the given length.
func emptySignals(n int) []core.Action {
	return make([]core.Action, n)
}
