// Package backtest replays a signal series against a virtual
// single-position portfolio and reports risk and performance
// statistics.
package backtest

import (
	"math"

	"github.com/quantfold/helix/internal/core"
)

// Validate rejects candle series the simulator cannot produce
// meaningful statistics for. Callers are expected to run it before
// Run; Run itself never fails on valid input.
func Validate(candles []core.Candle) error {
	if len(candles) == 0 {
		return core.ErrNoData
	}
	if len(candles) < core.MinCandles {
		return core.ErrInsufficientData
	}
	return nil
}

// Run replays signals against candles. The state machine is
// FLAT -> BUY -> LONG -> SELL -> FLAT: a BUY while long and a SELL
// while flat are no-ops, so redundant consecutive signals from a
// generator are harmless. Entries are sized as
// floor(cash * positionSizePct/100 / close); an entry that sizes to
// zero shares is silently skipped. A position still open at the last
// candle is force-closed at its close price.
func Run(candles []core.Candle, signals []core.Action, cfg Config) *Result {
	cash := cfg.InitialCapital
	var pos *position
	var trades []Trade
	equityCurve := make([]EquityPoint, 0, len(candles))

	closeTrade := func(c core.Candle, reason string) {
		exitValue := float64(pos.quantity) * c.Close
		pnl := (c.Close - pos.entryPrice) * float64(pos.quantity)
		pnlPct := 0.0
		if pos.entryPrice != 0 {
			pnlPct = (c.Close - pos.entryPrice) / pos.entryPrice * 100
		}
		trades = append(trades, Trade{
			EntryDate:  pos.entryDate,
			ExitDate:   c.Date,
			EntryPrice: pos.entryPrice,
			ExitPrice:  c.Close,
			Quantity:   pos.quantity,
			PnL:        pnl,
			PnLPct:     pnlPct,
			Reason:     reason,
		})
		cash += exitValue
		pos = nil
	}

	for i, c := range candles {
		var sig core.Action
		if i < len(signals) {
			sig = signals[i]
		}

		switch sig {
		case core.ActionBuy:
			if pos == nil && c.Close > 0 {
				qty := int64(math.Floor(cash * cfg.PositionSizePct / 100 / c.Close))
				if qty > 0 {
					cash -= float64(qty) * c.Close
					pos = &position{
						entryPrice: c.Close,
						entryDate:  c.Date,
						quantity:   qty,
					}
				}
			}
		case core.ActionSell:
			if pos != nil {
				closeTrade(c, ReasonSignal)
			}
		}

		equity := cash
		if pos != nil {
			equity += float64(pos.quantity) * c.Close
		}
		equityCurve = append(equityCurve, EquityPoint{Date: c.Date, Equity: equity})
	}

	if pos != nil {
		last := candles[len(candles)-1]
		closeTrade(last, ReasonEndOfData)
		// The final equity point already values the position at the
		// last close, so the curve needs no correction.
	}

	finalCapital := cfg.InitialCapital
	if len(equityCurve) > 0 {
		finalCapital = equityCurve[len(equityCurve)-1].Equity
	}

	result := &Result{
		InitialCapital: cfg.InitialCapital,
		FinalCapital:   finalCapital,
		TotalReturn:    finalCapital - cfg.InitialCapital,
		Trades:         trades,
		EquityCurve:    equityCurve,
	}
	if cfg.InitialCapital != 0 {
		result.TotalReturnPct = result.TotalReturn / cfg.InitialCapital * 100
	}

	aggregate(result)
	return result
}
