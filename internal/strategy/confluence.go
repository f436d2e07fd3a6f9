package strategy

import (
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/indicator"
)

// Confluence scores four independent indicators per bar and only acts
// when at least three agree. Unlike the single-indicator strategies it
// works on level conditions, so it additionally suppresses a signal
// identical to the previous bar's to avoid re-firing while the
// alignment persists.
type Confluence struct {
	rsiPeriod   int
	smaPeriod   int
	stochPeriod int
	threshold   int
}

// NewConfluence creates the strategy with its standard parameters:
// RSI(14), SMA(50) trend filter, Stochastic(14), 3-of-4 threshold.
func NewConfluence() *Confluence {
	return &Confluence{
		rsiPeriod:   14,
		smaPeriod:   50,
		stochPeriod: 14,
		threshold:   3,
	}
}

func (s *Confluence) Name() string { return "confluence" }

func (s *Confluence) Description() string {
	return "3-of-4 agreement across RSI, MACD, trend and stochastic"
}

func (s *Confluence) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	closes := core.Closes(candles)

	rsi := indicator.RSI(closes, s.rsiPeriod)
	macd := indicator.MACD(closes, 12, 26, 9)
	sma := indicator.SMA(closes, s.smaPeriod)
	stoch := indicator.Stochastic(candles, s.stochPeriod, 3)

	for i := range candles {
		rsiV, okR := rsi.At(i)
		histV, okH := macd.Histogram.At(i)
		smaV, okS := sma.At(i)
		kV, okK := stoch.K.At(i)
		if !okR || !okH || !okS || !okK {
			continue
		}

		var bull, bear int

		if rsiV < 35 {
			bull++
		} else if rsiV > 65 {
			bear++
		}
		if histV > 0 {
			bull++
		} else if histV < 0 {
			bear++
		}
		if closes[i] > smaV {
			bull++
		} else if closes[i] < smaV {
			bear++
		}
		if kV < 25 {
			bull++
		} else if kV > 75 {
			bear++
		}

		action := core.ActionHold
		switch {
		case bull >= s.threshold:
			action = core.ActionBuy
		case bear >= s.threshold:
			action = core.ActionSell
		}

		// Suppress a repeat of the previous bar's actionable signal.
		if action.IsActionable() && i > 0 && out[i-1] == action {
			action = core.ActionHold
		}
		out[i] = action
	}
	return out
}
