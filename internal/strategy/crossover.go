package strategy

import (
	"fmt"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/indicator"
)

// MACrossover trades a fast SMA crossing a slow SMA: the golden cross
// buys, the death cross sells.
type MACrossover struct {
	fastPeriod int
	slowPeriod int
}

// NewMACrossover creates the strategy. Conventional parameters are
// 10, 30.
func NewMACrossover(fastPeriod, slowPeriod int) *MACrossover {
	return &MACrossover{fastPeriod: fastPeriod, slowPeriod: slowPeriod}
}

func (s *MACrossover) Name() string { return "ma_crossover" }

func (s *MACrossover) Description() string {
	return fmt.Sprintf("SMA(%d)/SMA(%d) crossover", s.fastPeriod, s.slowPeriod)
}

func (s *MACrossover) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	closes := core.Closes(candles)
	fast := indicator.SMA(closes, s.fastPeriod)
	slow := indicator.SMA(closes, s.slowPeriod)

	for i := range candles {
		if !fast.Valid(i) || !slow.Valid(i) {
			continue
		}
		switch {
		case crossedAbove(fast, slow, i):
			out[i] = core.ActionBuy
		case crossedBelow(fast, slow, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// MACDCrossover trades the MACD line crossing its signal line.
type MACDCrossover struct {
	fast   int
	slow   int
	signal int
}

// NewMACDCrossover creates the strategy. Conventional parameters are
// 12, 26, 9.
func NewMACDCrossover(fast, slow, signal int) *MACDCrossover {
	return &MACDCrossover{fast: fast, slow: slow, signal: signal}
}

func (s *MACDCrossover) Name() string { return "macd_crossover" }

func (s *MACDCrossover) Description() string {
	return fmt.Sprintf("MACD(%d,%d,%d) signal line crossover", s.fast, s.slow, s.signal)
}

func (s *MACDCrossover) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	macd := indicator.MACD(core.Closes(candles), s.fast, s.slow, s.signal)

	for i := range candles {
		if !macd.Line.Valid(i) || !macd.Signal.Valid(i) {
			continue
		}
		switch {
		case crossedAbove(macd.Line, macd.Signal, i):
			out[i] = core.ActionBuy
		case crossedBelow(macd.Line, macd.Signal, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// TripleEMA trades full alignment of three EMAs: a buy the moment
// fast > mid > slow becomes true, a sell the moment the stack fully
// inverts.
type TripleEMA struct {
	fast int
	mid  int
	slow int
}

// NewTripleEMA creates the strategy. Conventional parameters are
// 5, 10, 20.
func NewTripleEMA(fast, mid, slow int) *TripleEMA {
	return &TripleEMA{fast: fast, mid: mid, slow: slow}
}

func (s *TripleEMA) Name() string { return "triple_ema" }

func (s *TripleEMA) Description() string {
	return fmt.Sprintf("EMA(%d)>EMA(%d)>EMA(%d) alignment", s.fast, s.mid, s.slow)
}

func (s *TripleEMA) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	closes := core.Closes(candles)
	fast := indicator.EMA(closes, s.fast)
	mid := indicator.EMA(closes, s.mid)
	slow := indicator.EMA(closes, s.slow)

	aligned := func(i int) (bull, bear, ok bool) {
		f, okF := fast.At(i)
		m, okM := mid.At(i)
		l, okS := slow.At(i)
		if !okF || !okM || !okS {
			return false, false, false
		}
		return f > m && m > l, f < m && m < l, true
	}

	for i := range candles {
		bull, bear, ok := aligned(i)
		if !ok {
			continue
		}
		prevBull, prevBear, prevOK := aligned(i - 1)

		switch {
		case prevOK && bull && !prevBull:
			out[i] = core.ActionBuy
		case prevOK && bear && !prevBear:
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}
