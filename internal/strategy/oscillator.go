package strategy

import (
	"fmt"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/indicator"
	"github.com/quantfold/helix/internal/series"
)

// RSIOversold buys when RSI crosses up out of the oversold zone and
// sells when it crosses down out of the overbought zone.
type RSIOversold struct {
	period     int
	oversold   float64
	overbought float64
}

// NewRSIOversold creates the strategy. Conventional parameters are
// 14, 30, 70.
func NewRSIOversold(period int, oversold, overbought float64) *RSIOversold {
	return &RSIOversold{period: period, oversold: oversold, overbought: overbought}
}

func (s *RSIOversold) Name() string { return "rsi_oversold" }

func (s *RSIOversold) Description() string {
	return fmt.Sprintf("RSI(%d) recovery from %.0f / rejection from %.0f", s.period, s.oversold, s.overbought)
}

func (s *RSIOversold) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	rsi := indicator.RSI(core.Closes(candles), s.period)

	for i := range candles {
		if !rsi.Valid(i) {
			continue
		}
		switch {
		case crossedAboveLevel(rsi, s.oversold, i):
			out[i] = core.ActionBuy
		case crossedBelowLevel(rsi, s.overbought, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// StochasticCrossover trades %K crossing its %D signal line.
type StochasticCrossover struct {
	kPeriod int
	dPeriod int
}

// NewStochasticCrossover creates the strategy. Conventional parameters
// are 14, 3.
func NewStochasticCrossover(kPeriod, dPeriod int) *StochasticCrossover {
	return &StochasticCrossover{kPeriod: kPeriod, dPeriod: dPeriod}
}

func (s *StochasticCrossover) Name() string { return "stochastic_crossover" }

func (s *StochasticCrossover) Description() string {
	return fmt.Sprintf("Stochastic(%d,%d) %%K / %%D crossover", s.kPeriod, s.dPeriod)
}

func (s *StochasticCrossover) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	stoch := indicator.Stochastic(candles, s.kPeriod, s.dPeriod)

	for i := range candles {
		if !stoch.K.Valid(i) || !stoch.D.Valid(i) {
			continue
		}
		switch {
		case crossedAbove(stoch.K, stoch.D, i):
			out[i] = core.ActionBuy
		case crossedBelow(stoch.K, stoch.D, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// MeanReversion trades z-score excursions: a buy when the close climbs
// back through -threshold standard deviations from its rolling mean, a
// sell when it falls back through +threshold.
type MeanReversion struct {
	period    int
	threshold float64
}

// NewMeanReversion creates the strategy. Conventional parameters are
// 20, 2.
func NewMeanReversion(period int, threshold float64) *MeanReversion {
	return &MeanReversion{period: period, threshold: threshold}
}

func (s *MeanReversion) Name() string { return "mean_reversion" }

func (s *MeanReversion) Description() string {
	return fmt.Sprintf("z-score reversion over %d bars at ±%.1fσ", s.period, s.threshold)
}

func (s *MeanReversion) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	closes := core.Closes(candles)

	// Bollinger with k=1 gives mean and mean+σ, from which the z-score
	// follows without recomputing the window.
	ch := indicator.Bollinger(closes, s.period, 1)
	zscore := series.Empty(len(candles))
	for i := range candles {
		mid, okM := ch.Middle.At(i)
		up, okU := ch.Upper.At(i)
		if !okM || !okU {
			continue
		}
		sd := up - mid
		if sd == 0 {
			zscore[i] = series.Some(0)
			continue
		}
		zscore[i] = series.Some((closes[i] - mid) / sd)
	}

	for i := range candles {
		if !zscore.Valid(i) {
			continue
		}
		switch {
		case crossedAboveLevel(zscore, -s.threshold, i):
			out[i] = core.ActionBuy
		case crossedBelowLevel(zscore, s.threshold, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}
