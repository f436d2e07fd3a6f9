package strategy

import (
	"fmt"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/indicator"
	"github.com/quantfold/helix/internal/series"
)

// SupertrendFlip trades supertrend direction changes.
type SupertrendFlip struct {
	period     int
	multiplier float64
}

// NewSupertrendFlip creates the strategy. Conventional parameters are
// 10, 3.
func NewSupertrendFlip(period int, multiplier float64) *SupertrendFlip {
	return &SupertrendFlip{period: period, multiplier: multiplier}
}

func (s *SupertrendFlip) Name() string { return "supertrend_flip" }

func (s *SupertrendFlip) Description() string {
	return fmt.Sprintf("Supertrend(%d,%.1f) direction flip", s.period, s.multiplier)
}

func (s *SupertrendFlip) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	st := indicator.Supertrend(candles, s.period, s.multiplier)

	for i := range candles {
		if st.Direction[i] == 0 {
			continue
		}
		prev := 0
		if i > 0 {
			prev = st.Direction[i-1]
		}
		switch {
		case prev == -1 && st.Direction[i] == 1:
			out[i] = core.ActionBuy
		case prev == 1 && st.Direction[i] == -1:
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// ADXTrend trades +DI/-DI crossovers, but only while ADX confirms a
// trending market above the threshold.
type ADXTrend struct {
	period    int
	threshold float64
}

// NewADXTrend creates the strategy. Conventional parameters are 14, 25.
func NewADXTrend(period int, threshold float64) *ADXTrend {
	return &ADXTrend{period: period, threshold: threshold}
}

func (s *ADXTrend) Name() string { return "adx_trend" }

func (s *ADXTrend) Description() string {
	return fmt.Sprintf("DI crossover gated by ADX(%d) > %.0f", s.period, s.threshold)
}

func (s *ADXTrend) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	adx := indicator.ADX(candles, s.period)

	for i := range candles {
		a, okA := adx.ADX.At(i)
		if !okA || !adx.PlusDI.Valid(i) || !adx.MinusDI.Valid(i) {
			continue
		}
		switch {
		case a > s.threshold && crossedAbove(adx.PlusDI, adx.MinusDI, i):
			out[i] = core.ActionBuy
		case a > s.threshold && crossedAbove(adx.MinusDI, adx.PlusDI, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// IchimokuCloud trades the close crossing the cloud: a buy through the
// cloud top, a sell through the cloud bottom.
type IchimokuCloud struct {
	tenkan int
	kijun  int
	senkou int
}

// NewIchimokuCloud creates the strategy. Conventional parameters are
// 9, 26, 52.
func NewIchimokuCloud(tenkan, kijun, senkou int) *IchimokuCloud {
	return &IchimokuCloud{tenkan: tenkan, kijun: kijun, senkou: senkou}
}

func (s *IchimokuCloud) Name() string { return "ichimoku_cloud" }

func (s *IchimokuCloud) Description() string {
	return fmt.Sprintf("Ichimoku(%d,%d,%d) cloud breakout", s.tenkan, s.kijun, s.senkou)
}

func (s *IchimokuCloud) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	ich := indicator.Ichimoku(candles, s.tenkan, s.kijun, s.senkou)

	n := len(candles)
	closes := series.FromFloats(core.Closes(candles))
	cloudTop := series.Empty(n)
	cloudBottom := series.Empty(n)
	for i := 0; i < n; i++ {
		a, okA := ich.SenkouA.At(i)
		b, okB := ich.SenkouB.At(i)
		if !okA || !okB {
			continue
		}
		top, bottom := a, b
		if b > a {
			top, bottom = b, a
		}
		cloudTop[i] = series.Some(top)
		cloudBottom[i] = series.Some(bottom)
	}

	for i := range candles {
		if !cloudTop.Valid(i) {
			continue
		}
		switch {
		case crossedAbove(closes, cloudTop, i):
			out[i] = core.ActionBuy
		case crossedBelow(closes, cloudBottom, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// ParabolicSARFlip trades the SAR switching sides of the price.
type ParabolicSARFlip struct {
	step float64
	max  float64
}

// NewParabolicSARFlip creates the strategy. Conventional parameters are
// 0.02, 0.2.
func NewParabolicSARFlip(step, max float64) *ParabolicSARFlip {
	return &ParabolicSARFlip{step: step, max: max}
}

func (s *ParabolicSARFlip) Name() string { return "psar_flip" }

func (s *ParabolicSARFlip) Description() string {
	return fmt.Sprintf("Parabolic SAR(%.2f,%.1f) side flip", s.step, s.max)
}

func (s *ParabolicSARFlip) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	sar := indicator.ParabolicSAR(candles, s.step, s.max)
	closes := series.FromFloats(core.Closes(candles))

	for i := range candles {
		if !sar.Valid(i) {
			continue
		}
		switch {
		case crossedBelow(sar, closes, i):
			out[i] = core.ActionBuy
		case crossedAbove(sar, closes, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}
