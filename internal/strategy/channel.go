package strategy

import (
	"fmt"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/indicator"
	"github.com/quantfold/helix/internal/series"
)

// BollingerBounce trades band re-entries: a buy when the close climbs
// back through the lower band, a sell when it falls back through the
// upper band.
type BollingerBounce struct {
	period int
	k      float64
}

// NewBollingerBounce creates the strategy. Conventional parameters are
// 20, 2.
func NewBollingerBounce(period int, k float64) *BollingerBounce {
	return &BollingerBounce{period: period, k: k}
}

func (s *BollingerBounce) Name() string { return "bollinger_bounce" }

func (s *BollingerBounce) Description() string {
	return fmt.Sprintf("Bollinger(%d,%.1f) band re-entry", s.period, s.k)
}

func (s *BollingerBounce) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	closes := series.FromFloats(core.Closes(candles))
	ch := indicator.Bollinger(core.Closes(candles), s.period, s.k)

	for i := range candles {
		if !ch.Upper.Valid(i) || !ch.Lower.Valid(i) {
			continue
		}
		switch {
		case crossedAbove(closes, ch.Lower, i):
			out[i] = core.ActionBuy
		case crossedBelow(closes, ch.Upper, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// VWAPBounce trades the close crossing the cumulative VWAP.
type VWAPBounce struct{}

// NewVWAPBounce creates the strategy.
func NewVWAPBounce() *VWAPBounce {
	return &VWAPBounce{}
}

func (s *VWAPBounce) Name() string { return "vwap_bounce" }

func (s *VWAPBounce) Description() string {
	return "close crossing cumulative VWAP"
}

func (s *VWAPBounce) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	vwap := indicator.VWAP(candles)
	closes := series.FromFloats(core.Closes(candles))

	for i := range candles {
		if !vwap.Valid(i) {
			continue
		}
		switch {
		case crossedAbove(closes, vwap, i):
			out[i] = core.ActionBuy
		case crossedBelow(closes, vwap, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}

// VolumeBreakout trades the close crossing its rolling mean, but a buy
// requires expanded volume against the rolling volume average.
type VolumeBreakout struct {
	period     int
	volumeMult float64
}

// NewVolumeBreakout creates the strategy. Conventional parameters are
// 20, 1.5.
func NewVolumeBreakout(period int, volumeMult float64) *VolumeBreakout {
	return &VolumeBreakout{period: period, volumeMult: volumeMult}
}

func (s *VolumeBreakout) Name() string { return "volume_breakout" }

func (s *VolumeBreakout) Description() string {
	return fmt.Sprintf("SMA(%d) breakout on %.1fx volume", s.period, s.volumeMult)
}

func (s *VolumeBreakout) Signals(candles []core.Candle) []core.Action {
	out := emptySignals(len(candles))
	closes := series.FromFloats(core.Closes(candles))
	sma := indicator.SMA(core.Closes(candles), s.period)

	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = float64(c.Volume)
	}
	volSMA := indicator.SMA(volumes, s.period)

	for i := range candles {
		avgVol, okV := volSMA.At(i)
		if !sma.Valid(i) || !okV {
			continue
		}
		switch {
		case crossedAbove(closes, sma, i) && volumes[i] > s.volumeMult*avgVol:
			out[i] = core.ActionBuy
		case crossedBelow(closes, sma, i):
			out[i] = core.ActionSell
		default:
			out[i] = core.ActionHold
		}
	}
	return out
}
