package indicator

import (
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/series"
)

// VWAP calculates the cumulative Volume Weighted Average Price from the
// start of the series. There is no session reset. Zero cumulative
// volume resolves to 0.
func VWAP(candles []core.Candle) series.Series {
	out := series.Empty(len(candles))
	var pv, vol float64
	for i, c := range candles {
		pv += c.TypicalPrice() * float64(c.Volume)
		vol += float64(c.Volume)
		if vol == 0 {
			out[i] = series.Some(0)
			continue
		}
		out[i] = series.Some(pv / vol)
	}
	return out
}

// OBV calculates On-Balance Volume, starting at 0 and accumulating
// volume signed by the close-to-close direction. Defined at every
// index.
func OBV(candles []core.Candle) series.Series {
	out := series.Empty(len(candles))
	var obv float64
	for i, c := range candles {
		if i > 0 {
			switch {
			case c.Close > candles[i-1].Close:
				obv += float64(c.Volume)
			case c.Close < candles[i-1].Close:
				obv -= float64(c.Volume)
			}
		}
		out[i] = series.Some(obv)
	}
	return out
}

// moneyFlowVolume returns the per-bar money flow multiplier times
// volume. A zero high/low range resolves the multiplier to 0.
func moneyFlowVolume(c core.Candle) float64 {
	rng := c.High - c.Low
	if rng == 0 {
		return 0
	}
	mult := ((c.Close - c.Low) - (c.High - c.Close)) / rng
	return mult * float64(c.Volume)
}

// AccumulationDistribution calculates the cumulative A/D line. Defined
// at every index.
func AccumulationDistribution(candles []core.Candle) series.Series {
	out := series.Empty(len(candles))
	var ad float64
	for i, c := range candles {
		ad += moneyFlowVolume(c)
		out[i] = series.Some(ad)
	}
	return out
}

// CMF calculates the Chaikin Money Flow over a rolling window. A
// zero-volume window resolves to 0. The conventional period is 20.
func CMF(candles []core.Candle, period int) series.Series {
	out := series.Empty(len(candles))
	if period < 1 || len(candles) < period {
		return out
	}

	for i := period - 1; i < len(candles); i++ {
		var mfv, vol float64
		for j := i - period + 1; j <= i; j++ {
			mfv += moneyFlowVolume(candles[j])
			vol += float64(candles[j].Volume)
		}
		if vol == 0 {
			out[i] = series.Some(0)
			continue
		}
		out[i] = series.Some(mfv / vol)
	}
	return out
}

// AwesomeOscillator calculates the difference between a fast and a slow
// SMA of the bar midpoints. Conventional parameters are 5 and 34.
func AwesomeOscillator(candles []core.Candle, fast, slow int) series.Series {
	n := len(candles)
	out := series.Empty(n)

	medians := make([]float64, n)
	for i, c := range candles {
		medians[i] = c.HL2()
	}

	fastSMA := SMA(medians, fast)
	slowSMA := SMA(medians, slow)
	for i := 0; i < n; i++ {
		f, okF := fastSMA.At(i)
		s, okS := slowSMA.At(i)
		if okF && okS {
			out[i] = series.Some(f - s)
		}
	}
	return out
}
