package indicator

import (
	"math"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/series"
)

// trueRanges returns the per-bar true range. The first bar has no
// previous close, so its true range is simply high-low.
func trueRanges(candles []core.Candle) []float64 {
	tr := make([]float64, len(candles))
	for i, c := range candles {
		if i == 0 {
			tr[i] = c.High - c.Low
			continue
		}
		prevClose := candles[i-1].Close
		tr[i] = math.Max(c.High-c.Low,
			math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return tr
}

// ATR calculates the Average True Range with Wilder smoothing. The
// first value, at index period, is the plain mean of the first period+1
// true ranges; later values use (prev*(period-1) + tr) / period.
func ATR(candles []core.Candle, period int) series.Series {
	out := series.Empty(len(candles))
	if period < 1 || len(candles) <= period {
		return out
	}

	tr := trueRanges(candles)

	var sum float64
	for i := 0; i <= period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(period+1)
	out[period] = series.Some(atr)

	for i := period + 1; i < len(candles); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = series.Some(atr)
	}
	return out
}

// SupertrendResult holds the supertrend line and its direction:
// +1 while bullish (line below price), -1 while bearish, 0 during
// warm-up.
type SupertrendResult struct {
	Line      series.Series
	Direction []int
}

// Supertrend calculates the supertrend indicator from ATR bands around
// the high/low midpoint. Bands are sticky: a recalculated lower band
// only replaces the previous one when it is higher and the prior close
// held above the prior band, and symmetrically for the upper band. The
// active line is the lower band while bullish, the upper while bearish.
func Supertrend(candles []core.Candle, period int, multiplier float64) SupertrendResult {
	n := len(candles)
	line := series.Empty(n)
	direction := make([]int, n)

	atr := ATR(candles, period)
	start := atr.Offset()
	if start >= n {
		return SupertrendResult{Line: line, Direction: direction}
	}

	var upper, lower float64
	dir := 1

	for i := start; i < n; i++ {
		a, _ := atr.At(i)
		hl2 := candles[i].HL2()
		basicUpper := hl2 + multiplier*a
		basicLower := hl2 - multiplier*a

		if i == start {
			upper = basicUpper
			lower = basicLower
		} else {
			prevClose := candles[i-1].Close
			if basicLower > lower && prevClose > lower {
				lower = basicLower
			}
			if basicUpper < upper && prevClose < upper {
				upper = basicUpper
			}

			if dir == 1 && candles[i].Close < lower {
				dir = -1
				upper = basicUpper
			} else if dir == -1 && candles[i].Close > upper {
				dir = 1
				lower = basicLower
			}
		}

		direction[i] = dir
		if dir == 1 {
			line[i] = series.Some(lower)
		} else {
			line[i] = series.Some(upper)
		}
	}

	return SupertrendResult{Line: line, Direction: direction}
}

// ParabolicSAR calculates the parabolic stop-and-reverse series. The
// acceleration factor starts at step, grows by step each time a new
// extreme point prints, and is capped at max. On a reversal the SAR
// resets to the prior extreme point and the factor back to step. The
// SAR never penetrates the prior two bars' lows (uptrend) or highs
// (downtrend).
func ParabolicSAR(candles []core.Candle, step, max float64) series.Series {
	n := len(candles)
	out := series.Empty(n)
	if n < 2 {
		return out
	}

	isLong := candles[1].Close >= candles[0].Close
	af := step
	var sar, ep float64
	if isLong {
		sar = candles[0].Low
		ep = candles[0].High
	} else {
		sar = candles[0].High
		ep = candles[0].Low
	}

	for i := 1; i < n; i++ {
		sar = sar + af*(ep-sar)

		if isLong {
			sar = math.Min(sar, candles[i-1].Low)
			if i >= 2 {
				sar = math.Min(sar, candles[i-2].Low)
			}
			if candles[i].Low < sar {
				isLong = false
				sar = ep
				ep = candles[i].Low
				af = step
			} else if candles[i].High > ep {
				ep = candles[i].High
				af = math.Min(af+step, max)
			}
		} else {
			sar = math.Max(sar, candles[i-1].High)
			if i >= 2 {
				sar = math.Max(sar, candles[i-2].High)
			}
			if candles[i].High > sar {
				isLong = true
				sar = ep
				ep = candles[i].High
				af = step
			} else if candles[i].Low < ep {
				ep = candles[i].Low
				af = math.Min(af+step, max)
			}
		}

		out[i] = series.Some(sar)
	}
	return out
}

// ADXResult holds the ADX line and both directional index lines.
type ADXResult struct {
	ADX     series.Series
	PlusDI  series.Series
	MinusDI series.Series
}

// ADX calculates the Average Directional Index with Wilder smoothing.
// +DI/-DI become defined at index period; ADX needs a further period of
// DX values and becomes defined at index 2*period-1. Zero denominators
// resolve to 0.
func ADX(candles []core.Candle, period int) ADXResult {
	n := len(candles)
	res := ADXResult{
		ADX:     series.Empty(n),
		PlusDI:  series.Empty(n),
		MinusDI: series.Empty(n),
	}
	if period < 1 || n <= period {
		return res
	}

	tr := trueRanges(candles)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := candles[i].High - candles[i-1].High
		down := candles[i-1].Low - candles[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dx := series.Empty(n)
	emit := func(i int) {
		var pdi, mdi float64
		if smTR != 0 {
			pdi = smPlus / smTR * 100
			mdi = smMinus / smTR * 100
		}
		res.PlusDI[i] = series.Some(pdi)
		res.MinusDI[i] = series.Some(mdi)

		if pdi+mdi != 0 {
			dx[i] = series.Some(math.Abs(pdi-mdi) / (pdi + mdi) * 100)
		} else {
			dx[i] = series.Some(0)
		}
	}

	emit(period)
	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/float64(period) + tr[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		emit(i)
	}

	// ADX is Wilder-smoothed DX: bootstrap with a plain average of the
	// first period DX values, then the recursive form.
	if n <= 2*period-1 {
		return res
	}
	var dxSum float64
	for i := period; i <= 2*period-1; i++ {
		v, _ := dx.At(i)
		dxSum += v
	}
	adx := dxSum / float64(period)
	res.ADX[2*period-1] = series.Some(adx)
	for i := 2 * period; i < n; i++ {
		v, _ := dx.At(i)
		adx = (adx*float64(period-1) + v) / float64(period)
		res.ADX[i] = series.Some(adx)
	}
	return res
}

// IchimokuResult holds the four cloud lines. Spans are not displaced
// forward; displacement is a charting concern, not a signal one.
type IchimokuResult struct {
	Tenkan  series.Series
	Kijun   series.Series
	SenkouA series.Series
	SenkouB series.Series
}

// Ichimoku calculates the Ichimoku cloud lines as midpoints of rolling
// high/low windows. Conventional parameters are 9, 26, 52.
func Ichimoku(candles []core.Candle, tenkan, kijun, senkou int) IchimokuResult {
	n := len(candles)
	res := IchimokuResult{
		Tenkan:  series.Empty(n),
		Kijun:   series.Empty(n),
		SenkouA: series.Empty(n),
		SenkouB: series.Empty(n),
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	midpoint := func(i, period int) (float64, bool) {
		if period < 1 || i < period-1 {
			return 0, false
		}
		hh := highestIn(highs, i-period+1, i)
		ll := lowestIn(lows, i-period+1, i)
		return (hh + ll) / 2, true
	}

	for i := 0; i < n; i++ {
		t, okT := midpoint(i, tenkan)
		if okT {
			res.Tenkan[i] = series.Some(t)
		}
		k, okK := midpoint(i, kijun)
		if okK {
			res.Kijun[i] = series.Some(k)
		}
		if okT && okK {
			res.SenkouA[i] = series.Some((t + k) / 2)
		}
		if b, okB := midpoint(i, senkou); okB {
			res.SenkouB[i] = series.Some(b)
		}
	}
	return res
}
