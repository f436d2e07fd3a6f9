package indicator

import (
	"math"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/series"
)

// RSI calculates the Relative Strength Index over close prices.
//
// The smoothing step recomputes a trailing-window average of the most
// recent period gains and losses rather than applying Wilder's
// recursive average. This deviates from the textbook formula and is
// kept deliberately for numeric parity with the established output of
// this library. A zero average loss resolves RS to 100 so the result
// stays finite.
func RSI(closes []float64, period int) series.Series {
	out := series.Empty(len(closes))
	if period < 1 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		rs := 100.0
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		out[i] = series.Some(100 - 100/(1+rs))
	}
	return out
}

// ROC calculates the Rate of Change in percent against the close
// `period` bars back. A zero reference close resolves to 0.
func ROC(closes []float64, period int) series.Series {
	out := series.Empty(len(closes))
	if period < 1 {
		return out
	}
	for i := period; i < len(closes); i++ {
		ref := closes[i-period]
		if ref == 0 {
			out[i] = series.Some(0)
			continue
		}
		out[i] = series.Some((closes[i] - ref) / ref * 100)
	}
	return out
}

// CCI calculates the Commodity Channel Index over typical prices. A
// zero mean deviation resolves to 0.
func CCI(candles []core.Candle, period int) series.Series {
	out := series.Empty(len(candles))
	if period < 1 || len(candles) < period {
		return out
	}

	tps := make([]float64, len(candles))
	for i, c := range candles {
		tps[i] = c.TypicalPrice()
	}
	smaTP := SMA(tps, period)

	for i := period - 1; i < len(candles); i++ {
		mean, _ := smaTP.At(i)
		var dev float64
		for j := i - period + 1; j <= i; j++ {
			dev += math.Abs(tps[j] - mean)
		}
		dev /= float64(period)
		if dev == 0 {
			out[i] = series.Some(0)
			continue
		}
		out[i] = series.Some((tps[i] - mean) / (0.015 * dev))
	}
	return out
}

// MFI calculates the Money Flow Index. A window with no negative flow
// resolves to 100.
func MFI(candles []core.Candle, period int) series.Series {
	out := series.Empty(len(candles))
	if period < 1 || len(candles) <= period {
		return out
	}

	posFlow := make([]float64, len(candles))
	negFlow := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		tp := candles[i].TypicalPrice()
		prevTP := candles[i-1].TypicalPrice()
		raw := tp * float64(candles[i].Volume)
		switch {
		case tp > prevTP:
			posFlow[i] = raw
		case tp < prevTP:
			negFlow[i] = raw
		}
	}

	for i := period; i < len(candles); i++ {
		var pos, neg float64
		for j := i - period + 1; j <= i; j++ {
			pos += posFlow[j]
			neg += negFlow[j]
		}
		if neg == 0 {
			out[i] = series.Some(100)
			continue
		}
		ratio := pos / neg
		out[i] = series.Some(100 - 100/(1+ratio))
	}
	return out
}

// StochasticResult holds the %K and %D lines.
type StochasticResult struct {
	K series.Series
	D series.Series
}

// Stochastic calculates the stochastic oscillator. %K compares the
// close against the rolling high/low range (a zero range resolves to a
// neutral 50); %D is an SMA of %K's valid values re-aligned onto the
// original index space.
func Stochastic(candles []core.Candle, kPeriod, dPeriod int) StochasticResult {
	n := len(candles)
	k := series.Empty(n)
	if kPeriod < 1 || n < kPeriod {
		return StochasticResult{K: k, D: series.Empty(n)}
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := highestIn(highs, i-kPeriod+1, i)
		ll := lowestIn(lows, i-kPeriod+1, i)
		if hh == ll {
			k[i] = series.Some(50)
			continue
		}
		k[i] = series.Some((candles[i].Close - ll) / (hh - ll) * 100)
	}

	d := series.Scatter(SMA(k.Compact(), dPeriod), k.Offset(), n)
	return StochasticResult{K: k, D: d}
}

// WilliamsR calculates Williams %R on a -100..0 scale. A zero
// high/low range resolves to a neutral -50.
func WilliamsR(candles []core.Candle, period int) series.Series {
	out := series.Empty(len(candles))
	if period < 1 || len(candles) < period {
		return out
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	for i := period - 1; i < len(candles); i++ {
		hh := highestIn(highs, i-period+1, i)
		ll := lowestIn(lows, i-period+1, i)
		if hh == ll {
			out[i] = series.Some(-50)
			continue
		}
		out[i] = series.Some((hh - candles[i].Close) / (hh - ll) * -100)
	}
	return out
}
