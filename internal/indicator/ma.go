package indicator

import (
	"github.com/quantfold/helix/internal/series"
)

// SMA calculates the Simple Moving Average. Values before index
// period-1 are invalid.
func SMA(values []float64, period int) series.Series {
	out := series.Empty(len(values))
	if period < 1 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = series.Some(sum / float64(period))
		}
	}
	return out
}

// EMA calculates the Exponential Moving Average with multiplier
// 2/(period+1). The first value, at index period-1, is bootstrapped as
// the SMA of the first window; later values use the usual recurrence.
// The SMA bootstrap matters for parity of the chained-EMA indicators
// (DEMA, TEMA, TRIX, MACD signal line) built on top of this.
func EMA(values []float64, period int) series.Series {
	out := series.Empty(len(values))
	if period < 1 || len(values) < period {
		return out
	}

	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = series.Some(ema)

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = series.Some(ema)
	}
	return out
}

// WMA calculates the linearly Weighted Moving Average: the most recent
// value in the window carries weight period, the oldest weight 1.
func WMA(values []float64, period int) series.Series {
	out := series.Empty(len(values))
	if period < 1 || len(values) < period {
		return out
	}

	denom := float64(period*(period+1)) / 2
	for i := period - 1; i < len(values); i++ {
		var weighted float64
		for j := 0; j < period; j++ {
			weighted += values[i-period+1+j] * float64(j+1)
		}
		out[i] = series.Some(weighted / denom)
	}
	return out
}

// chainEMA computes an EMA over the valid values of s and re-aligns the
// result back onto the original index space.
func chainEMA(s series.Series, period int) series.Series {
	return series.Scatter(EMA(s.Compact(), period), s.Offset(), len(s))
}

// DEMA calculates the Double Exponential Moving Average,
// 2*EMA1 - EMA2, where EMA2 is the EMA of EMA1's valid values.
func DEMA(values []float64, period int) series.Series {
	ema1 := EMA(values, period)
	ema2 := chainEMA(ema1, period)

	out := series.Empty(len(values))
	for i := range out {
		v1, ok1 := ema1.At(i)
		v2, ok2 := ema2.At(i)
		if ok1 && ok2 {
			out[i] = series.Some(2*v1 - v2)
		}
	}
	return out
}

// TEMA calculates the Triple Exponential Moving Average,
// 3*EMA1 - 3*EMA2 + EMA3, with each stage computed over the compacted
// output of the previous one.
func TEMA(values []float64, period int) series.Series {
	ema1 := EMA(values, period)
	ema2 := chainEMA(ema1, period)
	ema3 := chainEMA(ema2, period)

	out := series.Empty(len(values))
	for i := range out {
		v1, ok1 := ema1.At(i)
		v2, ok2 := ema2.At(i)
		v3, ok3 := ema3.At(i)
		if ok1 && ok2 && ok3 {
			out[i] = series.Some(3*v1 - 3*v2 + v3)
		}
	}
	return out
}

// TRIX calculates the 1-bar rate of change of a triple-smoothed EMA,
// in percent. A zero previous value resolves to 0.
func TRIX(values []float64, period int) series.Series {
	ema1 := EMA(values, period)
	ema2 := chainEMA(ema1, period)
	ema3 := chainEMA(ema2, period)

	out := series.Empty(len(values))
	for i := range out {
		curr, ok := ema3.At(i)
		prev, okPrev := ema3.At(i - 1)
		if !ok || !okPrev {
			continue
		}
		if prev == 0 {
			out[i] = series.Some(0)
			continue
		}
		out[i] = series.Some((curr - prev) / prev * 100)
	}
	return out
}
