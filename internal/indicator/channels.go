package indicator

import (
	"math"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/series"
)

// Channel holds the three lines of a price channel indicator.
type Channel struct {
	Upper  series.Series
	Middle series.Series
	Lower  series.Series
}

// Bollinger calculates Bollinger Bands: an SMA middle line with upper
// and lower bands k population standard deviations away. Conventional
// parameters are 20 and 2.
func Bollinger(closes []float64, period int, k float64) Channel {
	n := len(closes)
	ch := Channel{
		Upper:  series.Empty(n),
		Middle: SMA(closes, period),
		Lower:  series.Empty(n),
	}
	if period < 1 || n < period {
		return ch
	}

	for i := period - 1; i < n; i++ {
		mean, _ := ch.Middle.At(i)
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		ch.Upper[i] = series.Some(mean + k*sd)
		ch.Lower[i] = series.Some(mean - k*sd)
	}
	return ch
}

// Keltner calculates Keltner Channels: an EMA middle line with bands
// mult ATRs away. Conventional parameters are 20, 10, 2. Bands are
// defined only where both the EMA and the ATR are.
func Keltner(candles []core.Candle, emaPeriod, atrPeriod int, mult float64) Channel {
	n := len(candles)
	ch := Channel{
		Upper:  series.Empty(n),
		Middle: EMA(core.Closes(candles), emaPeriod),
		Lower:  series.Empty(n),
	}

	atr := ATR(candles, atrPeriod)
	for i := 0; i < n; i++ {
		mid, okM := ch.Middle.At(i)
		a, okA := atr.At(i)
		if okM && okA {
			ch.Upper[i] = series.Some(mid + mult*a)
			ch.Lower[i] = series.Some(mid - mult*a)
		}
	}
	return ch
}

// Donchian calculates Donchian Channels: the rolling highest high and
// lowest low, with the middle line their midpoint.
func Donchian(candles []core.Candle, period int) Channel {
	n := len(candles)
	ch := Channel{
		Upper:  series.Empty(n),
		Middle: series.Empty(n),
		Lower:  series.Empty(n),
	}
	if period < 1 || n < period {
		return ch
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	for i := period - 1; i < n; i++ {
		hh := highestIn(highs, i-period+1, i)
		ll := lowestIn(lows, i-period+1, i)
		ch.Upper[i] = series.Some(hh)
		ch.Lower[i] = series.Some(ll)
		ch.Middle[i] = series.Some((hh + ll) / 2)
	}
	return ch
}
