package indicator

import (
	"github.com/quantfold/helix/internal/series"
)

// MACDResult holds the MACD line, its signal line, and the histogram.
type MACDResult struct {
	Line      series.Series
	Signal    series.Series
	Histogram series.Series
}

// MACD calculates the Moving Average Convergence Divergence. The line
// is EMA(fast) - EMA(slow); the signal line is an EMA over the line's
// valid values, re-aligned onto the original index space. Conventional
// parameters are 12, 26, 9.
func MACD(closes []float64, fast, slow, signalPeriod int) MACDResult {
	n := len(closes)
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := series.Empty(n)
	for i := 0; i < n; i++ {
		f, okF := emaFast.At(i)
		s, okS := emaSlow.At(i)
		if okF && okS {
			line[i] = series.Some(f - s)
		}
	}

	signal := series.Scatter(EMA(line.Compact(), signalPeriod), line.Offset(), n)

	histogram := series.Empty(n)
	for i := 0; i < n; i++ {
		m, okM := line.At(i)
		s, okS := signal.At(i)
		if okM && okS {
			histogram[i] = series.Some(m - s)
		}
	}

	return MACDResult{Line: line, Signal: signal, Histogram: histogram}
}
