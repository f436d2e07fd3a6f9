package indicator

import (
	"fmt"
	"math"
	"testing"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/series"
)

// candlesFromCloses builds a synthetic daily series where open, high,
// low and close all equal the given close, with unit spread and fixed
// volume.
func candlesFromCloses(closes []float64) []core.Candle {
	candles := make([]core.Candle, len(closes))
	for i, c := range closes {
		candles[i] = core.Candle{
			Date:      fmt.Sprintf("2024-01-%02d", i+1),
			Timestamp: int64(1704067200 + i*86400),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func assertWarmup(t *testing.T, s series.Series, firstValid int) {
	t.Helper()
	for i := range s {
		if i < firstValid && s[i].Valid {
			t.Errorf("index %d: expected warm-up (invalid), got %f", i, s[i].Float64)
		}
		if i >= firstValid && !s[i].Valid {
			t.Errorf("index %d: expected valid value", i)
		}
	}
}

func assertFinite(t *testing.T, s series.Series) {
	t.Helper()
	for i, v := range s {
		if v.Valid && (math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0)) {
			t.Errorf("index %d: non-finite value %f", i, v.Float64)
		}
	}
}

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
