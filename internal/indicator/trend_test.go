package indicator

import (
	"math"
	"testing"
)

func TestATR_Bootstrap(t *testing.T) {
	// Constant 2-point high/low spread and constant close: every true
	// range is 2, so the bootstrap mean and all smoothed values are 2.
	candles := candlesFromCloses(make([]float64, 30))
	for i := range candles {
		candles[i].High = 101
		candles[i].Low = 99
		candles[i].Close = 100
	}

	out := ATR(candles, 14)
	assertWarmup(t, out, 14)
	for i := 14; i < len(candles); i++ {
		if v, _ := out.At(i); math.Abs(v-2) > 1e-9 {
			t.Errorf("index %d: ATR = %f, want 2", i, v)
		}
	}
}

func TestATR_WilderRecursion(t *testing.T) {
	candles := candlesFromCloses(rampCloses(20, 100, 1))
	out := ATR(candles, 5)

	// Bootstrap: mean of the first period+1 true ranges.
	tr := trueRanges(candles)
	var sum float64
	for i := 0; i <= 5; i++ {
		sum += tr[i]
	}
	want := sum / 6
	if v, _ := out.At(5); math.Abs(v-want) > 1e-9 {
		t.Fatalf("ATR[5] = %f, want %f", v, want)
	}

	want = (want*4 + tr[6]) / 5
	if v, _ := out.At(6); math.Abs(v-want) > 1e-9 {
		t.Errorf("ATR[6] = %f, want %f", v, want)
	}
}

func TestSupertrend_DirectionTracksTrend(t *testing.T) {
	// 30 rising bars then 30 falling bars.
	closes := append(rampCloses(30, 100, 2), rampCloses(30, 160, -2)...)
	candles := candlesFromCloses(closes)

	res := Supertrend(candles, 10, 3)

	if len(res.Line) != len(candles) || len(res.Direction) != len(candles) {
		t.Fatalf("output length mismatch")
	}

	// Late in the rising leg the trend must be bullish with the line
	// below price; late in the falling leg bearish with the line above.
	if res.Direction[28] != 1 {
		t.Errorf("direction[28] = %d, want 1", res.Direction[28])
	}
	if v, ok := res.Line.At(28); !ok || v >= candles[28].Close {
		t.Errorf("bullish line %f should sit below close %f", v, candles[28].Close)
	}

	if res.Direction[58] != -1 {
		t.Errorf("direction[58] = %d, want -1", res.Direction[58])
	}
	if v, ok := res.Line.At(58); !ok || v <= candles[58].Close {
		t.Errorf("bearish line %f should sit above close %f", v, candles[58].Close)
	}
}

func TestParabolicSAR_NeverPenetratesTrendSide(t *testing.T) {
	closes := rampCloses(40, 100, 1.5)
	candles := candlesFromCloses(closes)

	out := ParabolicSAR(candles, 0.02, 0.2)
	assertFinite(t, out)

	// In a steady uptrend the SAR must stay at or below the prior lows.
	for i := 2; i < len(candles); i++ {
		v, ok := out.At(i)
		if !ok {
			continue
		}
		if v > candles[i-1].Low+1e-9 {
			t.Errorf("index %d: SAR %f penetrates prior low %f", i, v, candles[i-1].Low)
		}
	}
}

func TestParabolicSAR_ReversalResets(t *testing.T) {
	// Uptrend into a hard collapse: a reversal must occur, and the new
	// SAR starts at the prior extreme point (the run-up's high).
	closes := append(rampCloses(10, 100, 2), rampCloses(10, 60, -2)...)
	candles := candlesFromCloses(closes)

	out := ParabolicSAR(candles, 0.02, 0.2)

	// Find the first bar where SAR sits above the close (bearish side).
	reversed := false
	for i := 1; i < len(candles); i++ {
		if v, ok := out.At(i); ok && v > candles[i].Close {
			reversed = true
			break
		}
	}
	if !reversed {
		t.Error("expected a reversal after the collapse")
	}
}

func TestADX_WarmupAndBounds(t *testing.T) {
	closes := append(rampCloses(30, 100, 2), rampCloses(30, 160, -2)...)
	candles := candlesFromCloses(closes)

	res := ADX(candles, 14)
	assertWarmup(t, res.PlusDI, 14)
	assertWarmup(t, res.MinusDI, 14)
	assertWarmup(t, res.ADX, 27) // 2*period-1
	assertFinite(t, res.ADX)

	for i := 27; i < len(candles); i++ {
		v, _ := res.ADX.At(i)
		if v < 0 || v > 100 {
			t.Errorf("index %d: ADX = %f outside [0,100]", i, v)
		}
	}
}

func TestADX_FlatSeriesResolvesToZero(t *testing.T) {
	candles := candlesFromCloses(make([]float64, 40))
	for i := range candles {
		candles[i].High = 100
		candles[i].Low = 100
		candles[i].Close = 100
	}

	res := ADX(candles, 14)
	assertFinite(t, res.ADX)
	if v, ok := res.ADX.At(30); !ok || v != 0 {
		t.Errorf("ADX = %f, want 0 for flat series", v)
	}
}

func TestIchimoku_Midpoints(t *testing.T) {
	candles := candlesFromCloses(rampCloses(60, 100, 1))
	res := Ichimoku(candles, 9, 26, 52)

	assertWarmup(t, res.Tenkan, 8)
	assertWarmup(t, res.Kijun, 25)
	assertWarmup(t, res.SenkouA, 25)
	assertWarmup(t, res.SenkouB, 51)

	// With highs c+1 and lows c-1 on a unit ramp, the 9-bar midpoint at
	// index i is close[i-4].
	if v, _ := res.Tenkan.At(20); math.Abs(v-candles[16].Close) > 1e-9 {
		t.Errorf("Tenkan[20] = %f, want %f", v, candles[16].Close)
	}
}

func TestTrend_EmptyInput(t *testing.T) {
	ATR(nil, 14)
	Supertrend(nil, 10, 3)
	ParabolicSAR(nil, 0.02, 0.2)
	ADX(nil, 14)
	Ichimoku(nil, 9, 26, 52)
}
