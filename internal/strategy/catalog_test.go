package strategy

import (
	"fmt"
	"math"
	"testing"

	"github.com/quantfold/helix/internal/core"
)

// trendingCandles builds a rise-then-fall series with enough bars to
// clear every indicator's warm-up window.
func trendingCandles(n int) []core.Candle {
	candles := make([]core.Candle, n)
	for i := range candles {
		var close float64
		if i < n/2 {
			close = 100 + float64(i)*2
		} else {
			close = 100 + float64(n/2)*2 - float64(i-n/2)*2
		}
		// A small oscillation keeps windows from being degenerate.
		close += 3 * math.Sin(float64(i)/3)

		candles[i] = core.Candle{
			Date:      fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
			Timestamp: int64(1704067200 + i*86400),
			Open:      close - 0.5,
			High:      close + 2,
			Low:       close - 2,
			Close:     close,
			Volume:    int64(1000 + 500*(i%5)),
		}
	}
	return candles
}

// Catalog-wide contract: output length matches input, warm-up indices
// are None (never HOLD), and empty input does not panic.
func TestAllStrategies_SignalContract(t *testing.T) {
	candles := trendingCandles(120)

	for _, s := range NewDefaultEngine().GetAll() {
		t.Run(s.Name(), func(t *testing.T) {
			signals := s.Signals(candles)
			if len(signals) != len(candles) {
				t.Fatalf("len = %d, want %d", len(signals), len(candles))
			}

			// None must form a contiguous prefix: once a strategy has an
			// opinion it keeps having one.
			seenDefined := false
			for i, sig := range signals {
				if sig != core.ActionNone {
					seenDefined = true
					continue
				}
				if seenDefined {
					t.Errorf("index %d: None after defined signals", i)
				}
			}
			if !seenDefined {
				t.Error("no defined signals over 120 bars")
			}

			// Totality over degenerate inputs.
			if got := s.Signals(nil); len(got) != 0 {
				t.Errorf("nil input: len = %d, want 0", len(got))
			}
			if got := s.Signals(candles[:3]); len(got) != 3 {
				t.Errorf("short input: len = %d, want 3", len(got))
			}
		})
	}
}

func TestMACrossover_GoldenAndDeathCross(t *testing.T) {
	// Flat, sharp rise, then sharp fall: the fast SMA must cross the
	// slow one once in each direction.
	closes := make([]float64, 60)
	for i := range closes {
		switch {
		case i < 20:
			closes[i] = 100
		case i < 40:
			closes[i] = 100 + float64(i-19)*5
		default:
			closes[i] = 200 - float64(i-39)*5
		}
	}
	candles := make([]core.Candle, len(closes))
	for i, c := range closes {
		candles[i] = core.Candle{Date: fmt.Sprintf("d%d", i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}

	signals := NewMACrossover(5, 15).Signals(candles)

	var buys, sells int
	var firstBuy, firstSell int
	for i, s := range signals {
		switch s {
		case core.ActionBuy:
			buys++
			if firstBuy == 0 {
				firstBuy = i
			}
		case core.ActionSell:
			sells++
			if firstSell == 0 {
				firstSell = i
			}
		}
	}

	if buys == 0 || sells == 0 {
		t.Fatalf("expected both crossings, got %d buys %d sells", buys, sells)
	}
	if firstBuy >= firstSell {
		t.Errorf("golden cross at %d should precede death cross at %d", firstBuy, firstSell)
	}
}

func TestRSIOversold_FiresOnRecoveryNotOnLevel(t *testing.T) {
	// A long slide pins RSI at 0, then a recovery lifts it through 30.
	// The signal must fire exactly once, on the crossing bar, not on
	// every oversold bar.
	closes := make([]float64, 0, 50)
	v := 200.0
	for i := 0; i < 30; i++ {
		closes = append(closes, v)
		v -= 2
	}
	for i := 0; i < 20; i++ {
		closes = append(closes, v)
		v += 4
	}
	candles := make([]core.Candle, len(closes))
	for i, c := range closes {
		candles[i] = core.Candle{Date: fmt.Sprintf("d%d", i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}

	signals := NewRSIOversold(14, 30, 70).Signals(candles)

	var buys int
	for _, s := range signals {
		if s == core.ActionBuy {
			buys++
		}
	}
	if buys != 1 {
		t.Errorf("buys = %d, want exactly 1 crossing signal", buys)
	}
}

func TestConfluence_SuppressesConsecutiveRepeat(t *testing.T) {
	candles := trendingCandles(150)
	signals := NewConfluence().Signals(candles)

	for i := 1; i < len(signals); i++ {
		if signals[i].IsActionable() && signals[i] == signals[i-1] {
			t.Errorf("index %d: repeated %s on consecutive bars", i, signals[i])
		}
	}
}

func TestSupertrendFlip_BuySellAlternate(t *testing.T) {
	candles := trendingCandles(120)
	signals := NewSupertrendFlip(10, 3).Signals(candles)

	last := core.ActionNone
	for i, s := range signals {
		if !s.IsActionable() {
			continue
		}
		if s == last {
			t.Errorf("index %d: flip strategy emitted %s twice in a row", i, s)
		}
		last = s
	}
}
