package backtest

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/quantfold/helix/internal/core"
)

func candlesWithCloses(closes []float64) []core.Candle {
	candles := make([]core.Candle, len(closes))
	for i, c := range closes {
		candles[i] = core.Candle{
			Date:      fmt.Sprintf("2024-02-%02d", i+1),
			Timestamp: int64(1706745600 + i*86400),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func signalsAt(n int, actions map[int]core.Action) []core.Action {
	out := make([]core.Action, n)
	for i, a := range actions {
		out[i] = a
	}
	return out
}

func TestRun_SingleRoundTrip(t *testing.T) {
	closes := []float64{95, 97, 100, 102, 105, 110, 108, 107, 106, 105}
	candles := candlesWithCloses(closes)
	signals := signalsAt(10, map[int]core.Action{2: core.ActionBuy, 5: core.ActionSell})

	res := Run(candles, signals, Config{InitialCapital: 100000, PositionSizePct: 10})

	if res.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1", res.TotalTrades)
	}
	tr := res.Trades[0]
	if tr.EntryPrice != 100 || tr.ExitPrice != 110 {
		t.Errorf("entry/exit = %f/%f, want 100/110", tr.EntryPrice, tr.ExitPrice)
	}
	// floor(100000 * 10% / 100) = 100 shares, pnl = 10 * 100
	if tr.Quantity != 100 {
		t.Errorf("Quantity = %d, want 100", tr.Quantity)
	}
	if tr.PnL != 1000 {
		t.Errorf("PnL = %f, want 1000", tr.PnL)
	}
	if tr.Reason != ReasonSignal {
		t.Errorf("Reason = %q, want %q", tr.Reason, ReasonSignal)
	}
	if res.FinalCapital != 101000 {
		t.Errorf("FinalCapital = %f, want 101000", res.FinalCapital)
	}
	if res.WinningTrades != 1 || res.WinRate != 100 {
		t.Errorf("WinRate = %f, want 100", res.WinRate)
	}
}

func TestRun_RedundantSignalsAreNoOps(t *testing.T) {
	candles := candlesWithCloses([]float64{100, 100, 100, 100, 100, 100})
	signals := []core.Action{
		core.ActionSell, // SELL while flat: ignored
		core.ActionBuy,
		core.ActionBuy, // BUY while long: ignored
		core.ActionHold,
		core.ActionSell,
		core.ActionSell, // SELL while flat again
	}

	res := Run(candles, signals, Config{InitialCapital: 10000, PositionSizePct: 100})

	if res.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1", res.TotalTrades)
	}
	if res.Trades[0].EntryDate != "2024-02-02" || res.Trades[0].ExitDate != "2024-02-05" {
		t.Errorf("trade dates = %s..%s", res.Trades[0].EntryDate, res.Trades[0].ExitDate)
	}
}

func TestRun_ZeroQuantityBuyIgnored(t *testing.T) {
	// 1% of 500 = 5 currency units, not enough for one 100-priced share.
	candles := candlesWithCloses([]float64{100, 100, 100})
	signals := signalsAt(3, map[int]core.Action{0: core.ActionBuy})

	res := Run(candles, signals, Config{InitialCapital: 500, PositionSizePct: 1})

	if res.TotalTrades != 0 {
		t.Errorf("TotalTrades = %d, want 0 (unaffordable entry skipped)", res.TotalTrades)
	}
	if res.FinalCapital != 500 {
		t.Errorf("FinalCapital = %f, want untouched 500", res.FinalCapital)
	}
}

func TestRun_ForceCloseAtEnd(t *testing.T) {
	candles := candlesWithCloses([]float64{100, 100, 120})
	signals := signalsAt(3, map[int]core.Action{0: core.ActionBuy})

	res := Run(candles, signals, Config{InitialCapital: 10000, PositionSizePct: 100})

	if res.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1 (dangling position force-closed)", res.TotalTrades)
	}
	if res.Trades[0].Reason != ReasonEndOfData {
		t.Errorf("Reason = %q, want %q", res.Trades[0].Reason, ReasonEndOfData)
	}
	if res.Trades[0].ExitPrice != 120 {
		t.Errorf("ExitPrice = %f, want final close 120", res.Trades[0].ExitPrice)
	}
	// Final equity point must already value the open position.
	last := res.EquityCurve[len(res.EquityCurve)-1]
	if last.Equity != res.FinalCapital {
		t.Errorf("final equity %f != final capital %f", last.Equity, res.FinalCapital)
	}
}

func TestRun_EquityCurveTracksMarkToMarket(t *testing.T) {
	candles := candlesWithCloses([]float64{100, 110, 90, 100})
	signals := signalsAt(4, map[int]core.Action{0: core.ActionBuy})

	res := Run(candles, signals, Config{InitialCapital: 1000, PositionSizePct: 100})

	// 10 shares at 100; equity = cash 0 + 10*close
	want := []float64{1000, 1100, 900, 1000}
	for i, w := range want {
		if res.EquityCurve[i].Equity != w {
			t.Errorf("equity[%d] = %f, want %f", i, res.EquityCurve[i].Equity, w)
		}
	}
	if res.MaxDrawdown != 200 {
		t.Errorf("MaxDrawdown = %f, want 200", res.MaxDrawdown)
	}
	wantPct := 200.0 / 1100.0 * 100
	if diff := res.MaxDrawdownPct - wantPct; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("MaxDrawdownPct = %f, want %f", res.MaxDrawdownPct, wantPct)
	}
}

func TestRun_NoTrades(t *testing.T) {
	candles := candlesWithCloses([]float64{100, 100, 100})
	res := Run(candles, make([]core.Action, 3), Config{InitialCapital: 1000, PositionSizePct: 10})

	if res.TotalTrades != 0 || res.WinRate != 0 || res.ProfitFactor != 0 {
		t.Error("empty run should produce zero-valued statistics")
	}
	if res.SharpeRatio != 0 {
		t.Errorf("SharpeRatio = %f, want 0 for flat equity", res.SharpeRatio)
	}
	if res.BestTrade != 0 || res.WorstTrade != 0 || res.AvgWin != 0 || res.AvgLoss != 0 {
		t.Error("trade aggregates should be 0 with no trades")
	}
}

func TestRun_ProfitFactorSentinel(t *testing.T) {
	// Two winning trades, no losses: profit factor capped, not Inf.
	closes := []float64{100, 110, 100, 100, 120, 100}
	candles := candlesWithCloses(closes)
	signals := []core.Action{
		core.ActionBuy, core.ActionSell, core.ActionHold,
		core.ActionBuy, core.ActionSell, core.ActionHold,
	}

	res := Run(candles, signals, Config{InitialCapital: 10000, PositionSizePct: 50})

	if res.LosingTrades != 0 || res.WinningTrades != 2 {
		t.Fatalf("wins/losses = %d/%d, want 2/0", res.WinningTrades, res.LosingTrades)
	}
	if res.ProfitFactor != profitFactorCap {
		t.Errorf("ProfitFactor = %f, want sentinel %d", res.ProfitFactor, profitFactorCap)
	}
}

func TestRun_Deterministic(t *testing.T) {
	candles := candlesWithCloses([]float64{100, 105, 98, 103, 110, 107, 99, 104, 112, 108})
	signals := signalsAt(10, map[int]core.Action{1: core.ActionBuy, 4: core.ActionSell, 6: core.ActionBuy})
	cfg := Config{InitialCapital: 50000, PositionSizePct: 25}

	a := Run(candles, signals, cfg)
	b := Run(candles, signals, cfg)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("identical inputs produced different results:\n%s", diff)
	}
}

func TestRun_SignalsShorterThanCandles(t *testing.T) {
	// A sandbox can hand back a truncated series; missing entries are
	// treated as None.
	candles := candlesWithCloses([]float64{100, 100, 100, 100})
	res := Run(candles, []core.Action{core.ActionBuy}, Config{InitialCapital: 1000, PositionSizePct: 100})

	if res.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1", res.TotalTrades)
	}
	if res.Trades[0].Reason != ReasonEndOfData {
		t.Error("open position should be force-closed")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil); err != core.ErrNoData {
		t.Errorf("Validate(nil) = %v, want ErrNoData", err)
	}
	if err := Validate(candlesWithCloses(make([]float64, 10))); err != core.ErrInsufficientData {
		t.Errorf("Validate(short) = %v, want ErrInsufficientData", err)
	}
	long := make([]float64, core.MinCandles)
	for i := range long {
		long[i] = 100
	}
	if err := Validate(candlesWithCloses(long)); err != nil {
		t.Errorf("Validate(50 candles) = %v, want nil", err)
	}
}
