package backtest

import (
	"math"
)

// profitFactorCap stands in for an infinite profit factor when a run
// has gross profit but no gross loss.
const profitFactorCap = 999

// tradingDaysPerYear annualizes the Sharpe ratio of daily returns.
const tradingDaysPerYear = 252

// aggregate fills the derived statistics of a Result from its trades
// and equity curve.
func aggregate(r *Result) {
	var grossProfit, grossLoss float64
	var winning, losing int

	for i, t := range r.Trades {
		if t.IsWin() {
			winning++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			losing++
			grossLoss += -t.PnL
		}
		if i == 0 || t.PnL > r.BestTrade {
			r.BestTrade = t.PnL
		}
		if i == 0 || t.PnL < r.WorstTrade {
			r.WorstTrade = t.PnL
		}
	}

	r.TotalTrades = len(r.Trades)
	r.WinningTrades = winning
	r.LosingTrades = losing

	if r.TotalTrades > 0 {
		r.WinRate = float64(winning) / float64(r.TotalTrades) * 100
	}

	switch {
	case grossLoss > 0:
		r.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		r.ProfitFactor = profitFactorCap
	default:
		r.ProfitFactor = 0
	}

	if winning > 0 {
		r.AvgWin = grossProfit / float64(winning)
	}
	if losing > 0 {
		r.AvgLoss = -grossLoss / float64(losing)
	}

	r.MaxDrawdown, r.MaxDrawdownPct = maxDrawdown(r.EquityCurve)
	r.SharpeRatio = sharpeRatio(dailyReturns(r.EquityCurve))
}

// maxDrawdown tracks the largest decline from the running equity peak,
// in currency and as a percentage of that peak.
func maxDrawdown(curve []EquityPoint) (dd, ddPct float64) {
	var peak float64
	for i, p := range curve {
		if i == 0 || p.Equity > peak {
			peak = p.Equity
		}
		decline := peak - p.Equity
		if decline > dd {
			dd = decline
		}
		if peak > 0 {
			if pct := decline / peak * 100; pct > ddPct {
				ddPct = pct
			}
		}
	}
	return dd, ddPct
}

// dailyReturns converts the equity curve to day-over-day percentage
// changes. A zero previous equity contributes no return.
func dailyReturns(curve []EquityPoint) []float64 {
	var returns []float64
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	return returns
}

// sharpeRatio annualizes mean/stddev of daily returns, 0 when the
// deviation vanishes.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)))

	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(tradingDaysPerYear)
}
