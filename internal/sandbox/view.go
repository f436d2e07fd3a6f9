package sandbox

import (
	"github.com/dop251/goja"
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/indicator"
	"github.com/quantfold/helix/internal/series"
)

// newCandleView builds the data object handed to user code: parallel
// arrays plus a composite per-candle view. Everything is copied into
// the interpreter, so user code mutating it cannot touch the host's
// candle slice.
func newCandleView(vm *goja.Runtime, candles []core.Candle) *goja.Object {
	n := len(candles)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	dates := make([]string, n)
	composite := make([]map[string]any, n)

	for i, c := range candles {
		open[i] = c.Open
		high[i] = c.High
		low[i] = c.Low
		closes[i] = c.Close
		volume[i] = float64(c.Volume)
		dates[i] = c.Date
		composite[i] = map[string]any{
			"date":      c.Date,
			"timestamp": c.Timestamp,
			"open":      c.Open,
			"high":      c.High,
			"low":       c.Low,
			"close":     c.Close,
			"volume":    c.Volume,
		}
	}

	obj := vm.NewObject()
	_ = obj.Set("length", n)
	_ = obj.Set("open", open)
	_ = obj.Set("high", high)
	_ = obj.Set("low", low)
	_ = obj.Set("close", closes)
	_ = obj.Set("volume", volume)
	_ = obj.Set("dates", dates)
	_ = obj.Set("candles", composite)
	return obj
}

// newIndicatorAPI binds the full indicator library to the candles and
// exposes it as an object of functions. Series values cross into the
// interpreter as number-or-null arrays, preserving warm-up nulls.
func newIndicatorAPI(vm *goja.Runtime, candles []core.Candle) *goja.Object {
	closes := core.Closes(candles)

	toJS := func(s series.Series) []any {
		out := make([]any, len(s))
		for i, v := range s {
			if v.Valid {
				out[i] = v.Float64
			}
		}
		return out
	}
	channel := func(ch indicator.Channel) map[string]any {
		return map[string]any{
			"upper":  toJS(ch.Upper),
			"middle": toJS(ch.Middle),
			"lower":  toJS(ch.Lower),
		}
	}

	obj := vm.NewObject()

	_ = obj.Set("sma", func(period int) []any { return toJS(indicator.SMA(closes, period)) })
	_ = obj.Set("ema", func(period int) []any { return toJS(indicator.EMA(closes, period)) })
	_ = obj.Set("wma", func(period int) []any { return toJS(indicator.WMA(closes, period)) })
	_ = obj.Set("dema", func(period int) []any { return toJS(indicator.DEMA(closes, period)) })
	_ = obj.Set("tema", func(period int) []any { return toJS(indicator.TEMA(closes, period)) })
	_ = obj.Set("trix", func(period int) []any { return toJS(indicator.TRIX(closes, period)) })
	_ = obj.Set("rsi", func(period int) []any { return toJS(indicator.RSI(closes, period)) })
	_ = obj.Set("roc", func(period int) []any { return toJS(indicator.ROC(closes, period)) })

	_ = obj.Set("macd", func(fast, slow, signal int) map[string]any {
		res := indicator.MACD(closes, fast, slow, signal)
		return map[string]any{
			"line":      toJS(res.Line),
			"signal":    toJS(res.Signal),
			"histogram": toJS(res.Histogram),
		}
	})

	_ = obj.Set("atr", func(period int) []any { return toJS(indicator.ATR(candles, period)) })
	_ = obj.Set("supertrend", func(period int, multiplier float64) map[string]any {
		res := indicator.Supertrend(candles, period, multiplier)
		return map[string]any{
			"line":      toJS(res.Line),
			"direction": res.Direction,
		}
	})
	_ = obj.Set("psar", func(step, max float64) []any {
		return toJS(indicator.ParabolicSAR(candles, step, max))
	})
	_ = obj.Set("adx", func(period int) map[string]any {
		res := indicator.ADX(candles, period)
		return map[string]any{
			"adx":     toJS(res.ADX),
			"plusDI":  toJS(res.PlusDI),
			"minusDI": toJS(res.MinusDI),
		}
	})
	_ = obj.Set("ichimoku", func(tenkan, kijun, senkou int) map[string]any {
		res := indicator.Ichimoku(candles, tenkan, kijun, senkou)
		return map[string]any{
			"tenkan":  toJS(res.Tenkan),
			"kijun":   toJS(res.Kijun),
			"senkouA": toJS(res.SenkouA),
			"senkouB": toJS(res.SenkouB),
		}
	})

	_ = obj.Set("stochastic", func(kPeriod, dPeriod int) map[string]any {
		res := indicator.Stochastic(candles, kPeriod, dPeriod)
		return map[string]any{
			"k": toJS(res.K),
			"d": toJS(res.D),
		}
	})
	_ = obj.Set("williamsR", func(period int) []any { return toJS(indicator.WilliamsR(candles, period)) })
	_ = obj.Set("cci", func(period int) []any { return toJS(indicator.CCI(candles, period)) })
	_ = obj.Set("mfi", func(period int) []any { return toJS(indicator.MFI(candles, period)) })

	_ = obj.Set("bollinger", func(period int, k float64) map[string]any {
		return channel(indicator.Bollinger(closes, period, k))
	})
	_ = obj.Set("keltner", func(emaPeriod, atrPeriod int, mult float64) map[string]any {
		return channel(indicator.Keltner(candles, emaPeriod, atrPeriod, mult))
	})
	_ = obj.Set("donchian", func(period int) map[string]any {
		return channel(indicator.Donchian(candles, period))
	})

	_ = obj.Set("vwap", func() []any { return toJS(indicator.VWAP(candles)) })
	_ = obj.Set("obv", func() []any { return toJS(indicator.OBV(candles)) })
	_ = obj.Set("ad", func() []any { return toJS(indicator.AccumulationDistribution(candles)) })
	_ = obj.Set("cmf", func(period int) []any { return toJS(indicator.CMF(candles, period)) })
	_ = obj.Set("ao", func(fast, slow int) []any { return toJS(indicator.AwesomeOscillator(candles, fast, slow)) })

	return obj
}
