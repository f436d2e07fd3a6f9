package backtest

import (
	"context"
	"sort"
	"sync"

	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/strategy"
	"go.uber.org/zap"
)

// Comparison pairs a strategy with its simulation result.
type Comparison struct {
	Strategy    string  `json:"strategy"`
	Description string  `json:"description"`
	Result      *Result `json:"result"`
}

// CompareAll runs every given strategy and its simulation concurrently
// over the same candle series and returns the results ranked by return
// percentage, best first. Each run only reads the shared immutable
// candles and writes its own result, so no coordination beyond
// collection is needed. A cancelled context abandons the ranking and
// returns the context error.
func CompareAll(ctx context.Context, candles []core.Candle, strategies []strategy.Strategy, cfg Config, logger *zap.Logger) ([]Comparison, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Validate(candles); err != nil {
		return nil, err
	}

	results := make([]Comparison, len(strategies))
	var wg sync.WaitGroup

	for i, strat := range strategies {
		wg.Add(1)
		go func(i int, strat strategy.Strategy) {
			defer wg.Done()

			signals := strat.Signals(candles)
			res := Run(candles, signals, cfg)
			results[i] = Comparison{
				Strategy:    strat.Name(),
				Description: strat.Description(),
				Result:      res,
			}
			logger.Debug("strategy compared",
				zap.String("strategy", strat.Name()),
				zap.Float64("return_pct", res.TotalReturnPct),
				zap.Int("trades", res.TotalTrades),
			)
		}(i, strat)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Result.TotalReturnPct > results[b].Result.TotalReturnPct
	})
	return results, nil
}
