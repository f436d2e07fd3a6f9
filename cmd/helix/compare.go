package main

import (
	"fmt"

	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/logger"
	"github.com/quantfold/helix/internal/pricedata"
	"github.com/quantfold/helix/internal/strategy"
	"github.com/spf13/cobra"
)

var (
	compareData    string
	compareCapital float64
	compareSizePct float64
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Backtest every catalog strategy and rank the results",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareData, "data", "", "Path to a CSV or JSON candle file (required)")
	compareCmd.Flags().Float64Var(&compareCapital, "capital", 100000, "Initial capital")
	compareCmd.Flags().Float64Var(&compareSizePct, "size", 10, "Position size as percent of capital")

	compareCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := logger.Must(logger.Options{Development: debug})
	defer log.Sync()

	candles, err := pricedata.LoadFile(compareData)
	if err != nil {
		return fmt.Errorf("loading candles: %w", err)
	}

	engine := strategy.NewDefaultEngine(log)
	cfg := backtest.Config{
		InitialCapital:  compareCapital,
		PositionSizePct: compareSizePct,
	}

	results, err := backtest.CompareAll(cmd.Context(), candles, engine.GetAll(), cfg, log)
	if err != nil {
		return err
	}

	fmt.Println("=== Helix Strategy Comparison ===")
	fmt.Printf("%-22s %10s %8s %9s %9s\n", "STRATEGY", "RETURN%", "TRADES", "WIN%", "SHARPE")
	for _, c := range results {
		fmt.Printf("%-22s %10.2f %8d %9.2f %9.2f\n",
			c.Strategy,
			c.Result.TotalReturnPct,
			c.Result.TotalTrades,
			c.Result.WinRate,
			c.Result.SharpeRatio,
		)
	}
	return nil
}
