package main

import (
	"fmt"
	"os"

	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/logger"
	"github.com/quantfold/helix/internal/pricedata"
	"github.com/quantfold/helix/internal/sandbox"
	"github.com/quantfold/helix/internal/strategy"
	"github.com/spf13/cobra"
)

var (
	backtestData    string
	backtestScript  string
	backtestCapital float64
	backtestSizePct float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a backtest on a strategy",
	Long: `Run a catalog strategy (or a custom script via --script) against
historical data and print performance statistics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestData, "data", "", "Path to a CSV or JSON candle file (required)")
	backtestCmd.Flags().StringVar(&backtestScript, "script", "", "Path to a custom strategy script")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 100000, "Initial capital")
	backtestCmd.Flags().Float64Var(&backtestSizePct, "size", 10, "Position size as percent of capital")

	backtestCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(logger.Options{Development: debug})
	defer log.Sync()

	if len(args) == 0 && backtestScript == "" {
		return fmt.Errorf("either a strategy name or --script is required")
	}

	candles, err := pricedata.LoadFile(backtestData)
	if err != nil {
		return fmt.Errorf("loading candles: %w", err)
	}
	if err := backtest.Validate(candles); err != nil {
		return err
	}

	cfg := backtest.Config{
		InitialCapital:  backtestCapital,
		PositionSizePct: backtestSizePct,
	}

	var name string
	var signals []core.Action

	if backtestScript != "" {
		code, err := os.ReadFile(backtestScript)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}

		res := sandbox.NewExecutor(sandbox.WithLogger(log)).Execute(string(code), candles)
		for _, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "strategy error: %s\n", msg)
		}
		name = "custom"
		signals = res.Signals
	} else {
		engine := strategy.NewDefaultEngine(log)
		name = args[0]
		signals, err = engine.Signals(name, candles)
		if err != nil {
			return err
		}
	}

	result := backtest.Run(candles, signals, cfg)
	printResult(name, candles[0].Date, candles[len(candles)-1].Date, result)
	return nil
}

func printResult(name, from, to string, r *backtest.Result) {
	fmt.Println("=== Helix Backtest ===")
	fmt.Printf("Strategy: %s\n", name)
	fmt.Printf("Period:   %s to %s\n", from, to)
	fmt.Println()
	fmt.Printf("Initial capital:  %12.2f\n", r.InitialCapital)
	fmt.Printf("Final capital:    %12.2f\n", r.FinalCapital)
	fmt.Printf("Total return:     %11.2f%%\n", r.TotalReturnPct)
	fmt.Printf("Trades:           %6d (%d wins / %d losses)\n", r.TotalTrades, r.WinningTrades, r.LosingTrades)
	fmt.Printf("Win rate:         %11.2f%%\n", r.WinRate)
	fmt.Printf("Profit factor:    %12.2f\n", r.ProfitFactor)
	fmt.Printf("Sharpe ratio:     %12.2f\n", r.SharpeRatio)
	fmt.Printf("Max drawdown:     %12.2f (%.2f%%)\n", r.MaxDrawdown, r.MaxDrawdownPct)
}
