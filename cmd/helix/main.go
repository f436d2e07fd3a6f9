package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "helix",
	Short: "Helix - strategy backtesting engine",
	Long: `Helix runs technical trading strategies over historical OHLCV data,
simulates long-only trading on their signals, and reports performance
statistics. It ships a built-in strategy catalog and a sandbox for
user-supplied strategies.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
