package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratwatch",
	Short: "In-process risk control for algorithmic trading strategies",
	Long: `Stratwatch tracks a strategy's capital, open position and performance
metrics from a price stream, and raises an abort signal when configured
risk thresholds are breached.

It provides tools for:
  - Validating order admission against capital and position limits
  - Tracking equity, return and drawdown with decimal precision
  - Drawdown, absolute and percentage stop-loss watchers
  - Journaling equity snapshots and abort events to CSV or SQLite
  - Replaying scripted price/order sequences through the full stack`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
