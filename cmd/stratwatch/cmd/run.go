package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stratwatch/config"
	"github.com/rustyeddy/stratwatch/journal"
	"github.com/rustyeddy/stratwatch/perf"
	"github.com/rustyeddy/stratwatch/pricing"
	"github.com/rustyeddy/stratwatch/risk"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a scripted price/order sequence from a config file",
	Long: `Run a scripted sequence of price ticks and orders through the price
feed, the performance manager and the configured watchers.

The config file specifies the capital allocation, feed bucketing, watcher
thresholds, journaling and the replay steps.

Example:
  stratwatch run --config examples/configs/basic.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("Running with config: %s\n", runConfigPath)
	fmt.Printf("  Allocation: %.2f (max position size: %g)\n",
		cfg.Account.Allocation, cfg.Account.MaxPositionSize)
	fmt.Printf("  Watchers: drawdown=%g abs-stop=%g perc-stop=%g mode=%s\n",
		cfg.Watchers.MaxDrawdown, cfg.Watchers.AbsStopLoss,
		cfg.Watchers.PercStopLoss, cfg.Watchers.ExitPositionMode)
	fmt.Println()

	bucketSize, err := cfg.Feed.ParseBucketSize()
	if err != nil {
		return err
	}
	feedOpts := pricing.Options{BucketSize: bucketSize}
	if cfg.Feed.InitialPrice > 0 {
		p := decimal.NewFromFloat(cfg.Feed.InitialPrice)
		feedOpts.InitialPrice = &p
	}
	feed := pricing.NewFeed(feedOpts)
	defer feed.Close()

	manager, err := perf.NewManager(feed, perf.Config{
		Allocation:      decimal.NewFromFloat(cfg.Account.Allocation),
		MaxPositionSize: decimal.NewFromFloat(cfg.Account.MaxPositionSize),
	})
	if err != nil {
		return fmt.Errorf("create manager: %w", err)
	}
	defer manager.Close()

	var rec *journal.Recorder
	switch cfg.Journal.Type {
	case "", "none":
	case "csv":
		j, err := journal.NewCSV(cfg.Journal.EquityFile, cfg.Journal.AbortsFile)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		defer j.Close()
		rec = journal.NewRecorder(j, manager)
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		defer j.Close()
		rec = journal.NewRecorder(j, manager)
	}
	if rec != nil {
		manager.Attach(rec)
	}

	mode := risk.ExitMode(cfg.Watchers.ExitPositionMode)
	if mode == "" {
		mode = risk.ExitModeMarket
	}

	aborted := 0
	watchers := risk.StartWatchers(manager, func(mode risk.ExitMode) {
		aborted++
		fmt.Printf("!! abort raised (exit mode: %s, drawdown: %s, return: %s)\n",
			mode, manager.Drawdown().StringFixed(4), manager.Return().StringFixed(2))
	}, risk.WatcherConfig{
		MaxDrawdown:      decimal.NewFromFloat(cfg.Watchers.MaxDrawdown),
		AbsStopLoss:      decimal.NewFromFloat(cfg.Watchers.AbsStopLoss),
		PercStopLoss:     decimal.NewFromFloat(cfg.Watchers.PercStopLoss),
		ExitPositionMode: mode,
	})
	defer func() {
		for _, w := range watchers {
			w.Close()
		}
	}()

	if rec != nil {
		for _, w := range watchers {
			w.OnAbort(func() {
				rec.RecordAbort(w.Name(), string(mode), manager.EquityCurve())
			})
		}
	}

	for i, step := range cfg.Replay.Steps {
		delay, _ := step.ParseDelay()
		if delay > 0 {
			time.Sleep(delay)
		}

		if step.Price > 0 {
			feed.Update(decimal.NewFromFloat(step.Price), time.Now().UnixMilli(), step.Force)
			fmt.Printf("step %d: tick %.2f\n", i, step.Price)
		}

		if step.Order != nil {
			amount := decimal.NewFromFloat(step.Order.Amount)
			price := decimal.NewFromFloat(step.Order.Price)
			leverage := decimal.NewFromFloat(step.Order.Leverage)

			if err := manager.CanOpenOrder(amount, price, leverage); err != nil {
				if errors.Is(err, perf.ErrZeroAmount) {
					return fmt.Errorf("step %d: %w", i, err)
				}
				fmt.Printf("step %d: order rejected: %v\n", i, err)
				continue
			}
			if err := manager.AddOrder(amount, price, leverage); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			fmt.Printf("step %d: order %s @ %s\n", i, amount, price)
		}
	}

	fmt.Println()
	fmt.Println("Final state:")
	fmt.Printf("  Position size:   %s\n", manager.PositionSize().String())
	fmt.Printf("  Available funds: %s\n", manager.AvailableFunds().StringFixed(2))
	fmt.Printf("  Equity curve:    %s\n", manager.EquityCurve().StringFixed(2))
	fmt.Printf("  Return:          %s (%s%%)\n",
		manager.Return().StringFixed(2),
		manager.ReturnPerc().Mul(decimal.NewFromInt(100)).StringFixed(2))
	fmt.Printf("  Peak / trough:   %s / %s\n",
		manager.Peak().StringFixed(2), manager.Trough().StringFixed(2))
	fmt.Printf("  Drawdown:        %s\n", manager.Drawdown().StringFixed(4))
	fmt.Printf("  Aborts raised:   %d\n", aborted)

	return nil
}
