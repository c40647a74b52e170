package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratwatch/perf"
)

// ExitMode is an opaque tag forwarded, unmodified, to the abort handler
// so the strategy knows how it is expected to unwind its position.
type ExitMode string

const (
	ExitModeMarket ExitMode = "close-at-market"
	ExitModeLimit  ExitMode = "close-with-limit"
)

// WatcherConfig selects the active watchers. A zero threshold leaves
// that watcher out; an empty ExitPositionMode defaults to
// ExitModeMarket.
type WatcherConfig struct {
	MaxDrawdown      decimal.Decimal
	AbsStopLoss      decimal.Decimal
	PercStopLoss     decimal.Decimal
	ExitPositionMode ExitMode
}

// StartWatchers builds the watchers requested by cfg against m, starts
// each, and forwards every abort into the abort callback together with
// the configured exit mode. The returned watchers must be closed by the
// caller; subscriptions are not reclaimed automatically.
func StartWatchers(m *perf.Manager, abort func(ExitMode), cfg WatcherConfig) []*Watcher {
	mode := cfg.ExitPositionMode
	if mode == "" {
		mode = ExitModeMarket
	}

	var watchers []*Watcher
	if !cfg.MaxDrawdown.IsZero() {
		watchers = append(watchers, NewDrawdownWatcher(m, cfg.MaxDrawdown))
	}
	if !cfg.AbsStopLoss.IsZero() {
		watchers = append(watchers, NewAbsoluteStopLossWatcher(m, cfg.AbsStopLoss))
	}
	if !cfg.PercStopLoss.IsZero() {
		watchers = append(watchers, NewPercentageStopLossWatcher(m, cfg.PercStopLoss))
	}

	for _, w := range watchers {
		w.OnAbort(func() { abort(mode) })
		w.Start()
	}
	return watchers
}
