package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratwatch/perf"
)

// NewAbsoluteStopLossWatcher aborts when the strategy's loss reaches
// stopLoss in currency units.
func NewAbsoluteStopLossWatcher(m *perf.Manager, stopLoss decimal.Decimal) *Watcher {
	return NewWatcher(m, absStopLossPredicate{stop: stopLoss})
}

type absStopLossPredicate struct {
	stop decimal.Decimal
}

func (absStopLossPredicate) Name() string { return "abs-stop-loss" }

func (p absStopLossPredicate) Breached(m *perf.Manager) bool {
	r := m.Return()
	return r.IsNegative() && r.Abs().GreaterThanOrEqual(p.stop)
}

// NewPercentageStopLossWatcher aborts when the strategy's loss reaches
// stopLoss as a fraction of the allocation.
func NewPercentageStopLossWatcher(m *perf.Manager, stopLoss decimal.Decimal) *Watcher {
	return NewWatcher(m, percStopLossPredicate{stop: stopLoss})
}

type percStopLossPredicate struct {
	stop decimal.Decimal
}

func (percStopLossPredicate) Name() string { return "perc-stop-loss" }

func (p percStopLossPredicate) Breached(m *perf.Manager) bool {
	r := m.ReturnPerc()
	return r.IsNegative() && r.Abs().GreaterThanOrEqual(p.stop)
}
