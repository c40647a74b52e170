package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratwatch/perf"
)

// NewDrawdownWatcher aborts when the manager's drawdown reaches
// maxDrawdown (a fraction, e.g. 0.2 for 20%).
func NewDrawdownWatcher(m *perf.Manager, maxDrawdown decimal.Decimal) *Watcher {
	return NewWatcher(m, drawdownPredicate{max: maxDrawdown})
}

type drawdownPredicate struct {
	max decimal.Decimal
}

func (drawdownPredicate) Name() string { return "drawdown" }

func (p drawdownPredicate) Breached(m *perf.Manager) bool {
	return m.Drawdown().GreaterThanOrEqual(p.max)
}
