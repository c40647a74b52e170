package journal

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratwatch/perf"
)

// Recorder snapshots a manager into a Journal on every update signal,
// and funnels watcher aborts into the same journal. Backend failures are
// logged rather than propagated: journaling must never stall the update
// path.
type Recorder struct {
	j   Journal
	m   *perf.Manager
	now func() time.Time
}

func NewRecorder(j Journal, m *perf.Manager) *Recorder {
	return &Recorder{j: j, m: m, now: time.Now}
}

// OnUpdate implements perf.UpdateListener.
func (r *Recorder) OnUpdate() {
	snap := EquitySnapshot{
		Time:           r.now(),
		Equity:         r.m.EquityCurve(),
		AvailableFunds: r.m.AvailableFunds(),
		PositionSize:   r.m.PositionSize(),
		Peak:           r.m.Peak(),
		Trough:         r.m.Trough(),
		Drawdown:       r.m.Drawdown(),
		Return:         r.m.Return(),
	}
	if err := r.j.RecordEquity(snap); err != nil {
		slog.Warn("journal: record equity failed", "err", err)
	}
}

// RecordAbort writes one abort event with the metric value the subject
// reports at call time.
func (r *Recorder) RecordAbort(watcher, exitMode string, value decimal.Decimal) {
	rec := AbortRecord{
		ID:       newAbortID(),
		Time:     r.now(),
		Watcher:  watcher,
		ExitMode: exitMode,
		Value:    value,
	}
	if err := r.j.RecordAbort(rec); err != nil {
		slog.Warn("journal: record abort failed", "err", err)
	}
}
