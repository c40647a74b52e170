package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquitySnapshot is one observation of a manager's derived metrics,
// taken after an update signal so the figures are fully committed.
type EquitySnapshot struct {
	Time           time.Time
	Equity         decimal.Decimal
	AvailableFunds decimal.Decimal
	PositionSize   decimal.Decimal
	Peak           decimal.Decimal
	Trough         decimal.Decimal
	Drawdown       decimal.Decimal
	Return         decimal.Decimal
}

// AbortRecord is one abort raised by a watcher.
type AbortRecord struct {
	ID       string
	Time     time.Time
	Watcher  string
	ExitMode string
	Value    decimal.Decimal
}

type Journal interface {
	RecordEquity(EquitySnapshot) error
	RecordAbort(AbortRecord) error
	Close() error
}
