package journal

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

type CSV struct {
	equity *csv.Writer
	aborts *csv.Writer
	ef, af *os.File
}

func NewCSV(equityPath, abortsPath string) (*CSV, error) {
	ef, err := os.Create(equityPath)
	if err != nil {
		return nil, err
	}
	af, err := os.Create(abortsPath)
	if err != nil {
		ef.Close()
		return nil, err
	}

	ew := csv.NewWriter(ef)
	aw := csv.NewWriter(af)

	ew.Write([]string{"time", "equity", "available_funds", "position_size", "peak", "trough", "drawdown", "return"})
	ew.Flush()
	aw.Write([]string{"id", "time", "watcher", "exit_mode", "value"})
	aw.Flush()

	err = ew.Error()
	if err == nil {
		err = aw.Error()
	}
	if err != nil {
		ef.Close()
		af.Close()
		return nil, err
	}

	return &CSV{ew, aw, ef, af}, nil
}

func (j *CSV) RecordEquity(e EquitySnapshot) error {
	j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		d(e.Equity),
		d(e.AvailableFunds),
		d(e.PositionSize),
		d(e.Peak),
		d(e.Trough),
		d(e.Drawdown),
		d(e.Return),
	})
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) RecordAbort(a AbortRecord) error {
	j.aborts.Write([]string{
		a.ID,
		a.Time.Format(time.RFC3339),
		a.Watcher,
		a.ExitMode,
		d(a.Value),
	})
	j.aborts.Flush()
	return j.aborts.Error()
}

func (j *CSV) Close() error {
	j.equity.Flush()
	j.aborts.Flush()
	if err := j.ef.Close(); err != nil {
		j.af.Close()
		return err
	}
	return j.af.Close()
}

// d keeps the full decimal precision in the CSV; parsing it back loses
// nothing.
func d(v decimal.Decimal) string {
	return v.String()
}
