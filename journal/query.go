package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListEquity returns every recorded snapshot in insertion order.
func (j *SQLite) ListEquity() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, equity, available_funds, position_size, peak, trough, drawdown, return_value
		FROM equity
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var (
			rec EquitySnapshot
			ts  time.Time
			eq, funds, size, peak, trough, dd, ret string
		)
		if err := rows.Scan(&ts, &eq, &funds, &size, &peak, &trough, &dd, &ret); err != nil {
			return nil, err
		}
		rec.Time = ts
		for _, f := range []struct {
			dst *decimal.Decimal
			src string
		}{
			{&rec.Equity, eq},
			{&rec.AvailableFunds, funds},
			{&rec.PositionSize, size},
			{&rec.Peak, peak},
			{&rec.Trough, trough},
			{&rec.Drawdown, dd},
			{&rec.Return, ret},
		} {
			v, err := decimal.NewFromString(f.src)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListAborts returns every recorded abort in insertion order.
func (j *SQLite) ListAborts() ([]AbortRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, time, watcher, exit_mode, value
		FROM aborts
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AbortRecord
	for rows.Next() {
		var (
			rec AbortRecord
			val string
		)
		if err := rows.Scan(&rec.ID, &rec.Time, &rec.Watcher, &rec.ExitMode, &val); err != nil {
			return nil, err
		}
		v, err := decimal.NewFromString(val)
		if err != nil {
			return nil, err
		}
		rec.Value = v
		out = append(out, rec)
	}
	return out, rows.Err()
}
