package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, equity, available_funds, position_size, peak, trough, drawdown, return_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Time, e.Equity.String(), e.AvailableFunds.String(), e.PositionSize.String(),
		e.Peak.String(), e.Trough.String(), e.Drawdown.String(), e.Return.String(),
	)
	return err
}

func (j *SQLite) RecordAbort(a AbortRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO aborts
		(id, time, watcher, exit_mode, value)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Time, a.Watcher, a.ExitMode, a.Value.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
