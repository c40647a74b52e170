package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteSchema(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	for _, table := range []string{"equity", "aborts"} {
		var name string
		err := j.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}

func TestSQLiteEquityRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	ts := time.Date(2022, 8, 8, 10, 0, 0, 0, time.UTC)
	snaps := []EquitySnapshot{
		{
			Time:           ts,
			Equity:         decimal.RequireFromString("13032.487"),
			AvailableFunds: decimal.RequireFromString("0.0040001819628"),
			PositionSize:   decimal.RequireFromString("0.34709128732"),
			Peak:           decimal.RequireFromString("13963.1706359941016"),
			Trough:         decimal.RequireFromString("12791.08"),
			Drawdown:       decimal.RequireFromString("0.0666"),
			Return:         decimal.RequireFromString("32.487"),
		},
		{
			Time:           ts.Add(time.Second),
			Equity:         decimal.RequireFromString("12132.7135"),
			AvailableFunds: decimal.RequireFromString("0.0040001819628"),
			PositionSize:   decimal.RequireFromString("0.34709128732"),
			Peak:           decimal.RequireFromString("13963.1706359941016"),
			Trough:         decimal.RequireFromString("12132.7135"),
			Drawdown:       decimal.RequireFromString("0.1311"),
			Return:         decimal.RequireFromString("-867.2865"),
		},
	}
	for _, s := range snaps {
		require.NoError(t, j.RecordEquity(s))
	}

	got, err := j.ListEquity()
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, want := range snaps {
		assert.WithinDuration(t, want.Time, got[i].Time, time.Second)
		assert.Equal(t, want.Equity.String(), got[i].Equity.String())
		assert.Equal(t, want.AvailableFunds.String(), got[i].AvailableFunds.String())
		assert.Equal(t, want.PositionSize.String(), got[i].PositionSize.String())
		assert.Equal(t, want.Peak.String(), got[i].Peak.String())
		assert.Equal(t, want.Trough.String(), got[i].Trough.String())
		assert.Equal(t, want.Drawdown.String(), got[i].Drawdown.String())
		assert.Equal(t, want.Return.String(), got[i].Return.String())
	}
}

func TestSQLiteAbortRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	ts := time.Date(2022, 8, 8, 10, 0, 0, 0, time.UTC)
	want := AbortRecord{
		ID:       "01GA0Z0Z0Z0Z0Z0Z0Z0Z0Z0Z0Z",
		Time:     ts,
		Watcher:  "abs-stop-loss",
		ExitMode: "close-with-limit",
		Value:    decimal.RequireFromString("-867.2865"),
	}
	require.NoError(t, j.RecordAbort(want))

	got, err := j.ListAborts()
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.ID, got[0].ID)
	assert.WithinDuration(t, want.Time, got[0].Time, time.Second)
	assert.Equal(t, want.Watcher, got[0].Watcher)
	assert.Equal(t, want.ExitMode, got[0].ExitMode)
	assert.Equal(t, want.Value.String(), got[0].Value.String())
}

func TestSQLiteDuplicateAbortID(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	rec := AbortRecord{
		ID:      "01GA0Z0Z0Z0Z0Z0Z0Z0Z0Z0Z0Z",
		Time:    time.Now(),
		Watcher: "drawdown",
		Value:   decimal.Zero,
	}
	require.NoError(t, j.RecordAbort(rec))
	assert.Error(t, j.RecordAbort(rec))
}

func TestSQLiteReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time:           time.Now(),
		Equity:         decimal.RequireFromString("1000"),
		AvailableFunds: decimal.Zero,
		PositionSize:   decimal.RequireFromString("1"),
		Peak:           decimal.RequireFromString("1000"),
		Trough:         decimal.RequireFromString("1000"),
		Drawdown:       decimal.Zero,
		Return:         decimal.Zero,
	}))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { j2.Close() })

	got, err := j2.ListEquity()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1000", got[0].Equity.String())
}
