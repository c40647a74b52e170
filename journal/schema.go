package journal

// Decimals are stored as TEXT so round-tripping through SQLite never
// introduces binary-float drift.
const Schema = `
CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	equity TEXT NOT NULL,
	available_funds TEXT NOT NULL,
	position_size TEXT NOT NULL,
	peak TEXT NOT NULL,
	trough TEXT NOT NULL,
	drawdown TEXT NOT NULL,
	return_value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS aborts (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	watcher TEXT NOT NULL,
	exit_mode TEXT NOT NULL,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
