package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	strategy TEXT NOT NULL,
	dedup_key TEXT NOT NULL,
	week_key TEXT NOT NULL,
	entry_time TEXT NOT NULL,
	exit_time TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	stop_price REAL NOT NULL,
	contracts INTEGER NOT NULL,
	points_pl REAL NOT NULL,
	dollar_pl REAL NOT NULL,
	risk_points REAL NOT NULL,
	risk_dollars REAL NOT NULL,
	reward_risk REAL NOT NULL,
	is_win INTEGER NOT NULL,
	trade_date TEXT NOT NULL,
	trade_num TEXT NOT NULL,
	outcome TEXT NOT NULL,
	trailing_profit TEXT NOT NULL,
	upload_batch TEXT NOT NULL,
	PRIMARY KEY (strategy, dedup_key)
);

CREATE INDEX IF NOT EXISTS idx_trades_batch ON trades(strategy, upload_batch);
CREATE INDEX IF NOT EXISTS idx_trades_week ON trades(strategy, week_key);
`
