package journal

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	prediction_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	probability REAL NOT NULL,
	confidence REAL NOT NULL,
	sources TEXT NOT NULL,
	normalized INTEGER NOT NULL,
	created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	entry_threshold REAL NOT NULL,
	exit_threshold REAL NOT NULL,
	fee_bps REAL NOT NULL,
	slippage_bps REAL NOT NULL,
	sharpe REAL NOT NULL,
	sortino REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	win_rate REAL NOT NULL,
	trades INTEGER NOT NULL,
	final_equity REAL NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS backtest_trades (
	run_id TEXT NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	return_fraction REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_instrument ON predictions(instrument);
CREATE INDEX IF NOT EXISTS idx_backtest_trades_run ON backtest_trades(run_id);
`
