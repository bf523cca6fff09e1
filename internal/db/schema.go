package db

// Schema is the embedded store layout. Dates are ISO-8601 TEXT; decimals
// are stored as TEXT to keep them exact.
const Schema = `
CREATE TABLE IF NOT EXISTS trading_calendar (
	market TEXT NOT NULL,
	day TEXT NOT NULL,
	is_trading_day INTEGER NOT NULL,
	PRIMARY KEY (market, day)
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	fund_code TEXT NOT NULL,
	type TEXT NOT NULL,
	amount TEXT NOT NULL,
	trade_date TEXT NOT NULL,
	status TEXT NOT NULL,
	market TEXT NOT NULL,
	shares TEXT,
	nav TEXT,
	pricing_date TEXT NOT NULL,
	confirm_date TEXT NOT NULL,
	confirmation_status TEXT NOT NULL,
	delayed_reason TEXT,
	delayed_since TEXT,
	created_at DATETIME NOT NULL,
	modified_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_status_confirm_date ON trades(status, confirm_date);

CREATE TABLE IF NOT EXISTS navs (
	fund_code TEXT NOT NULL,
	day TEXT NOT NULL,
	nav TEXT NOT NULL,
	PRIMARY KEY (fund_code, day)
);

CREATE TABLE IF NOT EXISTS alloc_config (
	asset_class TEXT PRIMARY KEY,
	target_weight TEXT NOT NULL,
	max_deviation TEXT
);

CREATE TABLE IF NOT EXISTS funds (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	market TEXT NOT NULL,
	asset_class TEXT NOT NULL
);
`
