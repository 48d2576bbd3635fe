package database

// schemas maps database names to their embedded DDL. Each schema is
// idempotent (IF NOT EXISTS) so Migrate can run on every startup.
var schemas = map[string]string{
	"catalog": catalogSchema,
	"cache":   cacheSchema,
}

// catalogSchema holds the fund universe: one row per fund with the
// descriptive and historical fields the scorer consumes. Metric columns are
// nullable on purpose - absence is not an error (the scorer substitutes a
// neutral baseline).
const catalogSchema = `
CREATE TABLE IF NOT EXISTS funds (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    pinyin TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    return_1y REAL,
    return_3y REAL,
    return_5y REAL,
    volatility REAL,
    max_drawdown REAL,
    sharpe_ratio REAL,
    manager_experience REAL,
    manager_scale REAL,
    management_fee REAL,
    fund_scale REAL,
    holdings_concentration REAL,
    turnover_rate REAL,
    updated_at INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_funds_type ON funds(type);
`

// cacheSchema holds ephemeral data: external API payload cache and the
// recommendation history.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS eastmoney_search (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS eastmoney_estimate (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fund_metrics (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recommendations (
    uuid TEXT PRIMARY KEY,
    code TEXT NOT NULL,
    name TEXT NOT NULL,
    fund_type TEXT NOT NULL,
    rating TEXT NOT NULL,
    total_score REAL NOT NULL,
    risk_level TEXT NOT NULL,
    expected_return REAL NOT NULL,
    expected_risk REAL NOT NULL,
    match_reasons TEXT NOT NULL,
    risk_tolerance TEXT NOT NULL,
    investment_horizon TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_created ON recommendations(created_at);
`
