package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. The cache
// lives in an in-memory database, so in practice every migration runs
// on each start; versioning keeps the mechanism ready for a file-
// backed cache.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	is_active     INTEGER NOT NULL DEFAULT 1,
	is_connected  INTEGER NOT NULL DEFAULT 0,
	total_emails  INTEGER NOT NULL DEFAULT 0,
	synced_emails INTEGER NOT NULL DEFAULT 0,
	raw           TEXT NOT NULL DEFAULT '{}',
	fetched_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id          TEXT PRIMARY KEY,
	account_id  TEXT NOT NULL,
	subject     TEXT NOT NULL DEFAULT '',
	sender      TEXT NOT NULL DEFAULT '',
	recipient   TEXT NOT NULL DEFAULT '',
	folder      TEXT NOT NULL DEFAULT '',
	esp         TEXT NOT NULL DEFAULT '',
	date        DATETIME NOT NULL,
	preview     TEXT NOT NULL DEFAULT '',
	is_read     INTEGER NOT NULL DEFAULT 0,
	query       TEXT NOT NULL DEFAULT '',
	fetched_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emails_account_id ON emails(account_id);
CREATE INDEX IF NOT EXISTS idx_emails_date ON emails(date);
CREATE INDEX IF NOT EXISTS idx_emails_query ON emails(query);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
