package local

// migration holds a single schema migration with its target version
// and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations; versions are
// sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id                TEXT PRIMARY KEY,
	account_id        TEXT NOT NULL DEFAULT '',
	from_name         TEXT NOT NULL DEFAULT '',
	from_email        TEXT NOT NULL DEFAULT '',
	to_json           TEXT NOT NULL DEFAULT '[]',
	cc_json           TEXT NOT NULL DEFAULT '[]',
	bcc_json          TEXT NOT NULL DEFAULT '[]',
	subject           TEXT NOT NULL DEFAULT '',
	preview           TEXT NOT NULL DEFAULT '',
	body              TEXT NOT NULL DEFAULT '',
	date              TEXT NOT NULL DEFAULT '',
	is_read           INTEGER NOT NULL DEFAULT 0,
	is_starred        INTEGER NOT NULL DEFAULT 0,
	has_attachment    INTEGER NOT NULL DEFAULT 0,
	attachments_json  TEXT NOT NULL DEFAULT '[]',
	folder            TEXT NOT NULL DEFAULT 'inbox',
	labels_json       TEXT NOT NULL DEFAULT '[]',
	thread_id         TEXT NOT NULL DEFAULT '',
	reply_to_id       TEXT NOT NULL DEFAULT '',
	forwarded_from_id TEXT NOT NULL DEFAULT '',
	is_draft          INTEGER NOT NULL DEFAULT 0,
	scheduled_send_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS folders (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	parent_id  TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS labels (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS accounts (
	id                   TEXT PRIMARY KEY,
	email                TEXT NOT NULL,
	name                 TEXT NOT NULL DEFAULT '',
	color                TEXT NOT NULL DEFAULT 'blue',
	display_name         TEXT NOT NULL DEFAULT '',
	signature            TEXT NOT NULL DEFAULT '',
	default_signature_id TEXT NOT NULL DEFAULT '',
	is_default           INTEGER NOT NULL DEFAULT 0,
	created_at           TEXT NOT NULL DEFAULT '',
	updated_at           TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	email       TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	avatar      TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	is_favorite INTEGER NOT NULL DEFAULT 0,
	groups_json TEXT NOT NULL DEFAULT '[]',
	created_at  TEXT NOT NULL DEFAULT '',
	updated_at  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS contact_groups (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	color            TEXT NOT NULL DEFAULT '',
	contact_ids_json TEXT NOT NULL DEFAULT '[]',
	created_at       TEXT NOT NULL DEFAULT '',
	updated_at       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_emails_folder ON emails(folder);
CREATE INDEX IF NOT EXISTS idx_emails_account ON emails(account_id);
CREATE INDEX IF NOT EXISTS idx_emails_thread ON emails(thread_id);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
`,
	},
}
