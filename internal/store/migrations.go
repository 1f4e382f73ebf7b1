package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	course_code TEXT NOT NULL DEFAULT '',
	course_name TEXT NOT NULL,
	term        TEXT NOT NULL,
	instructor  TEXT NOT NULL DEFAULT '',
	schedule    TEXT NOT NULL DEFAULT '',
	credits     INTEGER NOT NULL DEFAULT 0,
	fetched_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS events (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	event_date      TEXT NOT NULL,
	event_time      TEXT NOT NULL DEFAULT '',
	priority        TEXT NOT NULL DEFAULT 'normal',
	target_audience TEXT NOT NULL DEFAULT 'all',
	category        TEXT NOT NULL DEFAULT 'general',
	status          TEXT NOT NULL DEFAULT 'upcoming',
	created_at      TEXT NOT NULL DEFAULT '',
	fetched_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_courses_term ON courses(term);
CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
