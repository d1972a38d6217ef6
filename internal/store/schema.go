// Package store provides the SQLite-backed task store: schema setup, category
// resolution, task CRUD, and read-side queries.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
	id   INTEGER PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT,
	created_at   TEXT NOT NULL,
	due_date     TEXT,
	completed_at TEXT,
	priority     INTEGER NOT NULL,
	category_id  INTEGER REFERENCES categories(id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category_id);
CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed_at);
`

// defaultCategories are seeded on every Open; INSERT OR IGNORE keeps the
// seeding idempotent and never overwrites user-created rows.
var defaultCategories = []string{"Work", "Personal", "Shopping", "Health", "Education"}

// Timestamps are stored as RFC3339 UTC text truncated to whole seconds so
// that SQL string comparison agrees with temporal order.
const timeFormat = time.RFC3339

// DB wraps a sql.DB with task-store operations.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the SQLite database, applies the schema, and seeds
// the default category set.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	for _, name := range defaultCategories {
		if _, err := conn.Exec(`INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
			conn.Close()
			return nil, fmt.Errorf("store: seed category %q: %w", name, err)
		}
	}
	return &DB{conn: conn, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func encodeTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timeFormat)
}
