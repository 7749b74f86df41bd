// Package history provides a SQLite-backed journal of install and uninstall
// outcomes.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS install_events (
	id          TEXT PRIMARY KEY,
	action      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	config_path TEXT NOT NULL DEFAULT '',
	command     TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	error_kind  TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_install_events_created ON install_events(created_at);
CREATE INDEX IF NOT EXISTS idx_install_events_kind ON install_events(kind);
`

// Recorder is the write side consumed by the setup service.
// Consumers depend on this interface so tests can pass a stub.
type Recorder interface {
	Record(e Event) (Event, error)
	Recent(limit int, kind string) ([]Event, error)
}

// Verify *Journal satisfies Recorder at compile time.
var _ Recorder = (*Journal)(nil)

// Journal wraps a sql.DB holding install_events.
type Journal struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &Journal{conn: conn}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}
