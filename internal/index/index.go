// Package index provides a SQLite-backed persistent corpus index keyed
// by basename. It is an optimization for the long-running serve mode:
// one-shot operations still snapshot the corpus by walking the vault.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path       TEXT PRIMARY KEY,
	basename   TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_files_basename ON files(basename);
`

// CorpusIndex defines the interface for corpus index operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type CorpusIndex interface {
	UpsertFile(path, basename, checksum string) error
	DeleteFile(path string) error
	Files() ([]FileRow, error)
	AllChecksums() (map[string]string, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies CorpusIndex at compile time.
var _ CorpusIndex = (*DB)(nil)

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
