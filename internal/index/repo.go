package index

import "fmt"

// FileRow represents a row in the files table.
type FileRow struct {
	Path     string
	Basename string
	Checksum string
}

// UpsertFile inserts or replaces one corpus file entry.
func (db *DB) UpsertFile(path, basename, checksum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO files (path, basename, checksum, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			basename   = excluded.basename,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, path, basename, checksum)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}
	return nil
}

// DeleteFile removes one entry.
func (db *DB) DeleteFile(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete file: %w", err)
	}
	return nil
}

// Files returns every indexed file ordered by path, matching the
// deterministic walk order of a vault enumeration.
func (db *DB) Files() ([]FileRow, error) {
	rows, err := db.conn.Query(`SELECT path, basename, checksum FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var r FileRow
		if err := rows.Scan(&r.Path, &r.Basename, &r.Checksum); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AllChecksums returns path→checksum for every indexed file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed files.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
