package classloader

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// ByteCache persists raw class-file bytes keyed by internal class name
// and the owning archive's modification time, so repeated driver runs
// over a large, unchanged archive skip re-reading the zip/directory
// entirely. Backed by modernc.org/sqlite, a pure-Go driver requiring no
// cgo toolchain.
type ByteCache struct {
	db *sql.DB
}

// OpenByteCache opens (creating if necessary) a sqlite database at path.
func OpenByteCache(path string) (*ByteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening class cache %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS class_bytes (
	class_name TEXT NOT NULL,
	archive_mtime INTEGER NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (class_name, archive_mtime)
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing class cache schema: %w", err)
	}
	return &ByteCache{db: db}, nil
}

// Get returns cached bytes for className at archiveModTime, if present.
func (c *ByteCache) Get(className string, archiveModTime int64) ([]byte, bool) {
	row := c.db.QueryRow(
		`SELECT data FROM class_bytes WHERE class_name = ? AND archive_mtime = ?`,
		className, archiveModTime,
	)
	var data []byte
	if err := row.Scan(&data); err != nil {
		return nil, false
	}
	return data, true
}

// Put stores bytes for className at archiveModTime, replacing any prior
// entry for the same key (an archive rebuilt at the same second, say).
func (c *ByteCache) Put(className string, archiveModTime int64, data []byte) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO class_bytes (class_name, archive_mtime, data) VALUES (?, ?, ?)`,
		className, archiveModTime, data,
	)
	return err
}

func (c *ByteCache) Close() error {
	return c.db.Close()
}
