// Package storage persists enrichment results in a local sqlite database
// so wines already looked up survive process restarts.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"winescan/internal/enrich"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS enrichment_cache (
  key TEXT PRIMARY KEY,
  found INTEGER NOT NULL,
  fieldsJson TEXT NOT NULL,
  fetchedAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// Get implements enrich.Store.
func (d *DB) Get(key string) (enrich.Entry, bool, error) {
	var e enrich.Entry
	var found int
	var fieldsJSON, fetchedAt string
	err := d.conn.QueryRow(`
SELECT key, found, fieldsJson, fetchedAt FROM enrichment_cache WHERE key = ?
`, key).Scan(&e.Key, &found, &fieldsJSON, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return enrich.Entry{}, false, nil
	}
	if err != nil {
		return enrich.Entry{}, false, err
	}
	e.Found = found != 0
	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return enrich.Entry{}, false, fmt.Errorf("decode cached fields for %q: %w", key, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		e.FetchedAt = t
	}
	return e, true, nil
}

// Put implements enrich.Store. Last writer wins per key.
func (d *DB) Put(key string, e enrich.Entry) error {
	fieldsJSON, err := json.Marshal(e.Fields)
	if err != nil {
		return err
	}
	found := 0
	if e.Found {
		found = 1
	}
	_, err = d.conn.Exec(`
INSERT INTO enrichment_cache (key, found, fieldsJson, fetchedAt) VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  found=excluded.found,
  fieldsJson=excluded.fieldsJson,
  fetchedAt=excluded.fetchedAt,
  updatedAt=CURRENT_TIMESTAMP
`, key, found, fieldsJSON, e.FetchedAt.UTC().Format(time.RFC3339Nano))
	return err
}
