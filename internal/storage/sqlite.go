package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore backs the keyed store with a single kv table in an embedded
// sqlite database. Unlike FileStore there is no per-bucket document that can
// be "missing", so ErrStoreMissing is never returned.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dataSourceName.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS kv (
		bucket TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (bucket, key)
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(bucket, key string, out any) error {
	var value string
	row := s.db.QueryRow("SELECT value FROM kv WHERE bucket = ? AND key = ?", bucket, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return ErrKeyNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(value), out)
}

// Put implements Store.
func (s *SQLiteStore) Put(bucket, key string, in any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, key, err)
	}
	_, err = s.db.Exec(
		"INSERT INTO kv (bucket, key, value) VALUES (?, ?, ?) ON CONFLICT(bucket, key) DO UPDATE SET value = excluded.value",
		bucket, key, string(raw),
	)
	return err
}

// Delete implements Store.
func (s *SQLiteStore) Delete(bucket, key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE bucket = ? AND key = ?", bucket, key)
	return err
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }
