package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 1

// SQLite implements KV over a single-table SQLite database. All keys are
// loaded into memory at open time; Save rewrites the table in one
// transaction.
type SQLite struct {
	db   *sql.DB
	path string
	data map[string]json.RawMessage
}

// OpenSQLite opens (creating if needed) the database at path and loads all
// stored keys.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLite{
		db:   db,
		path: path,
		data: map[string]json.RawMessage{},
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLite) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// loadAll reads every key into memory.
func (s *SQLite) loadAll() error {
	rows, err := s.db.Query("SELECT key, value FROM kv")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		s.data[key] = json.RawMessage(value)
	}

	return rows.Err()
}

// Get returns the stored value for key, or false if absent.
func (s *SQLite) Get(key string) (json.RawMessage, bool) {
	raw, ok := s.data[key]
	return raw, ok
}

// Set stages a value under key.
func (s *SQLite) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

// Save writes all staged state to the database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLite) Save() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM kv"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO kv (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, raw := range s.data {
		if _, err := stmt.Exec(key, string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DefaultSQLitePath returns the default database path: ~/.config/linkstash/linkstash.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkstash", "linkstash.db"), nil
}
