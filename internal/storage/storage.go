package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// KV is the durable key-value store backing the bookmark engine. Get reports
// whether the key is present; Set stages a value in memory; Save flushes all
// staged state to the durable medium. A value read back with the wrong shape
// is the caller's concern: the engine treats undecodable values as absent.
type KV interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value any) error
	Save() error
}

// JSONFile implements KV over a single JSON document on disk.
type JSONFile struct {
	path string
	data map[string]json.RawMessage
}

// OpenJSONFile loads the document at path. A missing file yields an empty
// store; the file is created on the first Save.
func OpenJSONFile(path string) (*JSONFile, error) {
	s := &JSONFile{
		path: path,
		data: map[string]json.RawMessage{},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	if s.data == nil {
		s.data = map[string]json.RawMessage{}
	}

	return s, nil
}

// Path returns the storage file path.
func (s *JSONFile) Path() string {
	return s.path
}

// Get returns the stored value for key, or false if absent.
func (s *JSONFile) Get(key string) (json.RawMessage, bool) {
	raw, ok := s.data[key]
	return raw, ok
}

// Set stages a value under key. The value is serialized immediately so a
// later mutation of the caller's data cannot leak into the store.
func (s *JSONFile) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

// Save writes all staged state to the file.
// Creates the directory if it doesn't exist.
func (s *JSONFile) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, raw, 0644)
}

// DefaultJSONPath returns the default store path: ~/.config/linkstash/linkstash.json
func DefaultJSONPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkstash", "linkstash.json"), nil
}

// Open opens the appropriate storage backend.
// Prefers SQLite if the database file exists, otherwise falls back to the
// JSON file.
func Open() (KV, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		return OpenSQLite(sqlitePath)
	}

	jsonPath, err := DefaultJSONPath()
	if err != nil {
		return nil, err
	}
	return OpenJSONFile(jsonPath)
}
