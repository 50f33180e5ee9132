package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nbrandt/linkstash/internal/storage"
)

func TestJSONFile_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	kv, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	if _, ok := kv.Get("bookmarks"); ok {
		t.Error("expected no keys in a fresh store")
	}
}

func TestJSONFile_SetSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.json")

	kv, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	if err := kv.Set("greeting", "hello"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := kv.Set("count", 3); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := kv.Save(); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	reloaded, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}

	raw, ok := reloaded.Get("greeting")
	if !ok {
		t.Fatal("greeting missing after reload")
	}
	var greeting string
	if err := json.Unmarshal(raw, &greeting); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if greeting != "hello" {
		t.Errorf("greeting = %q, want %q", greeting, "hello")
	}

	if _, ok := reloaded.Get("absent"); ok {
		t.Error("absent key reported present")
	}
}

func TestJSONFile_SetSnapshotsValue(t *testing.T) {
	kv, err := storage.OpenJSONFile(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}

	tags := []string{"a"}
	if err := kv.Set("tags", tags); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	tags[0] = "mutated"

	raw, _ := kv.Get("tags")
	var got []string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got[0] != "a" {
		t.Errorf("stored value mutated after Set: got %q", got[0])
	}
}

func TestJSONFile_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	if _, err := storage.OpenJSONFile(path); err == nil {
		t.Error("expected an error for a malformed file")
	}
}
