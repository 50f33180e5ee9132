package store_test

import (
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nbrandt/linkstash/internal/model"
	"github.com/nbrandt/linkstash/internal/storage"
	"github.com/nbrandt/linkstash/internal/store"
)

func stringPtr(s string) *string { return &s }

// sequentialIDs returns a deterministic id generator: id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
}

// newMemStore builds an in-memory engine with deterministic primitives.
func newMemStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.Params{
		Now:   fixedClock(),
		NewID: sequentialIDs(),
	})
}

// newFileStore builds an engine over a JSON file in a temp dir and returns
// the file path for reloading.
func newFileStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkstash.json")
	kv, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	s := store.New(store.Params{
		KV:    kv,
		Now:   fixedClock(),
		NewID: sequentialIDs(),
	})
	s.Init()
	return s, path
}

func TestAddBookmark(t *testing.T) {
	s := newMemStore(t)

	first := s.AddBookmark(model.NewBookmarkParams{Title: "First", URL: "https://one.test"})
	second := s.AddBookmark(model.NewBookmarkParams{Title: "Second", URL: "https://two.test"})

	bookmarks := s.Bookmarks()
	if len(bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(bookmarks))
	}

	// Most recent first
	if bookmarks[0].ID != second.ID || bookmarks[1].ID != first.ID {
		t.Errorf("expected newest bookmark at the front, got %v then %v", bookmarks[0].ID, bookmarks[1].ID)
	}
	if first.Date != "2025-06-01" {
		t.Errorf("Date mismatch: got %q, want %q", first.Date, "2025-06-01")
	}
	if first.ID == second.ID {
		t.Error("ids must be unique")
	}
}

func TestUpdateBookmark_ShallowMerge(t *testing.T) {
	s := newMemStore(t)
	b := s.AddBookmark(model.NewBookmarkParams{
		Title:       "Original",
		URL:         "https://example.test",
		Description: "before",
		Tags:        []string{"one"},
	})

	ok := s.UpdateBookmark(b.ID, store.BookmarkPatch{
		Title: stringPtr("Renamed"),
		Tags:  []string{"one", "two"},
	})
	if !ok {
		t.Fatal("update reported not found")
	}

	got := s.Bookmarks()[0]
	if got.Title != "Renamed" {
		t.Errorf("Title not updated: got %q", got.Title)
	}
	if got.URL != "https://example.test" {
		t.Errorf("URL must be preserved: got %q", got.URL)
	}
	if got.Description != "before" {
		t.Errorf("Description must be preserved: got %q", got.Description)
	}
	if got.Date != b.Date {
		t.Errorf("Date must be immutable: got %q, want %q", got.Date, b.Date)
	}
	assert.DeepEqual(t, got.Tags, []string{"one", "two"})
}

func TestUpdateBookmark_MoveToUncategorized(t *testing.T) {
	s := newMemStore(t)
	folderID := s.AddFolder("Projects")
	b := s.AddBookmark(model.NewBookmarkParams{Title: "X", URL: "https://x.test", FolderID: &folderID})

	s.UpdateBookmark(b.ID, store.BookmarkPatch{SetFolder: true, FolderID: nil})

	if got := s.Bookmarks()[0]; got.FolderID != nil {
		t.Errorf("expected uncategorized, got folder %q", *got.FolderID)
	}
}

func TestUpdateBookmark_NotFound(t *testing.T) {
	s := newMemStore(t)
	if s.UpdateBookmark("missing", store.BookmarkPatch{Title: stringPtr("x")}) {
		t.Error("expected not-found to report false")
	}
}

func TestSoftDeleteRestore_RoundTrip(t *testing.T) {
	s := newMemStore(t)
	folderID := s.AddFolder("Projects")
	b := s.AddBookmark(model.NewBookmarkParams{
		Title:    "Keep me",
		URL:      "https://keep.test",
		Tags:     []string{"a"},
		FolderID: &folderID,
	})
	before := s.Bookmarks()[0]

	if !s.SoftDeleteBookmark(b.ID) {
		t.Fatal("soft delete reported not found")
	}

	trashed := s.Bookmarks()[0]
	if !trashed.Deleted || trashed.DeletedAt == nil {
		t.Fatalf("expected deleted with timestamp, got Deleted=%v DeletedAt=%v", trashed.Deleted, trashed.DeletedAt)
	}

	// Not visible under its folder filter while trashed
	s.SetFolderFilter(folderID)
	if got := s.FilteredBookmarks(); len(got) != 0 {
		t.Fatalf("trashed bookmark still visible: %v", got)
	}

	if !s.RestoreBookmark(b.ID) {
		t.Fatal("restore reported not found")
	}

	after := s.Bookmarks()[0]
	assert.DeepEqual(t, after, before)

	// Reappears under its prior folder filter
	got := s.FilteredBookmarks()
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("restored bookmark missing from view: %v", got)
	}
}

func TestDeletedAtInvariant(t *testing.T) {
	s := newMemStore(t)
	b := s.AddBookmark(model.NewBookmarkParams{Title: "X", URL: "https://x.test"})
	s.SoftDeleteBookmark(b.ID)
	s.RestoreBookmark(b.ID)
	s.SoftDeleteBookmark(b.ID)

	for _, got := range s.Bookmarks() {
		if got.Deleted != (got.DeletedAt != nil) {
			t.Errorf("invariant violated: Deleted=%v, DeletedAt=%v", got.Deleted, got.DeletedAt)
		}
	}
}

func TestHardDeleteBookmark(t *testing.T) {
	s := newMemStore(t)
	b := s.AddBookmark(model.NewBookmarkParams{Title: "X", URL: "https://x.test"})

	if !s.HardDeleteBookmark(b.ID) {
		t.Fatal("expected removal")
	}
	if len(s.Bookmarks()) != 0 {
		t.Fatal("bookmark still present")
	}
	// Removing an absent id is a no-op
	if s.HardDeleteBookmark(b.ID) {
		t.Error("second removal should report false")
	}
}

func TestEmptyTrash(t *testing.T) {
	s := newMemStore(t)
	keep1 := s.AddBookmark(model.NewBookmarkParams{Title: "keep1", URL: "https://k1.test"})
	gone1 := s.AddBookmark(model.NewBookmarkParams{Title: "gone1", URL: "https://g1.test"})
	keep2 := s.AddBookmark(model.NewBookmarkParams{Title: "keep2", URL: "https://k2.test"})
	gone2 := s.AddBookmark(model.NewBookmarkParams{Title: "gone2", URL: "https://g2.test"})

	s.SoftDeleteBookmark(gone1.ID)
	s.SoftDeleteBookmark(gone2.ID)

	if removed := s.EmptyTrash(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	var ids []string
	for _, b := range s.Bookmarks() {
		ids = append(ids, b.ID)
	}
	// Survivors keep their original relative order (newest first)
	if !slices.Equal(ids, []string{keep2.ID, keep1.ID}) {
		t.Errorf("unexpected survivors: got %v", ids)
	}

	if removed := s.EmptyTrash(); removed != 0 {
		t.Errorf("empty trash twice should remove nothing, got %d", removed)
	}
}

func TestRemoveFolder_CascadesToUncategorized(t *testing.T) {
	s := newMemStore(t)
	folderID := s.AddFolder("Projects")
	otherID := s.AddFolder("Other")

	inFolder := s.AddBookmark(model.NewBookmarkParams{Title: "A", URL: "https://a.test", FolderID: &folderID})
	elsewhere := s.AddBookmark(model.NewBookmarkParams{Title: "B", URL: "https://b.test", FolderID: &otherID})

	s.SetCurrentFolder(folderID)

	if !s.RemoveFolder(folderID) {
		t.Fatal("remove reported not found")
	}

	for _, b := range s.Bookmarks() {
		switch b.ID {
		case inFolder.ID:
			if b.FolderID != nil {
				t.Errorf("member bookmark should be uncategorized, got %q", *b.FolderID)
			}
		case elsewhere.ID:
			if b.FolderID == nil || *b.FolderID != otherID {
				t.Error("unrelated bookmark's folder changed")
			}
		}
	}

	if len(s.Bookmarks()) != 2 {
		t.Error("folder removal must never delete bookmarks")
	}
	if s.CurrentFolder() != "" {
		t.Errorf("current folder reference not cleared: %q", s.CurrentFolder())
	}
	for _, f := range s.Folders() {
		if f.ID == folderID {
			t.Error("folder still present")
		}
	}
}

func TestUpdateFolder(t *testing.T) {
	s := newMemStore(t)
	id := s.AddFolder("Old name")

	if !s.UpdateFolder(id, "New name") {
		t.Fatal("rename reported not found")
	}
	if s.UpdateFolder("missing", "x") {
		t.Error("expected not-found to report false")
	}

	for _, f := range s.Folders() {
		if f.ID == id && f.Name != "New name" {
			t.Errorf("rename not applied: got %q", f.Name)
		}
	}
}

func TestReorderFolders_NeverLosesFolders(t *testing.T) {
	s := newMemStore(t)
	before := s.Folders()

	// Partially overlapping, with an unknown id
	s.ReorderFolders([]string{"3", "nope", "1"})

	after := s.Folders()
	if len(after) != len(before) {
		t.Fatalf("folder count changed: got %d, want %d", len(after), len(before))
	}
	if after[0].ID != "3" || after[1].ID != "1" {
		t.Errorf("requested prefix not honored: got %v, %v", after[0].ID, after[1].ID)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	s, path := newFileStore(t)

	folderID := s.AddFolder("Projects")
	b := s.AddBookmark(model.NewBookmarkParams{Title: "Persist me", URL: "https://p.test", FolderID: &folderID})
	s.Wait()

	// A fresh engine over the same file sees the same state.
	kv, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	reloaded := store.New(store.Params{KV: kv})
	reloaded.Init()

	if !reloaded.Loaded() {
		t.Fatal("expected successful load")
	}

	bookmarks := reloaded.Bookmarks()
	if len(bookmarks) != 1 || bookmarks[0].ID != b.ID {
		t.Fatalf("bookmarks not persisted: %v", bookmarks)
	}
	var folderIDs []string
	for _, f := range reloaded.Folders() {
		folderIDs = append(folderIDs, f.ID)
	}
	if !slices.Contains(folderIDs, folderID) {
		t.Errorf("folder not persisted: %v", folderIDs)
	}
}

func TestInit_FirstRunSeedsFolders(t *testing.T) {
	s, path := newFileStore(t)

	if !s.Loaded() {
		t.Fatal("expected successful load")
	}
	if len(s.Folders()) != 4 {
		t.Fatalf("expected 4 seed folders, got %d", len(s.Folders()))
	}
	s.Wait()

	// The file was established on first run.
	kv, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	if _, ok := kv.Get("folders"); !ok {
		t.Error("folders not persisted on first run")
	}
	if _, ok := kv.Get("bookmarks"); !ok {
		t.Error("bookmarks not persisted on first run")
	}
}

func TestInit_Idempotent(t *testing.T) {
	s, _ := newFileStore(t)
	s.AddBookmark(model.NewBookmarkParams{Title: "X", URL: "https://x.test"})

	// A second Init must not reload and clobber in-memory state.
	s.Init()
	if len(s.Bookmarks()) != 1 {
		t.Errorf("re-init clobbered state: %d bookmarks", len(s.Bookmarks()))
	}
}

func TestInMemoryStore_MutationsWork(t *testing.T) {
	s := newMemStore(t)
	s.Init() // no KV: stays unloaded, still fully operational

	if s.Loaded() {
		t.Error("in-memory store must not report loaded")
	}

	b := s.AddBookmark(model.NewBookmarkParams{Title: "X", URL: "https://x.test"})
	if len(s.Bookmarks()) != 1 {
		t.Fatal("mutation failed on in-memory store")
	}
	s.SoftDeleteBookmark(b.ID)
	s.Wait()
}

func TestSaveNow(t *testing.T) {
	s, path := newFileStore(t)
	s.AddBookmark(model.NewBookmarkParams{Title: "X", URL: "https://x.test"})
	s.Wait()

	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow failed: %v", err)
	}

	kv, err := storage.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	if _, ok := kv.Get("bookmarks"); !ok {
		t.Error("bookmarks missing after SaveNow")
	}
}
