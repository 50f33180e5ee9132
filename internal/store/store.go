// Package store implements the persistent bookmark collection engine: the
// in-memory working set of bookmarks and folders, the mutation operations
// with soft-delete trash semantics, the filtered view projection, and the
// per-field persistence of UI preferences.
package store

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/nbrandt/linkstash/internal/logger"
	"github.com/nbrandt/linkstash/internal/model"
	"github.com/nbrandt/linkstash/internal/storage"
)

// Storage keys. The bookmark and folder collections are always flushed
// together; each ui.* key is persisted independently when its field changes.
const (
	keyBookmarks = "bookmarks"
	keyFolders   = "folders"

	keySelectedFolderIDs = "ui.selectedFolderIds"
	keySearchQuery       = "ui.searchQuery"
	keyViewMode          = "ui.viewMode"
	keySidebarWidth      = "ui.sidebarWidth"
	keyTheme             = "ui.theme"
	keyToolbarAutoHide   = "ui.browserToolbarAutoHideMs"
	keyToolbarHotzone    = "ui.browserToolbarHotzoneRevealDelayMs"
)

// Store owns the bookmark and folder collections and their persisted UI
// preferences. Mutations update memory synchronously and flush to the KV
// store on a background goroutine; persistence failures are logged and never
// surfaced to the mutating caller. A Store with a nil KV runs in memory
// only, which is also the fallback when Init fails.
type Store struct {
	mu sync.Mutex

	kv     storage.KV
	log    logger.Logger
	loaded bool

	bookmarks       []model.Bookmark
	folders         []model.Folder
	currentFolderID string

	selectedFolderIDs           []string
	searchQuery                 string
	viewMode                    ViewMode
	sidebarWidth                int
	theme                       string
	toolbarAutoHideMs           int
	toolbarHotzoneRevealDelayMs int

	// persistMu serializes writes to the KV adapter; flushes tracks
	// in-flight background writes so Wait can drain them.
	persistMu sync.Mutex
	flushes   sync.WaitGroup

	now   func() time.Time
	newID func() string
}

// Params holds the collaborators for a new Store. KV may be nil for a pure
// in-memory store. Now and NewID default to time.Now and UUID generation.
type Params struct {
	KV    storage.KV
	Log   logger.Logger
	Now   func() time.Time
	NewID func() string
}

// New creates a Store with default preferences and the default seed folders.
// Call Init to load persisted state.
func New(params Params) *Store {
	s := &Store{
		kv:        params.KV,
		log:       params.Log,
		bookmarks: []model.Bookmark{},
		folders:   defaultFolders(),

		selectedFolderIDs:           []string{},
		viewMode:                    ViewModeGrid,
		sidebarWidth:                256,
		theme:                       "system",
		toolbarAutoHideMs:           800,
		toolbarHotzoneRevealDelayMs: 220,

		now:   params.Now,
		newID: params.NewID,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = model.GenerateUUID
	}
	return s
}

// defaultFolders returns the folders seeded on first run.
func defaultFolders() []model.Folder {
	return []model.Folder{
		{ID: "1", Name: "Work"},
		{ID: "2", Name: "Learning"},
		{ID: "3", Name: "Leisure"},
		{ID: "4", Name: "Read Later"},
	}
}

// Init loads persisted collections and preferences. It is idempotent; only
// the first call does work. A load failure is logged and leaves the store
// running in memory for the session.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded || s.kv == nil {
		return
	}

	if err := s.loadLocked(); err != nil {
		s.log.Warn("store load failed, continuing in memory", logger.Error(err))
		return
	}
	s.loaded = true
}

// Loaded reports whether persisted state was loaded successfully.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// loadLocked reads collections and preferences from the KV store. Values
// with an unexpected shape count as absent; only I/O failures abort the
// load.
func (s *Store) loadLocked() error {
	var bookmarks []model.Bookmark
	if getJSON(s.kv, keyBookmarks, &bookmarks) && bookmarks != nil {
		s.bookmarks = bookmarks
	} else {
		// First run: establish the file
		s.bookmarks = []model.Bookmark{}
		if err := s.writeCollections(s.bookmarks, s.folders); err != nil {
			return err
		}
	}

	var folders []model.Folder
	if getJSON(s.kv, keyFolders, &folders) && folders != nil {
		s.folders = folders
	} else {
		if err := s.kv.Set(keyFolders, s.folders); err != nil {
			return err
		}
		if err := s.kv.Save(); err != nil {
			return err
		}
	}

	s.loadPrefsLocked()
	return nil
}

// getJSON decodes the value under key into out. Absent keys and undecodable
// values both report false.
func getJSON(kv storage.KV, key string, out any) bool {
	raw, ok := kv.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// Bookmarks returns a copy of the full bookmark collection in authoritative
// order, trash included.
func (s *Store) Bookmarks() []model.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bookmarks)
}

// Folders returns a copy of the folder collection in display order.
func (s *Store) Folders() []model.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.folders)
}

// AddBookmark creates a bookmark with a fresh id and today's date and
// inserts it at the front of the collection.
func (s *Store) AddBookmark(params model.NewBookmarkParams) model.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := model.NewBookmark(params, s.newID(), s.now())
	s.bookmarks = append([]model.Bookmark{b}, s.bookmarks...)
	s.flushLocked()
	return b
}

// BookmarkPatch carries fields to merge into an existing bookmark. Nil
// pointers leave the field untouched. SetFolder distinguishes moving the
// bookmark (FolderID, nil meaning uncategorized) from leaving the folder
// unchanged.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Icon        *string
	Tags        []string
	SetFolder   bool
	FolderID    *string
}

// UpdateBookmark shallow-merges patch into the bookmark with the given id.
// Returns false when no bookmark has that id.
func (s *Store) UpdateBookmark(id string, patch BookmarkPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfBookmarkLocked(id)
	if i < 0 {
		return false
	}

	b := &s.bookmarks[i]
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.URL != nil {
		b.URL = *patch.URL
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.Icon != nil {
		b.Icon = *patch.Icon
	}
	if patch.Tags != nil {
		b.Tags = slices.Clone(patch.Tags)
	}
	if patch.SetFolder {
		b.FolderID = patch.FolderID
	}

	s.flushLocked()
	return true
}

// SoftDeleteBookmark moves the bookmark to the trash. Reversible via
// RestoreBookmark. Returns false when no bookmark has that id.
func (s *Store) SoftDeleteBookmark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfBookmarkLocked(id)
	if i < 0 {
		return false
	}

	now := s.now()
	s.bookmarks[i].Deleted = true
	s.bookmarks[i].DeletedAt = &now
	s.flushLocked()
	return true
}

// RestoreBookmark takes the bookmark back out of the trash. Returns false
// when no bookmark has that id.
func (s *Store) RestoreBookmark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfBookmarkLocked(id)
	if i < 0 {
		return false
	}

	s.bookmarks[i].Deleted = false
	s.bookmarks[i].DeletedAt = nil
	s.flushLocked()
	return true
}

// HardDeleteBookmark removes the bookmark outright, trash or not. Removing
// an absent id is a no-op. Returns whether a bookmark was removed.
func (s *Store) HardDeleteBookmark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfBookmarkLocked(id)
	if i < 0 {
		return false
	}

	s.bookmarks = slices.Delete(s.bookmarks, i, i+1)
	s.flushLocked()
	return true
}

// EmptyTrash permanently removes every soft-deleted bookmark. Returns the
// number removed.
func (s *Store) EmptyTrash() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		if !b.Deleted {
			kept = append(kept, b)
		}
	}

	removed := len(s.bookmarks) - len(kept)
	if removed == 0 {
		return 0
	}

	s.bookmarks = kept
	s.flushLocked()
	return removed
}

// AddFolder appends a new folder and returns its id.
func (s *Store) AddFolder(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := model.NewFolder(s.newID(), name)
	s.folders = append(s.folders, f)
	s.flushLocked()
	return f.ID
}

// RemoveFolder deletes the folder and moves its bookmarks to uncategorized.
// Bookmarks are never deleted by folder removal. Returns false when no
// folder has that id.
func (s *Store) RemoveFolder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.folders, func(f model.Folder) bool { return f.ID == id })
	if i < 0 {
		return false
	}

	for j := range s.bookmarks {
		if s.bookmarks[j].FolderID != nil && *s.bookmarks[j].FolderID == id {
			s.bookmarks[j].FolderID = nil
		}
	}

	s.folders = slices.Delete(s.folders, i, i+1)

	if s.currentFolderID == id {
		s.currentFolderID = ""
	}

	s.flushLocked()
	return true
}

// UpdateFolder renames the folder. Returns false when no folder has that id.
func (s *Store) UpdateFolder(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.folders, func(f model.Folder) bool { return f.ID == id })
	if i < 0 {
		return false
	}

	s.folders[i].Name = name
	s.flushLocked()
	return true
}

// ReorderFolders rearranges the folder collection into the given id order.
// Ids that match no folder are dropped; folders missing from the order keep
// their relative position at the end. No folder is ever lost.
func (s *Store) ReorderFolders(orderIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.folders = reorderFolders(s.folders, orderIDs)
	s.flushLocked()
}

// ReorderBookmarks reconciles a new ordering of the currently visible subset
// into the full collection: only the listed bookmarks change position, each
// taking a slot previously held by one of them, while everything else stays
// at its original index. A no-op (and no flush) when the given order already
// matches, when it names at most one known bookmark, or when it is empty.
// Returns whether the collection changed.
func (s *Store) ReorderBookmarks(visibleOrderedIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	reordered, changed := reorderSubset(s.bookmarks, visibleOrderedIDs)
	if !changed {
		return false
	}

	s.bookmarks = reordered
	s.flushLocked()
	return true
}

// SetCurrentFolder tracks the folder the presentation layer considers
// primary. Not persisted.
func (s *Store) SetCurrentFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentFolderID = id
}

// CurrentFolder returns the primary folder id, or "" when unset.
func (s *Store) CurrentFolder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentFolderID
}

func (s *Store) indexOfBookmarkLocked(id string) int {
	return slices.IndexFunc(s.bookmarks, func(b model.Bookmark) bool { return b.ID == id })
}

// flushLocked snapshots both collections and persists them on a background
// goroutine. Write failures are logged; the in-memory mutation has already
// succeeded and stands regardless.
func (s *Store) flushLocked() {
	if s.kv == nil {
		return
	}

	bookmarks := slices.Clone(s.bookmarks)
	folders := slices.Clone(s.folders)

	s.flushes.Add(1)
	go func() {
		defer s.flushes.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.writeCollections(bookmarks, folders); err != nil {
			s.log.Warn("bookmark flush failed", logger.Error(err))
		}
	}()
}

// writeCollections stages both collections and saves. Callers on the flush
// path must hold persistMu.
func (s *Store) writeCollections(bookmarks []model.Bookmark, folders []model.Folder) error {
	if err := s.kv.Set(keyBookmarks, bookmarks); err != nil {
		return err
	}
	if err := s.kv.Set(keyFolders, folders); err != nil {
		return err
	}
	return s.kv.Save()
}

// SaveNow flushes both collections synchronously and reports the outcome.
// The background mutation flushes never surface errors; this is the explicit
// save for callers that want one.
func (s *Store) SaveNow() error {
	s.mu.Lock()
	if s.kv == nil {
		s.mu.Unlock()
		return nil
	}
	bookmarks := slices.Clone(s.bookmarks)
	folders := slices.Clone(s.folders)
	s.mu.Unlock()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.writeCollections(bookmarks, folders)
}

// Wait blocks until all in-flight background flushes have finished.
func (s *Store) Wait() {
	s.flushes.Wait()
}
