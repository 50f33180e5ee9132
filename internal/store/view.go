package store

import (
	"slices"
	"strings"

	"github.com/nbrandt/linkstash/internal/model"
	"github.com/nbrandt/linkstash/internal/search"
)

// FilteredBookmarks derives the visible bookmark list from the current
// folder selection and search query. Recomputed on every call; the output
// preserves collection order and is never independently sorted.
func (s *Store) FilteredBookmarks() []model.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterBookmarks(s.bookmarks, s.selectedFolderIDs, s.searchQuery)
}

// filterBookmarks applies the view pipeline: trash visibility, folder
// selection (a union; "uncategorized" matches bookmarks without a folder,
// "trash" switches to deleted-only), then the search predicate on top.
func filterBookmarks(bookmarks []model.Bookmark, selected []string, query string) []model.Bookmark {
	inTrashView := slices.Contains(selected, model.FolderTrash)
	searching := strings.TrimSpace(query) != ""

	result := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		// Deleted bookmarks are only ever visible in the trash view.
		if !inTrashView && b.Deleted {
			continue
		}
		if len(selected) > 0 {
			if inTrashView {
				// Other selected ids are ignored while trash is active.
				if !b.Deleted {
					continue
				}
			} else if !folderSelected(b, selected) {
				continue
			}
		}
		if searching && !search.Matches(b, query) {
			continue
		}
		result = append(result, b)
	}
	return result
}

func folderSelected(b model.Bookmark, selected []string) bool {
	if b.FolderID == nil {
		return slices.Contains(selected, model.FolderUncategorized)
	}
	return slices.Contains(selected, *b.FolderID)
}
