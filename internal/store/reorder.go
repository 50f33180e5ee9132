package store

import (
	"slices"

	"github.com/nbrandt/linkstash/internal/model"
)

// reorderFolders projects folders into the order given by ids. Unknown and
// duplicate ids are dropped; folders missing from ids are appended in their
// original relative order. The result holds every input folder exactly once.
func reorderFolders(folders []model.Folder, ids []string) []model.Folder {
	byID := make(map[string]model.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	ordered := make([]model.Folder, 0, len(folders))
	placed := make(map[string]bool, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		ordered = append(ordered, f)
		placed[id] = true
	}

	for _, f := range folders {
		if !placed[f.ID] {
			ordered = append(ordered, f)
		}
	}

	return ordered
}

// reorderSubset re-permutes the bookmarks named by order while leaving every
// other entry at its original index: the slots occupied by the named subset
// are refilled, in place, with the subset in its new order. Ids that match
// no bookmark are dropped. Returns the (possibly new) slice and whether
// anything moved; an order that already matches the current relative order
// of the subset is reported as unchanged.
func reorderSubset(bookmarks []model.Bookmark, order []string) ([]model.Bookmark, bool) {
	if len(order) <= 1 {
		return bookmarks, false
	}

	index := make(map[string]int, len(bookmarks))
	for i, b := range bookmarks {
		index[b.ID] = i
	}

	// Target ids, filtered to known bookmarks, duplicates dropped.
	want := make([]string, 0, len(order))
	targeted := make(map[string]bool, len(order))
	for _, id := range order {
		if _, ok := index[id]; !ok || targeted[id] {
			continue
		}
		want = append(want, id)
		targeted[id] = true
	}
	if len(want) <= 1 {
		return bookmarks, false
	}

	// Current relative order of exactly those ids.
	current := make([]string, 0, len(want))
	for _, b := range bookmarks {
		if targeted[b.ID] {
			current = append(current, b.ID)
		}
	}
	if slices.Equal(current, want) {
		return bookmarks, false
	}

	result := slices.Clone(bookmarks)
	next := 0
	for i, b := range bookmarks {
		if targeted[b.ID] {
			result[i] = bookmarks[index[want[next]]]
			next++
		}
	}

	return result, true
}
