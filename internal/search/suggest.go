package search

import (
	"github.com/nbrandt/linkstash/internal/model"
	"github.com/sahilm/fuzzy"
)

// Suggestion is a fuzzy match against a bookmark title.
type Suggestion struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source for a bookmark slice.
type bookmarkTitles []model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// Suggest ranks bookmarks against the query by fuzzy title match, best
// first. Soft-deleted bookmarks are skipped; they are only reachable through
// the trash view.
func Suggest(bookmarks []model.Bookmark, query string) []Suggestion {
	if query == "" {
		return nil
	}

	candidates := make(bookmarkTitles, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.Deleted {
			continue
		}
		candidates = append(candidates, b)
	}

	matches := fuzzy.FindFrom(query, candidates)

	results := make([]Suggestion, len(matches))
	for i, m := range matches {
		results[i] = Suggestion{
			Bookmark:       candidates[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
