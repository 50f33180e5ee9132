// Package search holds the text-matching primitives for the bookmark
// collection: the exact substring predicate used by the filtered view, and
// fuzzy title ranking for interactive suggestion lists.
package search

import (
	"strings"

	"github.com/nbrandt/linkstash/internal/model"
)

// Matches reports whether the bookmark matches the query with a
// case-insensitive substring test against title, URL, description, or any
// tag. A blank query matches everything.
func Matches(b model.Bookmark, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(b.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(b.URL), query) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Description), query) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
