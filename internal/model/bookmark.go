package model

import "time"

// DateLayout is the calendar-date format of Bookmark.Date.
const DateLayout = "2006-01-02"

// Bookmark represents a saved URL with metadata. A soft-deleted bookmark
// stays in the collection with Deleted set until the trash is emptied.
// Invariant: DeletedAt is non-nil iff Deleted is true.
type Bookmark struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	FolderID    *string    `json:"folderId,omitempty"` // nil = uncategorized
	Date        string     `json:"date"`               // creation date, YYYY-MM-DD, immutable
	Icon        string     `json:"icon,omitempty"`
	Deleted     bool       `json:"deleted,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// NewBookmarkParams holds the caller-supplied fields for a new Bookmark.
// ID and Date are assigned by the store.
type NewBookmarkParams struct {
	Title       string
	URL         string
	Description string
	Tags        []string
	FolderID    *string
	Icon        string
}

// NewBookmark builds a Bookmark from params with the given id and creation time.
func NewBookmark(params NewBookmarkParams, id string, createdAt time.Time) Bookmark {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	return Bookmark{
		ID:          id,
		Title:       params.Title,
		URL:         params.URL,
		Description: params.Description,
		Tags:        tags,
		FolderID:    params.FolderID,
		Date:        createdAt.Format(DateLayout),
		Icon:        params.Icon,
	}
}
