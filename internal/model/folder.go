package model

// Folder represents a named container for bookmarks. The namespace is flat;
// folders do not nest.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reserved filter identifiers recognized by the view projection. They are
// never stored as real Folder records.
const (
	FolderUncategorized = "uncategorized"
	FolderTrash         = "trash"
)

// NewFolder creates a Folder with the given id.
func NewFolder(id, name string) Folder {
	return Folder{ID: id, Name: name}
}
