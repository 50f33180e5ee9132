package model

import "time"

// BrowserTab is a live browsing tab. Tabs are session state only and are
// never persisted.
type BrowserTab struct {
	ID           string
	URL          string
	Title        string
	CreatedAt    time.Time
	LastActiveAt time.Time
}
