package store

import (
	"math"
	"slices"
	"strings"

	"github.com/nbrandt/linkstash/internal/logger"
)

// ViewMode selects how the bookmark list is rendered.
type ViewMode string

const (
	ViewModeGrid ViewMode = "grid"
	ViewModeList ViewMode = "list"
)

// Preference clamp bounds.
const (
	sidebarWidthMin = 200
	sidebarWidthMax = 400

	toolbarAutoHideMaxMs = 5000 // 0 disables auto-hide
	toolbarHotzoneMaxMs  = 1000
)

// SetFolderFilter replaces the folder selection with the single given id, or
// clears it entirely when id is "".
func (s *Store) SetFolderFilter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.selectedFolderIDs = []string{}
	} else {
		s.selectedFolderIDs = []string{id}
	}
	s.persistPrefLocked(keySelectedFolderIDs, slices.Clone(s.selectedFolderIDs))
}

// ToggleFolderFilter flips the given id in or out of the folder selection.
// Pseudo-ids ("uncategorized", "trash") toggle like any other.
func (s *Store) ToggleFolderFilter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.selectedFolderIDs, id); i >= 0 {
		s.selectedFolderIDs = slices.Delete(s.selectedFolderIDs, i, i+1)
	} else {
		s.selectedFolderIDs = append(s.selectedFolderIDs, id)
	}
	s.persistPrefLocked(keySelectedFolderIDs, slices.Clone(s.selectedFolderIDs))
}

// SelectedFolderIDs returns the current folder selection.
func (s *Store) SelectedFolderIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selectedFolderIDs)
}

// SetSearchQuery updates the live search text.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searchQuery = query
	s.persistPrefLocked(keySearchQuery, query)
}

// SearchQuery returns the live search text.
func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// SetViewMode switches between grid and list. Anything else is rejected and
// the previous mode kept; returns whether the mode was accepted.
func (s *Store) SetViewMode(mode ViewMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != ViewModeGrid && mode != ViewModeList {
		return false
	}
	s.viewMode = mode
	s.persistPrefLocked(keyViewMode, string(mode))
	return true
}

// ViewMode returns the current view mode.
func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// SetSidebarWidth stores the sidebar width clamped to [200, 400].
func (s *Store) SetSidebarWidth(width int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sidebarWidth = clampInt(width, sidebarWidthMin, sidebarWidthMax)
	s.persistPrefLocked(keySidebarWidth, s.sidebarWidth)
}

// SidebarWidth returns the sidebar width.
func (s *Store) SidebarWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarWidth
}

// SetTheme stores the trimmed theme name. Blank input is ignored and the
// previous theme kept.
func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	theme = strings.TrimSpace(theme)
	if theme == "" {
		return
	}
	s.theme = theme
	s.persistPrefLocked(keyTheme, theme)
}

// Theme returns the theme name.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetToolbarAutoHideMs stores the toolbar auto-hide delay clamped to
// [0, 5000]. Zero disables auto-hide.
func (s *Store) SetToolbarAutoHideMs(ms int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toolbarAutoHideMs = clampInt(ms, 0, toolbarAutoHideMaxMs)
	s.persistPrefLocked(keyToolbarAutoHide, s.toolbarAutoHideMs)
}

// ToolbarAutoHideMs returns the toolbar auto-hide delay.
func (s *Store) ToolbarAutoHideMs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolbarAutoHideMs
}

// SetToolbarHotzoneRevealDelayMs stores the hotzone reveal delay clamped to
// [0, 1000].
func (s *Store) SetToolbarHotzoneRevealDelayMs(ms int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toolbarHotzoneRevealDelayMs = clampInt(ms, 0, toolbarHotzoneMaxMs)
	s.persistPrefLocked(keyToolbarHotzone, s.toolbarHotzoneRevealDelayMs)
}

// ToolbarHotzoneRevealDelayMs returns the hotzone reveal delay.
func (s *Store) ToolbarHotzoneRevealDelayMs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolbarHotzoneRevealDelayMs
}

// persistPrefLocked writes one preference key on a background goroutine,
// independently of the bookmark/folder flush path. Failures are logged; the
// in-memory value stands.
func (s *Store) persistPrefLocked(key string, value any) {
	if s.kv == nil {
		return
	}

	s.flushes.Add(1)
	go func() {
		defer s.flushes.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.kv.Set(key, value); err != nil {
			s.log.Warn("preference flush failed", logger.String("key", key), logger.Error(err))
			return
		}
		if err := s.kv.Save(); err != nil {
			s.log.Warn("preference flush failed", logger.String("key", key), logger.Error(err))
		}
	}()
}

// loadPrefsLocked loads each preference independently. Absent, mistyped, or
// out-of-domain values are ignored and the default kept.
func (s *Store) loadPrefsLocked() {
	var selected []string
	if getJSON(s.kv, keySelectedFolderIDs, &selected) && selected != nil {
		s.selectedFolderIDs = selected
	}

	var query string
	if getJSON(s.kv, keySearchQuery, &query) {
		s.searchQuery = query
	}

	var mode string
	if getJSON(s.kv, keyViewMode, &mode) {
		if vm := ViewMode(mode); vm == ViewModeGrid || vm == ViewModeList {
			s.viewMode = vm
		}
	}

	var width float64
	if getJSON(s.kv, keySidebarWidth, &width) {
		s.sidebarWidth = clampInt(int(math.Round(width)), sidebarWidthMin, sidebarWidthMax)
	}

	var theme string
	if getJSON(s.kv, keyTheme, &theme) {
		if theme = strings.TrimSpace(theme); theme != "" {
			s.theme = theme
		}
	}

	var autoHide float64
	if getJSON(s.kv, keyToolbarAutoHide, &autoHide) {
		s.toolbarAutoHideMs = clampInt(int(math.Round(autoHide)), 0, toolbarAutoHideMaxMs)
	}

	var hotzone float64
	if getJSON(s.kv, keyToolbarHotzone, &hotzone) {
		s.toolbarHotzoneRevealDelayMs = clampInt(int(math.Round(hotzone)), 0, toolbarHotzoneMaxMs)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
