// Package session tracks the live browser tabs for one window. The tab list
// is session state only; nothing here touches persistence.
package session

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nbrandt/linkstash/internal/model"
)

// Manager owns the tab collection and the active-tab reference. Once any tab
// exists the collection never drops below one: Close refuses to remove the
// last tab.
type Manager struct {
	mu       sync.Mutex
	tabs     []model.BrowserTab
	activeID string

	now   func() time.Time
	newID func() string
}

// Params holds the injected primitives for a Manager. Both default when nil.
type Params struct {
	Now   func() time.Time
	NewID func() string
}

// NewManager creates an empty tab manager.
func NewManager(params Params) *Manager {
	m := &Manager{
		tabs:  []model.BrowserTab{},
		now:   params.Now,
		newID: params.NewID,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = model.GenerateUUID
	}
	return m
}

// CreateOrActivate activates the existing tab with exactly this URL, or
// creates and activates a new one. A non-blank title updates the existing
// tab's title; a blank one leaves it alone.
func (m *Manager) CreateOrActivate(url, title string) model.BrowserTab {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for i := range m.tabs {
		if m.tabs[i].URL != url {
			continue
		}
		if strings.TrimSpace(title) != "" {
			m.tabs[i].Title = title
		}
		m.tabs[i].LastActiveAt = now
		m.activeID = m.tabs[i].ID
		return m.tabs[i]
	}

	tab := model.BrowserTab{
		ID:           m.newID(),
		URL:          url,
		Title:        title,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	m.tabs = append(m.tabs, tab)
	m.activeID = tab.ID
	return tab
}

// Activate marks the tab active and bumps its LastActiveAt. Returns false
// when the id is unknown.
func (m *Manager) Activate(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfLocked(id)
	if i < 0 {
		return false
	}

	m.tabs[i].LastActiveAt = m.now()
	m.activeID = id
	return true
}

// Close removes the tab. It refuses when the tab is the last one remaining,
// so an established session always keeps at least one tab. Closing the
// active tab activates the tab now occupying the same index, or the new last
// tab when the index ran off the end. Returns whether a tab was removed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfLocked(id)
	if i < 0 {
		return false
	}
	if len(m.tabs) == 1 {
		return false
	}

	wasActive := m.activeID == id
	m.tabs = slices.Delete(m.tabs, i, i+1)

	if wasActive {
		if len(m.tabs) == 0 {
			m.activeID = ""
			return true
		}
		if i >= len(m.tabs) {
			i = len(m.tabs) - 1
		}
		m.tabs[i].LastActiveAt = m.now()
		m.activeID = m.tabs[i].ID
	}
	return true
}

// Tabs returns a copy of the tab list in creation order.
func (m *Manager) Tabs() []model.BrowserTab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tabs)
}

// ActiveTab returns the active tab, or false when no tab exists.
func (m *Manager) ActiveTab() (model.BrowserTab, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfLocked(m.activeID)
	if i < 0 {
		return model.BrowserTab{}, false
	}
	return m.tabs[i], true
}

func (m *Manager) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.tabs, func(t model.BrowserTab) bool { return t.ID == id })
}
