// Package tui provides a real-time Bubble Tea terminal UI for the Emberkeep
// engine.
package tui

import "github.com/charmbracelet/bubbles/key"

// History keeps typed commands for Up/Down recall.
type History struct {
	entries []string
	max     int
	cursor  int // -1 = not navigating, 0..len-1 = position in entries
}

// NewHistory creates a history buffer with the given maximum size.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push adds a command to history. Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	h.cursor = -1
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append(h.entries, cmd)
}

// Prev returns the previous (older) history entry.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next returns the next (newer) history entry.
// Returns ("", false) when past the most recent entry (back to fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor resets the navigation cursor to the "not navigating" state.
func (h *History) ResetCursor() {
	h.cursor = -1
}

// keyMap holds the direct-action bindings. Typed commands cover the rest.
type keyMap struct {
	Quit      key.Binding
	Submit    key.Binding
	HistPrev  key.Binding
	HistNext  key.Binding
	Scroll    key.Binding
	Inventory key.Binding
	Pause     key.Binding
	Attack    key.Binding
	Skill     key.Binding
	Item      key.Binding
	Flee      key.Binding
	Talk      key.Binding
	North     key.Binding
	South     key.Binding
	East      key.Binding
	West      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter")),
		HistPrev:  key.NewBinding(key.WithKeys("up")),
		HistNext:  key.NewBinding(key.WithKeys("down")),
		Scroll:    key.NewBinding(key.WithKeys("pgup", "pgdown")),
		Inventory: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "bag")),
		Pause:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "pause")),
		Attack:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "attack")),
		Skill:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "skill")),
		Item:      key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "potion")),
		Flee:      key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "flee")),
		Talk:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "talk")),
		North:     key.NewBinding(key.WithKeys("alt+up", "ctrl+up"), key.WithHelp("alt+↑↓←→", "walk")),
		South:     key.NewBinding(key.WithKeys("alt+down", "ctrl+down")),
		East:      key.NewBinding(key.WithKeys("alt+right", "ctrl+right")),
		West:      key.NewBinding(key.WithKeys("alt+left", "ctrl+left")),
	}
}

// hints returns the key help shown under the status bar.
func (k keyMap) hints() []key.Binding {
	return []key.Binding{k.North, k.Talk, k.Attack, k.Skill, k.Item, k.Flee, k.Inventory, k.Pause, k.Quit}
}
