package tui

import (
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/types"
)

// maxLines caps the scrollback kept for re-wrapping.
const maxLines = 2000

// rawLine stores an unstyled output line with its classification, so it
// can be re-wrapped and re-styled when the terminal is resized.
type rawLine struct {
	text string
	kind lineKind
}

// Screen is the notifier the engine reports to. It keeps the scrollback,
// visible panels and the last value of every stat for the Model to draw.
type Screen struct {
	lines  []rawLine
	panels map[types.Panel]bool
	stats  map[types.Stat]notify.StatValue
	trace  bool
	dirty  bool
}

// NewScreen creates an empty screen.
func NewScreen() *Screen {
	return &Screen{
		panels: map[types.Panel]bool{},
		stats:  map[types.Stat]notify.StatValue{},
	}
}

var _ notify.Notifier = (*Screen)(nil)

func (s *Screen) ShowPanel(p types.Panel) {
	s.panels[p] = true
	s.dirty = true
}

func (s *Screen) HidePanel(p types.Panel) {
	s.panels[p] = false
	s.dirty = true
}

func (s *Screen) Message(text string) {
	s.add(rawLine{text: text, kind: classifyLine(text)})
}

func (s *Screen) UpdateStat(st types.Stat, current, max int) {
	s.stats[st] = notify.StatValue{Current: current, Max: max}
	s.dirty = true
}

// Visible reports whether a panel is shown.
func (s *Screen) Visible(p types.Panel) bool { return s.panels[p] }

// Stat returns the last reported value of a stat.
func (s *Screen) Stat(st types.Stat) (notify.StatValue, bool) {
	v, ok := s.stats[st]
	return v, ok
}

func (s *Screen) add(lines ...rawLine) {
	s.lines = append(s.lines, lines...)
	if over := len(s.lines) - maxLines; over > 0 {
		s.lines = append(s.lines[:0:0], s.lines[over:]...)
	}
	s.dirty = true
}

// takeDirty reports and clears whether anything changed since the last
// call.
func (s *Screen) takeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}
