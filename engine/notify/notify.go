// Package notify defines the one-way surface the engine uses to drive a
// presentation layer: panels, text messages and numeric stat updates.
package notify

import (
	"fmt"

	"github.com/nathoo/emberkeep/types"
)

// Notifier receives presentation commands. Calls never fail and return
// nothing.
type Notifier interface {
	ShowPanel(p types.Panel)
	HidePanel(p types.Panel)
	Message(text string)
	UpdateStat(s types.Stat, current, max int)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) ShowPanel(types.Panel)           {}
func (Nop) HidePanel(types.Panel)           {}
func (Nop) Message(string)                  {}
func (Nop) UpdateStat(types.Stat, int, int) {}

// StatValue is the last value pushed for a stat.
type StatValue struct {
	Current int
	Max     int
}

// Recorder keeps every notification in memory. It is used by tests and
// by presentation layers that render from a snapshot.
type Recorder struct {
	Messages []string
	Panels   map[types.Panel]bool
	Stats    map[types.Stat]StatValue
	Log      []string // every call, in order
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Panels: map[types.Panel]bool{},
		Stats:  map[types.Stat]StatValue{},
	}
}

func (r *Recorder) ShowPanel(p types.Panel) {
	r.Panels[p] = true
	r.Log = append(r.Log, "show "+PanelName(p))
}

func (r *Recorder) HidePanel(p types.Panel) {
	r.Panels[p] = false
	r.Log = append(r.Log, "hide "+PanelName(p))
}

func (r *Recorder) Message(text string) {
	r.Messages = append(r.Messages, text)
	r.Log = append(r.Log, "msg "+text)
}

func (r *Recorder) UpdateStat(s types.Stat, current, max int) {
	r.Stats[s] = StatValue{Current: current, Max: max}
	r.Log = append(r.Log, fmt.Sprintf("stat %s %d/%d", StatName(s), current, max))
}

// Visible reports whether a panel is currently shown.
func (r *Recorder) Visible(p types.Panel) bool {
	return r.Panels[p]
}

// LastMessage returns the most recent message, or "".
func (r *Recorder) LastMessage() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}

// Reset drops recorded messages and the call log but keeps panel and
// stat state.
func (r *Recorder) Reset() {
	r.Messages = nil
	r.Log = nil
}

// Multi fans notifications out to several notifiers.
type Multi []Notifier

func (m Multi) ShowPanel(p types.Panel) {
	for _, n := range m {
		n.ShowPanel(p)
	}
}

func (m Multi) HidePanel(p types.Panel) {
	for _, n := range m {
		n.HidePanel(p)
	}
}

func (m Multi) Message(text string) {
	for _, n := range m {
		n.Message(text)
	}
}

func (m Multi) UpdateStat(s types.Stat, current, max int) {
	for _, n := range m {
		n.UpdateStat(s, current, max)
	}
}

// PanelName returns a short lowercase name for a panel.
func PanelName(p types.Panel) string {
	switch p {
	case types.PanelMainMenu:
		return "menu"
	case types.PanelHUD:
		return "hud"
	case types.PanelCombat:
		return "combat"
	case types.PanelInventory:
		return "inventory"
	case types.PanelPause:
		return "pause"
	case types.PanelGameOver:
		return "gameover"
	case types.PanelDialogue:
		return "dialogue"
	default:
		return "unknown"
	}
}

// StatName returns a short lowercase name for a stat.
func StatName(s types.Stat) string {
	switch s {
	case types.StatHealth:
		return "health"
	case types.StatMana:
		return "mana"
	case types.StatExperience:
		return "xp"
	case types.StatGold:
		return "gold"
	case types.StatLevel:
		return "level"
	case types.StatEnemyHealth:
		return "enemy"
	default:
		return "unknown"
	}
}
