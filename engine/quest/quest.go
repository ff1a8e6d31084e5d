// Package quest tracks accepted quests and advances them from game events.
// Completing a quest yields reward effects rather than mutating the player
// directly, so rewards flow through effects.Apply like everything else.
package quest

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// Entry is the player's progress on one accepted quest.
type Entry struct {
	ID       string
	Progress int
	Done     bool
}

// Log holds accepted quests in acceptance order.
type Log struct {
	defs *state.Defs
	ui   notify.Notifier
	log  *slog.Logger

	order   []string
	entries map[string]*Entry
}

// New creates an empty quest log.
func New(defs *state.Defs, ui notify.Notifier, logger *slog.Logger) *Log {
	if ui == nil {
		ui = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{defs: defs, ui: ui, log: logger, entries: map[string]*Entry{}}
}

// Accept adds a quest. Unknown quests and quests already accepted or
// completed are ignored.
func (l *Log) Accept(id string) bool {
	if _, ok := l.defs.Quests[id]; !ok {
		return false
	}
	if _, ok := l.entries[id]; ok {
		return false
	}
	l.entries[id] = &Entry{ID: id}
	l.order = append(l.order, id)
	l.ui.Message(fmt.Sprintf("Quest accepted: %s", l.defs.QuestTitle(id)))
	l.log.Info("quest accepted", "quest", id)
	return true
}

// Active reports whether a quest is accepted and not yet completed.
func (l *Log) Active(id string) bool {
	e, ok := l.entries[id]
	return ok && !e.Done
}

// Done reports whether a quest has been completed.
func (l *Log) Done(id string) bool {
	e, ok := l.entries[id]
	return ok && e.Done
}

// Entry returns the progress record for a quest.
func (l *Log) Entry(id string) (Entry, bool) {
	e, ok := l.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries returns every accepted quest in acceptance order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}

// Progress advances an active quest by n. When the requirement is met the
// quest completes and its reward effects are returned.
func (l *Log) Progress(id string, n int) []types.Effect {
	e, ok := l.entries[id]
	if !ok || e.Done || n <= 0 {
		return nil
	}
	def := l.defs.Quests[id]
	e.Progress += n
	required := max(def.Required, 1)
	if e.Progress < required {
		l.ui.Message(fmt.Sprintf("%s: %d/%d", l.defs.QuestTitle(id), e.Progress, required))
		return nil
	}
	e.Progress = required
	return l.Complete(id)
}

// Complete finishes an active quest and returns its rewards as effects.
func (l *Log) Complete(id string) []types.Effect {
	e, ok := l.entries[id]
	if !ok || e.Done {
		return nil
	}
	e.Done = true
	def := l.defs.Quests[id]
	l.ui.Message(fmt.Sprintf("Quest completed: %s", l.defs.QuestTitle(id)))
	l.log.Info("quest completed", "quest", id)

	var effs []types.Effect
	if def.Experience > 0 {
		effs = append(effs, types.Effect{Type: "add_xp", Params: map[string]any{"amount": def.Experience}})
	}
	if def.Gold > 0 {
		effs = append(effs, types.Effect{Type: "add_gold", Params: map[string]any{"amount": def.Gold}})
	}
	for _, item := range def.Items {
		effs = append(effs, types.Effect{Type: "give_item", Params: map[string]any{"item": item}})
	}
	effs = append(effs, types.Effect{Type: "emit_event", Params: map[string]any{
		"event": events.QuestCompleted,
		"quest": id,
	}})
	return effs
}

// Handle is an events.Handler that advances matching active quests.
func (l *Log) Handle(e types.Event) []types.Effect {
	qt, key := match(e)
	if qt == "" {
		return nil
	}
	target, _ := e.Data[key].(string)

	var effs []types.Effect
	for _, id := range l.order {
		def := l.defs.Quests[id]
		if def.Type != qt || !l.Active(id) {
			continue
		}
		if def.Target != target {
			continue
		}
		effs = append(effs, l.Progress(id, 1)...)
	}
	return effs
}

// match maps an event type to the quest type it advances and the event
// field compared against the quest target.
func match(e types.Event) (types.QuestType, string) {
	switch e.Type {
	case events.EnemyDefeated:
		return types.QuestKill, "kind"
	case events.ItemTaken:
		return types.QuestCollect, "item"
	case events.NPCTalked:
		return types.QuestTalk, "npc"
	case events.AreaEntered:
		return types.QuestExplore, "area"
	default:
		return "", ""
	}
}
