// Package events implements the single-pass event bus. Handlers produce
// additional effects but events raised while applying those effects are
// only seen on the next drain, so dispatch never recurses.
package events

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/emberkeep/types"
)

// Event types published by the engine.
const (
	CombatStarted   = "combat_started"
	CombatEnded     = "combat_ended"
	EntityDamaged   = "entity_damaged"
	EnemyDefeated   = "enemy_defeated"
	PlayerDefeated  = "player_defeated"
	PlayerRespawned = "player_respawned"
	LevelUp         = "level_up"
	ItemTaken       = "item_taken"
	ItemDropped     = "item_dropped"
	ItemUsed        = "item_used"
	ItemEquipped    = "item_equipped"
	QuestAccepted   = "quest_accepted"
	QuestCompleted  = "quest_completed"
	NPCTalked       = "npc_talked"
	AreaEntered     = "area_entered"
	ModeChanged     = "mode_changed"
	FlagChanged     = "flag_changed"
)

// Handler reacts to an event and may return effects to apply.
type Handler func(types.Event) []types.Effect

// Bus queues published events and dispatches them to subscribers.
type Bus struct {
	handlers map[string][]Handler
	all      []Handler
	pending  []types.Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Subscribe registers h for events of the given type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// SubscribeAll registers h for every event type, after typed handlers.
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Publish queues an event for the next Drain.
func (b *Bus) Publish(e types.Event) {
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	b.pending = append(b.pending, e)
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	return len(b.pending)
}

// Drain dispatches every queued event once, in publish order, and returns
// the effects produced by handlers along with the events dispatched.
// Events published by handlers during the drain stay queued.
func (b *Bus) Drain() ([]types.Effect, []types.Event) {
	batch := b.pending
	b.pending = nil
	return Dispatch(batch, b.handlers, b.all), batch
}

// Dispatch runs handlers against events in a single pass.
func Dispatch(evts []types.Event, handlers map[string][]Handler, all []Handler) []types.Effect {
	var result []types.Effect

	for _, event := range evts {
		for _, h := range handlers[event.Type] {
			result = append(result, h(event)...)
		}
		for _, h := range all {
			result = append(result, h(event)...)
		}
	}

	return result
}

// Format renders an event as its type followed by key=value pairs in
// key order.
func Format(e types.Event) string {
	if len(e.Data) == 0 {
		return e.Type
	}
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, e.Type)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Data[k]))
	}
	return strings.Join(parts, " ")
}
