package events

import (
	"testing"

	"github.com/nathoo/emberkeep/types"
)

func say(text string) types.Effect {
	return types.Effect{Type: "say", Params: map[string]any{"text": text}}
}

func TestDrain_MatchesEventType(t *testing.T) {
	b := NewBus()
	b.Subscribe(ItemTaken, func(types.Event) []types.Effect { return []types.Effect{say("You picked something up!")} })
	b.Subscribe(ItemTaken, func(types.Event) []types.Effect {
		return []types.Effect{{Type: "add_gold", Params: map[string]any{"amount": 1}}}
	})

	b.Publish(types.Event{Type: ItemTaken, Data: map[string]any{"item": "key"}})

	effs, dispatched := b.Drain()
	if len(effs) != 2 {
		t.Fatalf("expected 2 effects from 2 matching handlers, got %d", len(effs))
	}
	if effs[0].Type != "say" {
		t.Errorf("expected say effect first, got %q", effs[0].Type)
	}
	if len(dispatched) != 1 {
		t.Errorf("expected 1 dispatched event, got %d", len(dispatched))
	}
}

func TestDrain_SkipsNonMatchingEventType(t *testing.T) {
	b := NewBus()
	b.Subscribe(ItemTaken, func(types.Event) []types.Effect { return []types.Effect{say("nope")} })

	b.Publish(types.Event{Type: FlagChanged})

	effs, _ := b.Drain()
	if len(effs) != 0 {
		t.Fatalf("expected 0 effects for non-matching event, got %d", len(effs))
	}
}

func TestDrain_NoHandlers(t *testing.T) {
	b := NewBus()
	b.Publish(types.Event{Type: ItemTaken})

	effs, dispatched := b.Drain()
	if len(effs) != 0 {
		t.Fatalf("expected 0 effects with no handlers, got %d", len(effs))
	}
	if len(dispatched) != 1 {
		t.Fatalf("expected event to be consumed, got %d", len(dispatched))
	}
	if b.Pending() != 0 {
		t.Fatalf("expected empty queue after drain, got %d", b.Pending())
	}
}

func TestDrain_SinglePass(t *testing.T) {
	b := NewBus()
	calls := 0
	b.Subscribe(EnemyDefeated, func(types.Event) []types.Effect {
		calls++
		// Re-publishing from a handler must not recurse into this drain.
		b.Publish(types.Event{Type: EnemyDefeated})
		return nil
	})

	b.Publish(types.Event{Type: EnemyDefeated})
	b.Drain()

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if b.Pending() != 1 {
		t.Fatalf("expected re-published event to stay queued, got %d", b.Pending())
	}
}

func TestDrain_SubscribeAllSeesEverything(t *testing.T) {
	b := NewBus()
	var seen []string
	b.SubscribeAll(func(e types.Event) []types.Effect {
		seen = append(seen, e.Type)
		return nil
	})

	b.Publish(types.Event{Type: CombatStarted})
	b.Publish(types.Event{Type: CombatEnded})
	b.Drain()

	if len(seen) != 2 || seen[0] != CombatStarted || seen[1] != CombatEnded {
		t.Errorf("unexpected events seen: %v", seen)
	}
}

func TestPublish_NilDataInitialized(t *testing.T) {
	b := NewBus()
	b.Publish(types.Event{Type: LevelUp})

	_, dispatched := b.Drain()
	if dispatched[0].Data == nil {
		t.Error("expected Data map to be initialized")
	}
}

func TestFormat(t *testing.T) {
	e := types.Event{Type: "enemy_defeated", Data: map[string]any{"kind": "Goblin", "gold": 7}}
	if got := Format(e); got != "enemy_defeated gold=7 kind=Goblin" {
		t.Errorf("Format = %q", got)
	}
	if got := Format(types.Event{Type: "player_respawned"}); got != "player_respawned" {
		t.Errorf("Format without data = %q", got)
	}
}
