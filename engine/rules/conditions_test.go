package rules

import (
	"testing"

	"github.com/nathoo/emberkeep/types"
)

// stubFacts is a fixed snapshot of game state for condition tests.
type stubFacts struct {
	items  map[string]bool
	active map[string]bool
	done   map[string]bool
	flags  map[string]bool
	level  int
	gold   int
}

func (s stubFacts) HasItem(id string) bool     { return s.items[id] }
func (s stubFacts) QuestActive(id string) bool { return s.active[id] }
func (s stubFacts) QuestDone(id string) bool   { return s.done[id] }
func (s stubFacts) Level() int                 { return s.level }
func (s stubFacts) Gold() int                  { return s.gold }
func (s stubFacts) Flag(name string) bool      { return s.flags[name] }

func condTestFacts() stubFacts {
	return stubFacts{
		items:  map[string]bool{"rusty_key": true},
		active: map[string]bool{"goblin_menace": true},
		done:   map[string]bool{"herbs": true},
		flags:  map[string]bool{"met_elder": true},
		level:  3,
		gold:   40,
	}
}

func TestEvalCondition(t *testing.T) {
	f := condTestFacts()

	tests := []struct {
		name string
		cond types.Condition
		want bool
	}{
		{
			name: "has_item: player has item",
			cond: types.Condition{Type: "has_item", Params: map[string]any{"item": "rusty_key"}},
			want: true,
		},
		{
			name: "has_item: player lacks item",
			cond: types.Condition{Type: "has_item", Params: map[string]any{"item": "sword"}},
			want: false,
		},
		{
			name: "quest_active: accepted quest",
			cond: types.Condition{Type: "quest_active", Params: map[string]any{"quest": "goblin_menace"}},
			want: true,
		},
		{
			name: "quest_active: completed quest is not active",
			cond: types.Condition{Type: "quest_active", Params: map[string]any{"quest": "herbs"}},
			want: false,
		},
		{
			name: "quest_done: completed",
			cond: types.Condition{Type: "quest_done", Params: map[string]any{"quest": "herbs"}},
			want: true,
		},
		{
			name: "level_at_least: equal passes",
			cond: types.Condition{Type: "level_at_least", Params: map[string]any{"level": 3}},
			want: true,
		},
		{
			name: "level_at_least: Lua number above fails",
			cond: types.Condition{Type: "level_at_least", Params: map[string]any{"level": float64(4)}},
			want: false,
		},
		{
			name: "gold_at_least: passes",
			cond: types.Condition{Type: "gold_at_least", Params: map[string]any{"amount": 40}},
			want: true,
		},
		{
			name: "flag_set: flag is true",
			cond: types.Condition{Type: "flag_set", Params: map[string]any{"flag": "met_elder"}},
			want: true,
		},
		{
			name: "flag_set: flag is unset",
			cond: types.Condition{Type: "flag_set", Params: map[string]any{"flag": "door_open"}},
			want: false,
		},
		{
			name: "flag_not: flag is unset",
			cond: types.Condition{Type: "flag_not", Params: map[string]any{"flag": "door_open"}},
			want: true,
		},
		{
			name: "flag_not: flag is true",
			cond: types.Condition{Type: "flag_not", Params: map[string]any{"flag": "met_elder"}},
			want: false,
		},
		{
			name: "not: negates true → false",
			cond: types.Condition{
				Type:  "not",
				Inner: &types.Condition{Type: "has_item", Params: map[string]any{"item": "rusty_key"}},
			},
			want: false,
		},
		{
			name: "not: negates false → true",
			cond: types.Condition{
				Type:  "not",
				Inner: &types.Condition{Type: "has_item", Params: map[string]any{"item": "sword"}},
			},
			want: true,
		},
		{
			name: "not: empty inner passes",
			cond: types.Condition{Type: "not"},
			want: true,
		},
		{
			name: "unknown condition type: false",
			cond: types.Condition{Type: "bogus"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvalCondition(tt.cond, f)
			if got != tt.want {
				t.Errorf("EvalCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalAllConditions_AllPass(t *testing.T) {
	f := condTestFacts()
	conds := []types.Condition{
		{Type: "has_item", Params: map[string]any{"item": "rusty_key"}},
		{Type: "flag_set", Params: map[string]any{"flag": "met_elder"}},
		{Type: "level_at_least", Params: map[string]any{"level": 2}},
	}
	if !EvalAllConditions(conds, f) {
		t.Error("expected all conditions to pass")
	}
}

func TestEvalAllConditions_OneFails(t *testing.T) {
	f := condTestFacts()
	conds := []types.Condition{
		{Type: "has_item", Params: map[string]any{"item": "rusty_key"}},
		{Type: "has_item", Params: map[string]any{"item": "sword"}}, // fails
		{Type: "level_at_least", Params: map[string]any{"level": 2}},
	}
	if EvalAllConditions(conds, f) {
		t.Error("expected conditions to fail")
	}
}

func TestEvalAllConditions_Empty(t *testing.T) {
	if !EvalAllConditions(nil, condTestFacts()) {
		t.Error("expected empty conditions to pass")
	}
}
