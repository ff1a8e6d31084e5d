package state

import (
	"testing"

	"github.com/nathoo/emberkeep/types"
)

func testDefs() *Defs {
	d := NewDefs()
	d.Items["potion"] = types.ItemDef{ID: "potion", Name: "Health Potion", Kind: types.ItemConsumable, Heal: 25}
	d.Items["rock"] = types.ItemDef{ID: "rock", Kind: types.ItemMaterial}
	d.Quests["goblins"] = types.QuestDef{ID: "goblins", Title: "Goblin Trouble"}
	d.NPCs["elder"] = types.NPCDef{ID: "elder", Name: "Village Elder"}
	d.Enemies["goblin_b"] = types.EnemyDef{ID: "goblin_b"}
	d.Enemies["goblin_a"] = types.EnemyDef{ID: "goblin_a"}
	return d
}

func TestNewDefs_Defaults(t *testing.T) {
	d := NewDefs()

	if d.Game.Combat.SkillCost != 10 {
		t.Errorf("SkillCost = %d, want 10", d.Game.Combat.SkillCost)
	}
	if d.Game.Combat.FleeChance != 0.5 {
		t.Errorf("FleeChance = %v, want 0.5", d.Game.Combat.FleeChance)
	}
	if d.Game.Combat.CritChance != 0.1 {
		t.Errorf("CritChance = %v, want 0.1", d.Game.Combat.CritChance)
	}
	if d.Player.Stats.MaxHealth != 100 || d.Player.Stats.Attack != 10 {
		t.Errorf("unexpected default player stats: %+v", d.Player.Stats)
	}
	if d.Player.InventorySlots != 20 {
		t.Errorf("InventorySlots = %d, want 20", d.Player.InventorySlots)
	}
}

func TestNames_FallBackToID(t *testing.T) {
	d := testDefs()

	tests := []struct {
		got, want string
	}{
		{d.ItemName("potion"), "Health Potion"},
		{d.ItemName("rock"), "rock"},
		{d.ItemName("missing"), "missing"},
		{d.QuestTitle("goblins"), "Goblin Trouble"},
		{d.QuestTitle("nope"), "nope"},
		{d.NPCName("elder"), "Village Elder"},
		{d.NPCName("ghost"), "ghost"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestItem_Lookup(t *testing.T) {
	d := testDefs()

	it, ok := d.Item("potion")
	if !ok {
		t.Fatal("expected potion to exist")
	}
	if it.Heal != 25 {
		t.Errorf("Heal = %d, want 25", it.Heal)
	}
	if _, ok := d.Item("missing"); ok {
		t.Error("expected missing item lookup to fail")
	}
}

func TestEnemyIDs_Sorted(t *testing.T) {
	d := testDefs()

	ids := d.EnemyIDs()
	if len(ids) != 2 || ids[0] != "goblin_a" || ids[1] != "goblin_b" {
		t.Errorf("EnemyIDs = %v, want [goblin_a goblin_b]", ids)
	}
	if npcs := d.NPCIDs(); len(npcs) != 1 || npcs[0] != "elder" {
		t.Errorf("NPCIDs = %v, want [elder]", npcs)
	}
}
