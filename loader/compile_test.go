package loader

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func run(t *testing.T, L *lua.LState, src string) {
	t.Helper()
	if err := L.DoString(src); err != nil {
		t.Fatal(err)
	}
}

func TestCompileGame_CombatOverrides(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	run(t, L, `
		Game {
			title = "Test Game",
			intro = "Welcome!",
			combat = { respawn_delay = 5, crit_chance = 0.25 },
		}
	`)

	game := compileGame(coll.game, state.NewDefs().Game)

	if game.Title != "Test Game" || game.Intro != "Welcome!" {
		t.Errorf("game = %+v", game)
	}
	if game.Combat.RespawnDelay != 5 || game.Combat.CritChance != 0.25 {
		t.Errorf("overrides not applied: %+v", game.Combat)
	}
	if game.Combat.SkillName != "Arcane Bolt" {
		t.Errorf("SkillName = %q, want default", game.Combat.SkillName)
	}
}

func TestCompileEnemy_Defaults(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	run(t, L, `Enemy "rat" { stats = { attack = 2 } }`)

	if len(coll.enemies) != 1 {
		t.Fatalf("expected 1 enemy, got %d", len(coll.enemies))
	}
	e := compileEnemy(coll.enemies[0])

	if e.Name != "rat" || e.Kind != "rat" {
		t.Errorf("name/kind = %q/%q, want ID fallback", e.Name, e.Kind)
	}
	if e.Stats.MaxHealth != 1 {
		t.Errorf("MaxHealth = %d, want 1", e.Stats.MaxHealth)
	}
	if e.DetectionRange != 10 || e.AttackRange != 2 || e.AttackCooldown != 2 {
		t.Errorf("unexpected defaults: %+v", e)
	}
}

func TestCompileItem_KindInference(t *testing.T) {
	tests := []struct {
		src  string
		want types.ItemKind
	}{
		{`Item "a" { slot = "boots" }`, types.ItemEquipment},
		{`Item "a" { mana = 5 }`, types.ItemConsumable},
		{`Item "a" { name = "Bone" }`, types.ItemMaterial},
		{`Item "a" { kind = "quest" }`, types.ItemQuest},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			L, coll := newTestVM()
			defer L.Close()
			run(t, L, tt.src)
			if got := compileItem(coll.items[0]).Kind; got != tt.want {
				t.Errorf("Kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileRule_ThreeArgForm(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	run(t, L, `
		Rule("greet", When { event = "npc_talked", npc = "elder" }, Then {
			Say("Hello."),
			AddGold(3),
		})
	`)

	if len(coll.rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(coll.rules))
	}
	rule := compileRule(coll.rules[0])

	if rule.When.Event != "npc_talked" || rule.When.Fields["npc"] != "elder" {
		t.Errorf("When = %+v", rule.When)
	}
	if len(rule.Conditions) != 0 {
		t.Errorf("expected no conditions, got %d", len(rule.Conditions))
	}
	if len(rule.Effects) != 2 || rule.Effects[1].Type != "add_gold" || rule.Effects[1].Params["amount"] != 3 {
		t.Errorf("Effects = %+v", rule.Effects)
	}
}

func TestCompileRule_FourArgForm(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	run(t, L, `
		Rule("rich", When { event = "quest_completed" },
			{ GoldAtLeast(100), LevelAtLeast(3) },
			Then { SetFlag("rich", false) })
	`)

	rule := compileRule(coll.rules[0])
	if len(rule.Conditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(rule.Conditions))
	}
	if rule.Conditions[0].Type != "gold_at_least" || rule.Conditions[0].Params["amount"] != 100 {
		t.Errorf("condition 0 = %+v", rule.Conditions[0])
	}
	if rule.Effects[0].Params["value"] != false {
		t.Errorf("SetFlag value = %v, want false", rule.Effects[0].Params["value"])
	}
}

func TestEffectHelpers(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	run(t, L, `
		return {
			Say("hi"),
			GiveItem("potion"),
			RemoveItem("potion"),
			AddXP(10),
			Heal(5),
			RestoreMana(4),
			StartQuest("q"),
			SetFlag("f"),
			EmitEvent("bell_rung", { times = 3 }),
			Stop(),
		}
	`)

	effs := compileEffects(L.CheckTable(-1))
	want := []string{"say", "give_item", "remove_item", "add_xp", "heal", "restore_mana",
		"start_quest", "set_flag", "emit_event", "stop"}
	if len(effs) != len(want) {
		t.Fatalf("expected %d effects, got %d", len(want), len(effs))
	}
	for i, w := range want {
		if effs[i].Type != w {
			t.Errorf("effect %d = %q, want %q", i, effs[i].Type, w)
		}
	}
	if effs[7].Params["value"] != true {
		t.Error("SetFlag should default to true")
	}
	if effs[8].Params["event"] != "bell_rung" || effs[8].Params["times"] != 3 {
		t.Errorf("EmitEvent params = %+v", effs[8].Params)
	}
}

func TestCompileNPC_BadLine(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	run(t, L, `NPC "mute" { lines = { 42 } }`)

	if _, err := compileNPC(coll.npcs[0]); err == nil {
		t.Fatal("expected error for non-table line")
	}
}

func TestToGoValue(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	run(t, L, `return { n = 3, f = 1.5, s = "x", b = true, arr = { "a", "b" } }`)
	m := tableToAnyMap(L.CheckTable(-1))

	if m["n"] != 3 {
		t.Errorf("n = %#v, want int 3", m["n"])
	}
	if m["f"] != 1.5 {
		t.Errorf("f = %#v", m["f"])
	}
	if m["s"] != "x" || m["b"] != true {
		t.Errorf("s/b = %#v/%#v", m["s"], m["b"])
	}
	arr, ok := m["arr"].([]any)
	if !ok || len(arr) != 2 || arr[1] != "b" {
		t.Errorf("arr = %#v", m["arr"])
	}
}

func TestCompile_DuplicateID(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	run(t, L, `
		Game { title = "Dup" }
		Item "potion" { heal = 1 }
		Item "potion" { heal = 2 }
	`)

	if _, err := compile(coll); err == nil {
		t.Fatal("expected duplicate item error")
	}
}
