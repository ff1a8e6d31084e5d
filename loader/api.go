package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerDialogueHelpers(L)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

// curried returns a constructor used as `Name "id" { ... }`: the outer call
// takes the ID and returns a function that takes the table.
func curried(L *lua.LState, add func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", combat = { ... } }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Player { name = "...", stats = { ... }, start = { x = 0, y = 0 } }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.player = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Enemy", curried(L, func(id string, tbl *lua.LTable) {
		coll.enemies = append(coll.enemies, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("Item", curried(L, func(id string, tbl *lua.LTable) {
		coll.items = append(coll.items, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("Quest", curried(L, func(id string, tbl *lua.LTable) {
		coll.quests = append(coll.quests, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("NPC", curried(L, func(id string, tbl *lua.LTable) {
		coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("Area", curried(L, func(id string, tbl *lua.LTable) {
		coll.areas = append(coll.areas, rawDef{id: id, table: tbl})
	}))

	// Rule("id", when, conditions, then)
	// conditions may be omitted: Rule("id", when, then).
	L.SetGlobal("Rule", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		when := L.CheckTable(2)

		var conditions *lua.LTable
		var thenTbl *lua.LTable
		if L.Get(4) != lua.LNil {
			if t, ok := L.Get(3).(*lua.LTable); ok {
				conditions = t
			}
			thenTbl = L.CheckTable(4)
		} else {
			thenTbl = L.CheckTable(3)
		}

		coll.rules = append(coll.rules, rawRule{
			id:         id,
			when:       when,
			conditions: conditions,
			then:       thenTbl,
			order:      coll.nextSourceOrder(),
		})
		return 0
	}))

	// When { event = "...", field = value } is passed through as a table.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))

	// Then { effect1, effect2, ... } is passed through as a table.
	L.SetGlobal("Then", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
}

func registerDialogueHelpers(L *lua.LState) {
	// Line { text = "...", requires = {...}, effects = {...}, options = {...} }
	// Line "text" is shorthand for a plain line.
	L.SetGlobal("Line", L.NewFunction(func(L *lua.LState) int {
		switch v := L.Get(1).(type) {
		case *lua.LTable:
			L.Push(v)
		case lua.LString:
			tbl := L.NewTable()
			tbl.RawSetString("text", v)
			L.Push(tbl)
		default:
			L.ArgError(1, "table or string expected")
		}
		return 1
	}))

	// Option("text", next): next is the 1-based line to jump to. Without
	// it the option ends the conversation.
	L.SetGlobal("Option", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("text", lua.LString(text))
		if n, ok := L.Get(2).(lua.LNumber); ok {
			tbl.RawSetString("next", n)
		}
		L.Push(tbl)
		return 1
	}))
}

// pushTyped pushes a {type = typ, k1 = v1, ...} table.
func pushTyped(L *lua.LState, typ string, kv ...any) int {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	for i := 0; i+1 < len(kv); i += 2 {
		tbl.RawSetString(kv[i].(string), kv[i+1].(lua.LValue))
	}
	L.Push(tbl)
	return 1
}

func registerConditionHelpers(L *lua.LState) {
	// HasItem("potion")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "has_item", "item", lua.LString(L.CheckString(1)))
	}))

	// QuestActive("quest")
	L.SetGlobal("QuestActive", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "quest_active", "quest", lua.LString(L.CheckString(1)))
	}))

	// QuestDone("quest")
	L.SetGlobal("QuestDone", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "quest_done", "quest", lua.LString(L.CheckString(1)))
	}))

	// LevelAtLeast(3)
	L.SetGlobal("LevelAtLeast", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "level_at_least", "level", L.CheckNumber(1))
	}))

	// GoldAtLeast(50)
	L.SetGlobal("GoldAtLeast", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "gold_at_least", "amount", L.CheckNumber(1))
	}))

	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "flag_set", "flag", lua.LString(L.CheckString(1)))
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "flag_not", "flag", lua.LString(L.CheckString(1)))
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "not", "inner", L.CheckTable(1))
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text")
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "say", "text", lua.LString(L.CheckString(1)))
	}))

	// GiveItem("id")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "give_item", "item", lua.LString(L.CheckString(1)))
	}))

	// RemoveItem("id")
	L.SetGlobal("RemoveItem", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "remove_item", "item", lua.LString(L.CheckString(1)))
	}))

	// AddGold(amount)
	L.SetGlobal("AddGold", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "add_gold", "amount", L.CheckNumber(1))
	}))

	// AddXP(amount)
	L.SetGlobal("AddXP", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "add_xp", "amount", L.CheckNumber(1))
	}))

	// Heal(amount)
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "heal", "amount", L.CheckNumber(1))
	}))

	// RestoreMana(amount)
	L.SetGlobal("RestoreMana", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "restore_mana", "amount", L.CheckNumber(1))
	}))

	// StartQuest("quest")
	L.SetGlobal("StartQuest", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "start_quest", "quest", lua.LString(L.CheckString(1)))
	}))

	// SetFlag("flag", value); value defaults to true.
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		value := L.OptBool(2, true)
		return pushTyped(L, "set_flag", "flag", lua.LString(flag), "value", lua.LBool(value))
	}))

	// EmitEvent("type", { field = value })
	L.SetGlobal("EmitEvent", L.NewFunction(func(L *lua.LState) int {
		event := L.CheckString(1)
		tbl := L.NewTable()
		if data, ok := L.Get(2).(*lua.LTable); ok {
			data.ForEach(func(k, v lua.LValue) {
				tbl.RawSet(k, v)
			})
		}
		tbl.RawSetString("type", lua.LString("emit_event"))
		tbl.RawSetString("event", lua.LString(event))
		L.Push(tbl)
		return 1
	}))

	// Stop()
	L.SetGlobal("Stop", L.NewFunction(func(L *lua.LState) int {
		return pushTyped(L, "stop")
	}))
}
