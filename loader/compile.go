// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading; nothing Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// rawDef holds an `Name "id" { ... }` table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// rawRule holds a rule before compilation.
type rawRule struct {
	id         string
	when       *lua.LTable
	conditions *lua.LTable // may be nil
	then       *lua.LTable
	order      int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if tbl == nil {
		return ""
	}
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	if tbl == nil {
		return def
	}
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if tbl == nil {
		return nil
	}
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns the string elements of an array field.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getVec returns a position field written as { x = 1, y = 2 } or { 1, 2 }.
func getVec(tbl *lua.LTable, key string, def types.Vec2) types.Vec2 {
	v := getTable(tbl, key)
	if v == nil {
		return def
	}
	if v.MaxN() >= 2 {
		x, _ := v.RawGetInt(1).(lua.LNumber)
		y, _ := v.RawGetInt(2).(lua.LNumber)
		return types.Vec2{X: float64(x), Y: float64(y)}
	}
	return types.Vec2{X: getNumber(v, "x", 0), Y: getNumber(v, "y", 0)}
}

// getStats overlays a stats table on def. Keys: health, mana, attack,
// defense, magic.
func getStats(tbl *lua.LTable, key string, def types.Stats) types.Stats {
	s := getTable(tbl, key)
	if s == nil {
		return def
	}
	return types.Stats{
		MaxHealth: getInt(s, "health", def.MaxHealth),
		MaxMana:   getInt(s, "mana", def.MaxMana),
		Attack:    getInt(s, "attack", def.Attack),
		Defense:   getInt(s, "defense", def.Defense),
		Magic:     getInt(s, "magic", def.Magic),
	}
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts the string-keyed fields of a Lua table.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// compile converts all collected Lua data into a Defs struct. Anything the
// content leaves out keeps the defaults from state.NewDefs.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	defs := state.NewDefs()
	defs.Game = compileGame(coll.game, defs.Game)
	if coll.player != nil {
		defs.Player = compilePlayer(coll.player, defs.Player)
	}

	for _, raw := range coll.enemies {
		if _, dup := defs.Enemies[raw.id]; dup {
			return nil, fmt.Errorf("duplicate enemy %q", raw.id)
		}
		defs.Enemies[raw.id] = compileEnemy(raw)
	}
	for _, raw := range coll.items {
		if _, dup := defs.Items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item %q", raw.id)
		}
		defs.Items[raw.id] = compileItem(raw)
	}
	for _, raw := range coll.quests {
		if _, dup := defs.Quests[raw.id]; dup {
			return nil, fmt.Errorf("duplicate quest %q", raw.id)
		}
		defs.Quests[raw.id] = compileQuest(raw)
	}
	for _, raw := range coll.npcs {
		if _, dup := defs.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate NPC %q", raw.id)
		}
		npc, err := compileNPC(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling NPC %s: %w", raw.id, err)
		}
		defs.NPCs[raw.id] = npc
	}
	for _, raw := range coll.areas {
		if _, dup := defs.Areas[raw.id]; dup {
			return nil, fmt.Errorf("duplicate area %q", raw.id)
		}
		defs.Areas[raw.id] = compileArea(raw)
	}
	for _, raw := range coll.rules {
		defs.Rules = append(defs.Rules, compileRule(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable, def types.GameDef) types.GameDef {
	g := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Combat:  def.Combat,
	}
	if c := getTable(tbl, "combat"); c != nil {
		r := &g.Combat
		r.StartDelay = getNumber(c, "start_delay", r.StartDelay)
		r.TurnDelay = getNumber(c, "turn_delay", r.TurnDelay)
		r.VictoryDelay = getNumber(c, "victory_delay", r.VictoryDelay)
		r.RespawnDelay = getNumber(c, "respawn_delay", r.RespawnDelay)
		r.SkillCost = getInt(c, "skill_cost", r.SkillCost)
		r.FleeChance = getNumber(c, "flee_chance", r.FleeChance)
		r.CritChance = getNumber(c, "crit_chance", r.CritChance)
		if name := getString(c, "skill"); name != "" {
			r.SkillName = name
		}
	}
	return g
}

func compilePlayer(tbl *lua.LTable, def types.PlayerDef) types.PlayerDef {
	p := def
	if name := getString(tbl, "name"); name != "" {
		p.Name = name
	}
	p.Stats = getStats(tbl, "stats", def.Stats)
	p.Start = getVec(tbl, "start", def.Start)
	p.MoveSpeed = getNumber(tbl, "speed", def.MoveSpeed)
	p.AttackReach = getNumber(tbl, "reach", def.AttackReach)
	p.InventorySlots = getInt(tbl, "slots", def.InventorySlots)
	p.Items = getStrings(tbl, "items")
	return p
}

func compileEnemy(raw rawDef) types.EnemyDef {
	tbl := raw.table
	e := types.EnemyDef{
		ID:             raw.id,
		Name:           getString(tbl, "name"),
		Kind:           getString(tbl, "kind"),
		Stats:          getStats(tbl, "stats", types.Stats{MaxHealth: 1}),
		Experience:     getInt(tbl, "xp", 0),
		Gold:           getInt(tbl, "gold", 0),
		Position:       getVec(tbl, "at", types.Vec2{}),
		DetectionRange: getNumber(tbl, "detection", 10),
		AttackRange:    getNumber(tbl, "attack_range", 2),
		MoveSpeed:      getNumber(tbl, "speed", 3),
		AttackCooldown: getNumber(tbl, "cooldown", 2),
		WanderRadius:   getNumber(tbl, "wander", 0),
	}
	if e.Name == "" {
		e.Name = raw.id
	}
	if e.Kind == "" {
		e.Kind = e.Name
	}
	return e
}

func compileItem(raw rawDef) types.ItemDef {
	tbl := raw.table
	it := types.ItemDef{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Description:   getString(tbl, "description"),
		Kind:          types.ItemKind(getString(tbl, "kind")),
		Value:         getInt(tbl, "value", 0),
		Heal:          getInt(tbl, "heal", 0),
		Mana:          getInt(tbl, "mana", 0),
		Slot:          getString(tbl, "slot"),
		Bonus:         getStats(tbl, "bonus", types.Stats{}),
		RequiredLevel: getInt(tbl, "level", 0),
	}
	if it.Kind == "" {
		switch {
		case it.Slot != "":
			it.Kind = types.ItemEquipment
		case it.Heal > 0 || it.Mana > 0:
			it.Kind = types.ItemConsumable
		default:
			it.Kind = types.ItemMaterial
		}
	}
	return it
}

func compileQuest(raw rawDef) types.QuestDef {
	tbl := raw.table
	return types.QuestDef{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Type:        types.QuestType(getString(tbl, "type")),
		Target:      getString(tbl, "target"),
		Required:    getInt(tbl, "count", 1),
		Experience:  getInt(tbl, "xp", 0),
		Gold:        getInt(tbl, "gold", 0),
		Items:       getStrings(tbl, "items"),
	}
}

func compileNPC(raw rawDef) (types.NPCDef, error) {
	tbl := raw.table
	npc := types.NPCDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Position: getVec(tbl, "at", types.Vec2{}),
		Range:    getNumber(tbl, "range", 0),
		Prompt:   getString(tbl, "prompt"),
	}

	lines := getTable(tbl, "lines")
	if lines == nil {
		return npc, nil
	}
	for i := 1; i <= lines.MaxN(); i++ {
		switch v := lines.RawGetInt(i).(type) {
		case lua.LString:
			npc.Lines = append(npc.Lines, types.DialogueLine{Text: string(v)})
		case *lua.LTable:
			npc.Lines = append(npc.Lines, compileLine(v))
		default:
			return npc, fmt.Errorf("line %d: expected table or string", i)
		}
	}
	return npc, nil
}

func compileLine(tbl *lua.LTable) types.DialogueLine {
	line := types.DialogueLine{Text: getString(tbl, "text")}
	if req := getTable(tbl, "requires"); req != nil {
		line.Requires = compileConditions(req)
	}
	if eff := getTable(tbl, "effects"); eff != nil {
		line.Effects = compileEffects(eff)
	}
	if opts := getTable(tbl, "options"); opts != nil {
		for i := 1; i <= opts.MaxN(); i++ {
			o, ok := opts.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			// Lua lines are 1-based; a missing next ends the conversation.
			line.Options = append(line.Options, types.DialogueOption{
				Text: getString(o, "text"),
				Next: getInt(o, "next", 0) - 1,
			})
		}
	}
	return line
}

func compileArea(raw rawDef) types.AreaDef {
	tbl := raw.table
	return types.AreaDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Position: getVec(tbl, "at", types.Vec2{}),
		Radius:   getNumber(tbl, "radius", 3),
	}
}

func compileRule(raw rawRule) types.RuleDef {
	rule := types.RuleDef{
		ID:          raw.id,
		When:        compileMatchCriteria(raw.when),
		Effects:     compileEffects(raw.then),
		Priority:    getInt(raw.when, "priority", 0),
		SourceOrder: raw.order,
	}
	if raw.conditions != nil {
		rule.Conditions = compileConditions(raw.conditions)
	}
	return rule
}

// compileMatchCriteria splits a When table into the event type and the
// data fields it must match. priority is a ranking hint, not a field.
func compileMatchCriteria(tbl *lua.LTable) types.MatchCriteria {
	mc := types.MatchCriteria{Event: getString(tbl, "event")}
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok || key == "event" || key == "priority" {
			return
		}
		if mc.Fields == nil {
			mc.Fields = map[string]any{}
		}
		mc.Fields[string(key)] = toGoValue(v)
	})
	return mc
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	for i := 1; i <= tbl.MaxN(); i++ {
		if condTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	}
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{Type: "not", Inner: &inner}
		}
	}

	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && ks != "type" {
			params[string(ks)] = toGoValue(v)
		}
	})
	return types.Condition{Type: condType, Params: params}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for i := 1; i <= tbl.MaxN(); i++ {
		if effTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	}
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && ks != "type" {
			params[string(ks)] = toGoValue(v)
		}
	})
	return types.Effect{Type: getString(tbl, "type"), Params: params}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest sorted
// alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
