// Package state holds the immutable game definitions loaded from content,
// plus lookup helpers and default tuning.
package state

import (
	"sort"

	"github.com/nathoo/emberkeep/types"
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game    types.GameDef
	Player  types.PlayerDef
	Enemies map[string]types.EnemyDef
	Items   map[string]types.ItemDef
	Quests  map[string]types.QuestDef
	NPCs    map[string]types.NPCDef
	Areas   map[string]types.AreaDef
	Rules   []types.RuleDef
}

// DefaultCombatRules returns the stock combat tuning.
func DefaultCombatRules() types.CombatRules {
	return types.CombatRules{
		StartDelay:   2,
		TurnDelay:    1.5,
		VictoryDelay: 2,
		RespawnDelay: 3,
		SkillName:    "Arcane Bolt",
		SkillCost:    10,
		FleeChance:   0.5,
		CritChance:   0.1,
	}
}

// DefaultPlayer returns the stock player configuration.
func DefaultPlayer() types.PlayerDef {
	return types.PlayerDef{
		Name: "Hero",
		Stats: types.Stats{
			MaxHealth: 100,
			MaxMana:   50,
			Attack:    10,
			Defense:   5,
			Magic:     8,
		},
		MoveSpeed:      5,
		AttackReach:    2,
		InventorySlots: 20,
	}
}

// NewDefs returns empty definitions with default rules and player.
func NewDefs() *Defs {
	return &Defs{
		Game:    types.GameDef{Combat: DefaultCombatRules()},
		Player:  DefaultPlayer(),
		Enemies: map[string]types.EnemyDef{},
		Items:   map[string]types.ItemDef{},
		Quests:  map[string]types.QuestDef{},
		NPCs:    map[string]types.NPCDef{},
		Areas:   map[string]types.AreaDef{},
	}
}

// Item returns an item definition.
func (d *Defs) Item(id string) (types.ItemDef, bool) {
	it, ok := d.Items[id]
	return it, ok
}

// ItemName returns the display name of an item, or its ID if unnamed.
func (d *Defs) ItemName(id string) string {
	if it, ok := d.Items[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

// QuestTitle returns the display title of a quest, or its ID if untitled.
func (d *Defs) QuestTitle(id string) string {
	if q, ok := d.Quests[id]; ok && q.Title != "" {
		return q.Title
	}
	return id
}

// NPCName returns the display name of an NPC, or its ID if unnamed.
func (d *Defs) NPCName(id string) string {
	if n, ok := d.NPCs[id]; ok && n.Name != "" {
		return n.Name
	}
	return id
}

// AreaName returns the display name of an area, or its ID if unnamed.
func (d *Defs) AreaName(id string) string {
	if a, ok := d.Areas[id]; ok && a.Name != "" {
		return a.Name
	}
	return id
}

// EnemyIDs returns all enemy IDs in sorted order.
func (d *Defs) EnemyIDs() []string {
	return sortedKeys(d.Enemies)
}

// AreaIDs returns all area IDs in sorted order.
func (d *Defs) AreaIDs() []string {
	return sortedKeys(d.Areas)
}

// NPCIDs returns all NPC IDs in sorted order.
func (d *Defs) NPCIDs() []string {
	return sortedKeys(d.NPCs)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
