package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":          true,
	"give_item":    true,
	"remove_item":  true,
	"add_gold":     true,
	"add_xp":       true,
	"heal":         true,
	"restore_mana": true,
	"start_quest":  true,
	"set_flag":     true,
	"emit_event":   true,
	"stop":         true,
}

// Known condition types.
var validConditionTypes = map[string]bool{
	"has_item":       true,
	"quest_active":   true,
	"quest_done":     true,
	"level_at_least": true,
	"gold_at_least":  true,
	"flag_set":       true,
	"flag_not":       true,
	"not":            true,
}

// Equipment slots the inventory knows.
var validSlots = map[string]bool{
	"weapon": true, "armor": true, "helmet": true, "gloves": true, "boots": true,
}

// validate checks the compiled defs for referential integrity and
// consistency. Warnings are returned even when validation passes.
func validate(defs *state.Defs) ([]string, error) {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	validateCombat(defs.Game.Combat, ve)

	if defs.Player.Stats.MaxHealth <= 0 {
		ve.errorf("player health must be positive")
	}
	for _, id := range defs.Player.Items {
		if _, ok := defs.Items[id]; !ok {
			ve.errorf("player starting item %q is not defined", id)
		}
	}

	kinds := map[string]bool{}
	for _, id := range defs.EnemyIDs() {
		e := defs.Enemies[id]
		kinds[e.Kind] = true
		if e.Stats.MaxHealth <= 0 {
			ve.errorf("enemy %q health must be positive", id)
		}
		if e.AttackRange < 0 || e.DetectionRange < 0 {
			ve.errorf("enemy %q ranges must not be negative", id)
		}
		if e.DetectionRange < e.AttackRange {
			ve.warnf("enemy %q detection range %.1f is shorter than its attack range %.1f",
				id, e.DetectionRange, e.AttackRange)
		}
	}

	for _, id := range sortedIDs(defs.Items) {
		it := defs.Items[id]
		switch it.Kind {
		case types.ItemEquipment:
			if !validSlots[it.Slot] {
				ve.errorf("item %q has unknown equipment slot %q", id, it.Slot)
			}
		case types.ItemConsumable:
			if it.Heal <= 0 && it.Mana <= 0 {
				ve.warnf("consumable %q restores nothing", id)
			}
		case types.ItemQuest, types.ItemMaterial:
		default:
			ve.errorf("item %q has unknown kind %q", id, it.Kind)
		}
	}

	for _, id := range sortedIDs(defs.Quests) {
		validateQuest(defs.Quests[id], defs, kinds, ve)
	}

	for _, id := range defs.NPCIDs() {
		npc := defs.NPCs[id]
		if len(npc.Lines) == 0 {
			ve.warnf("NPC %q has no dialogue", id)
		}
		for i, line := range npc.Lines {
			validateConditions(line.Requires, defs, ve)
			validateEffects(line.Effects, defs, ve)
			for _, opt := range line.Options {
				if opt.Next >= len(npc.Lines) {
					ve.errorf("NPC %q line %d option %q jumps to missing line %d",
						id, i+1, opt.Text, opt.Next+1)
				}
			}
		}
	}

	for _, id := range defs.AreaIDs() {
		if defs.Areas[id].Radius <= 0 {
			ve.errorf("area %q radius must be positive", id)
		}
	}

	ruleIDs := map[string]bool{}
	for _, rule := range defs.Rules {
		if ruleIDs[rule.ID] {
			ve.errorf("duplicate rule ID %q", rule.ID)
		}
		ruleIDs[rule.ID] = true
		if rule.When.Event == "" {
			ve.errorf("rule %q has no event to react to", rule.ID)
		}
		validateConditions(rule.Conditions, defs, ve)
		validateEffects(rule.Effects, defs, ve)
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateCombat(r types.CombatRules, ve *ValidationError) {
	if r.FleeChance < 0 || r.FleeChance > 1 {
		ve.errorf("combat flee_chance %.2f is outside [0, 1]", r.FleeChance)
	}
	if r.CritChance < 0 || r.CritChance > 1 {
		ve.errorf("combat crit_chance %.2f is outside [0, 1]", r.CritChance)
	}
	if r.SkillCost < 0 {
		ve.errorf("combat skill_cost must not be negative")
	}
	if r.StartDelay < 0 || r.TurnDelay < 0 || r.VictoryDelay < 0 || r.RespawnDelay < 0 {
		ve.errorf("combat delays must not be negative")
	}
}

func validateQuest(q types.QuestDef, defs *state.Defs, kinds map[string]bool, ve *ValidationError) {
	switch q.Type {
	case types.QuestKill:
		if !kinds[q.Target] {
			ve.warnf("quest %q targets enemy kind %q that no enemy has", q.ID, q.Target)
		}
	case types.QuestCollect:
		if _, ok := defs.Items[q.Target]; !ok {
			ve.errorf("quest %q targets undefined item %q", q.ID, q.Target)
		}
	case types.QuestTalk:
		if _, ok := defs.NPCs[q.Target]; !ok {
			ve.errorf("quest %q targets undefined NPC %q", q.ID, q.Target)
		}
	case types.QuestExplore:
		if _, ok := defs.Areas[q.Target]; !ok {
			ve.errorf("quest %q targets undefined area %q", q.ID, q.Target)
		}
	default:
		ve.errorf("quest %q has unknown type %q", q.ID, q.Type)
	}
	if q.Required < 0 {
		ve.errorf("quest %q count must not be negative", q.ID)
	}
	for _, item := range q.Items {
		if _, ok := defs.Items[item]; !ok {
			ve.errorf("quest %q rewards undefined item %q", q.ID, item)
		}
	}
}

func validateConditions(conditions []types.Condition, defs *state.Defs, ve *ValidationError) {
	for _, cond := range conditions {
		if !validConditionTypes[cond.Type] {
			ve.errorf("unknown condition type %q", cond.Type)
		}

		switch cond.Type {
		case "has_item":
			if item, ok := cond.Params["item"].(string); ok && !isTemplate(item) {
				if _, ok := defs.Items[item]; !ok {
					ve.errorf("condition has_item references undefined item %q", item)
				}
			}
		case "quest_active", "quest_done":
			if quest, ok := cond.Params["quest"].(string); ok {
				if _, ok := defs.Quests[quest]; !ok {
					ve.errorf("condition %s references undefined quest %q", cond.Type, quest)
				}
			}
		case "not":
			if cond.Inner != nil {
				validateConditions([]types.Condition{*cond.Inner}, defs, ve)
			}
		}
	}
}

func validateEffects(effects []types.Effect, defs *state.Defs, ve *ValidationError) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			ve.errorf("unknown effect type %q", eff.Type)
		}

		switch eff.Type {
		case "give_item", "remove_item":
			if item, ok := eff.Params["item"].(string); ok && !isTemplate(item) {
				if _, ok := defs.Items[item]; !ok {
					ve.errorf("effect %s references undefined item %q", eff.Type, item)
				}
			}
		case "start_quest":
			if quest, ok := eff.Params["quest"].(string); ok {
				if _, ok := defs.Quests[quest]; !ok {
					ve.errorf("effect start_quest references undefined quest %q", quest)
				}
			}
		case "emit_event":
			if ev, _ := eff.Params["event"].(string); ev == "" {
				ve.errorf("effect emit_event has no event type")
			}
		}
	}
}

// isTemplate returns true if the string contains a template variable.
func isTemplate(s string) bool {
	return strings.Contains(s, "{") && strings.Contains(s, "}")
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
