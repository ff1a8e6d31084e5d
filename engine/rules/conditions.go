// Package rules evaluates content conditions and selects the rule that
// reacts to a game event.
package rules

import "github.com/nathoo/emberkeep/types"

// Facts is the read-only view of game state that conditions inspect.
type Facts interface {
	HasItem(id string) bool
	QuestActive(id string) bool
	QuestDone(id string) bool
	Level() int
	Gold() int
	Flag(name string) bool
}

// EvalCondition evaluates a single condition against the current state.
func EvalCondition(c types.Condition, f Facts) bool {
	switch c.Type {
	case "has_item":
		item, _ := c.Params["item"].(string)
		return f.HasItem(item)

	case "quest_active":
		quest, _ := c.Params["quest"].(string)
		return f.QuestActive(quest)

	case "quest_done":
		quest, _ := c.Params["quest"].(string)
		return f.QuestDone(quest)

	case "level_at_least":
		return f.Level() >= toInt(c.Params["level"])

	case "gold_at_least":
		return f.Gold() >= toInt(c.Params["amount"])

	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return f.Flag(flag)

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return !f.Flag(flag)

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, f)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, f Facts) bool {
	for _, c := range conditions {
		if !EvalCondition(c, f) {
			return false
		}
	}
	return true
}

// toInt converts an any value to int, handling float64 from Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
