// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/emberkeep/engine/actor"
	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/inventory"
	"github.com/nathoo/emberkeep/engine/quest"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// World is the mutable game state effects operate on.
type World struct {
	Defs      *state.Defs
	Player    *actor.Player
	Inventory *inventory.Inventory
	Quests    *quest.Log
	Flags     map[string]bool
}

// Context carries the entities an effect list was triggered for, used for
// template interpolation.
type Context struct {
	NPC   string
	Enemy string
	Item  string
}

// Apply applies a list of effects to the world, mutating it.
// Returns events emitted and output text collected.
func Apply(w *World, effects []types.Effect, ctx Context) ([]types.Event, []string) {
	var evts []types.Event
	var output []string

	for _, eff := range effects {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, interpolate(text, w, ctx))

		case "give_item":
			item := resolveTemplate(str(eff.Params["item"]), ctx)
			if w.Inventory == nil || !w.Inventory.Add(item) {
				continue
			}
			output = append(output, fmt.Sprintf("You receive the %s.", w.Defs.ItemName(item)))
			evts = append(evts, types.Event{
				Type: events.ItemTaken,
				Data: map[string]any{"item": item},
			})

		case "remove_item":
			item := resolveTemplate(str(eff.Params["item"]), ctx)
			if w.Inventory == nil || !w.Inventory.Remove(item) {
				continue
			}
			evts = append(evts, types.Event{
				Type: events.ItemDropped,
				Data: map[string]any{"item": item},
			})

		case "add_gold":
			amount := toInt(eff.Params["amount"])
			if amount <= 0 {
				continue
			}
			w.Player.AddGold(amount)
			output = append(output, fmt.Sprintf("You receive %d gold.", amount))

		case "add_xp":
			amount := toInt(eff.Params["amount"])
			if amount <= 0 {
				continue
			}
			levels := w.Player.AddExperience(amount)
			output = append(output, fmt.Sprintf("You gain %d experience.", amount))
			if levels > 0 {
				output = append(output, fmt.Sprintf("Level up! You are now level %d.", w.Player.Level))
				evts = append(evts, types.Event{
					Type: events.LevelUp,
					Data: map[string]any{"level": w.Player.Level},
				})
			}

		case "heal":
			w.Player.Heal(toInt(eff.Params["amount"]))

		case "restore_mana":
			w.Player.RestoreMana(toInt(eff.Params["amount"]))

		case "start_quest":
			id := str(eff.Params["quest"])
			if w.Quests == nil || !w.Quests.Accept(id) {
				continue
			}
			evts = append(evts, types.Event{
				Type: events.QuestAccepted,
				Data: map[string]any{"quest": id},
			})

		case "set_flag":
			flag := str(eff.Params["flag"])
			value, _ := eff.Params["value"].(bool)
			w.Flags[flag] = value
			evts = append(evts, types.Event{
				Type: events.FlagChanged,
				Data: map[string]any{"flag": flag, "value": value},
			})

		case "emit_event":
			data := map[string]any{}
			for k, v := range eff.Params {
				if k != "event" {
					data[k] = v
				}
			}
			evts = append(evts, types.Event{
				Type: str(eff.Params["event"]),
				Data: data,
			})

		case "stop":
			return evts, output

		default:
			// Unknown effect types are ignored.
		}
	}

	return evts, output
}

// interpolate replaces template variables in text.
func interpolate(text string, w *World, ctx Context) string {
	if !strings.Contains(text, "{") {
		return text
	}
	p := w.Player
	r := strings.NewReplacer(
		"{player.name}", p.Name,
		"{player.level}", strconv.Itoa(p.Level),
		"{player.gold}", strconv.Itoa(p.Gold),
		"{npc.name}", w.Defs.NPCName(ctx.NPC),
		"{item.name}", w.Defs.ItemName(ctx.Item),
		"{npc}", ctx.NPC,
		"{enemy}", ctx.Enemy,
		"{item}", ctx.Item,
	)
	return r.Replace(text)
}

// resolveTemplate handles {item} and {npc} in effect params like GiveItem("{item}").
func resolveTemplate(s string, ctx Context) string {
	s = strings.ReplaceAll(s, "{item}", ctx.Item)
	s = strings.ReplaceAll(s, "{npc}", ctx.NPC)
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

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
