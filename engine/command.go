package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nathoo/emberkeep/engine/ai"
	"github.com/nathoo/emberkeep/engine/combat"
	"github.com/nathoo/emberkeep/engine/parser"
	"github.com/nathoo/emberkeep/engine/resolve"
	"github.com/nathoo/emberkeep/types"
)

// Reply is what a typed command produced besides notifier output.
type Reply struct {
	Output []string // listings: look, stats, quests, inventory, help
	Wait   float64  // seconds the player asked to let pass
	Quit   bool
}

// lookRadius bounds which enemies "look" reports.
const lookRadius = 15.0

// Command parses one typed command, queues the input it maps to and
// returns any listing it asked for. Queued inputs take effect on the
// next Tick.
func (e *Engine) Command(line string) Reply {
	var r Reply
	cmd := parser.Parse(line)

	// Commands that work in every mode.
	switch cmd.Verb {
	case "":
		r.say("What do you want to do?")
		return r
	case "quit":
		r.Quit = true
		return r
	case "help":
		r.Output = helpText(e.mode)
		return r
	}

	switch e.mode {
	case types.ModeMenu:
		if cmd.Verb != "start" {
			r.say("Type 'start' to begin.")
			return r
		}
		e.Submit(types.Input{Kind: types.InputStart})
		return r
	case types.ModePaused:
		if cmd.Verb != "resume" && cmd.Verb != "pause" {
			r.say("The game is paused. Type 'resume' to continue.")
			return r
		}
		e.Submit(types.Input{Kind: types.InputResume})
		return r
	case types.ModeCombat:
		return e.combatCommand(cmd)
	}
	return e.worldCommand(cmd)
}

func (e *Engine) combatCommand(cmd parser.Command) Reply {
	var r Reply
	switch cmd.Verb {
	case "attack":
		e.Submit(types.Input{Kind: types.InputAttack})
	case "skill":
		e.Submit(types.Input{Kind: types.InputSkill})
	case "flee", "go":
		e.Submit(types.Input{Kind: types.InputFlee})
	case "use":
		id, err := e.bagItem(cmd.Object)
		if err != nil {
			r.say(errText(err))
			return r
		}
		e.Submit(types.Input{Kind: types.InputItem, Item: id})
	case "pause":
		e.Submit(types.Input{Kind: types.InputPause})
	case "wait":
		r.Wait = waitSeconds(cmd)
	case "look":
		r.Output = e.describeCombat()
	case "stats":
		r.Output = e.statsLines()
	case "inventory":
		r.Output = e.inventoryLines()
	default:
		r.say("You're in the middle of a fight! (attack, skill, use <item>, flee)")
	}
	return r
}

func (e *Engine) worldCommand(cmd parser.Command) Reply {
	var r Reply
	switch cmd.Verb {
	case "go":
		dir, ok := parser.Directions[cmd.Object]
		if !ok {
			r.say("Go where? (north, south, east, west...)")
			return r
		}
		dist := 1.0
		if cmd.HasNumber && cmd.Number > 0 {
			dist = cmd.Number
		}
		e.Submit(types.Input{Kind: types.InputMove, Dir: dir, Dist: dist})
	case "wait":
		r.Wait = waitSeconds(cmd)
	case "attack":
		e.Submit(types.Input{Kind: types.InputAttack})
	case "skill", "flee":
		r.say("You are not in combat.")
	case "talk":
		in := types.Input{Kind: types.InputInteract}
		if cmd.Object != "" {
			id, err := resolve.Resolve(cmd.Object, resolve.NPCs(e.Defs, e.NearbyNPCs()))
			if err != nil {
				r.say(errText(err))
				return r
			}
			in.Target = id
		}
		e.Submit(in)
	case "next":
		e.Submit(types.Input{Kind: types.InputInteract})
	case "choose":
		if !cmd.HasNumber || cmd.Number < 1 {
			r.say("Choose which option?")
			return r
		}
		e.Submit(types.Input{Kind: types.InputChoose, Option: int(cmd.Number) - 1})
	case "leave":
		e.Submit(types.Input{Kind: types.InputLeave})
	case "use":
		id, err := e.bagItem(cmd.Object)
		if err != nil {
			r.say(errText(err))
			return r
		}
		e.Submit(types.Input{Kind: types.InputItem, Item: id})
	case "equip":
		if cmd.Object == "" {
			r.say("Equip what?")
			return r
		}
		id, err := e.bagItem(cmd.Object)
		if err != nil {
			r.say(errText(err))
			return r
		}
		e.Submit(types.Input{Kind: types.InputEquip, Item: id})
	case "unequip":
		slot, err := e.equippedSlot(cmd.Object)
		if err != nil {
			r.say(errText(err))
			return r
		}
		e.Submit(types.Input{Kind: types.InputUnequip, Slot: slot})
	case "pause":
		e.Submit(types.Input{Kind: types.InputPause})
	case "look":
		r.Output = e.describe()
	case "stats":
		r.Output = e.statsLines()
	case "quests":
		r.Output = e.questLines()
	case "inventory":
		r.Output = e.inventoryLines()
	case "start", "resume":
		r.say("You are already playing.")
	default:
		r.say("I don't understand that.")
	}
	return r
}

func (r *Reply) say(s string) { r.Output = append(r.Output, s) }

// bagItem resolves a typed name against the bag. An empty name means the
// first consumable and is resolved by the engine.
func (e *Engine) bagItem(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	id, err := resolve.Resolve(name, resolve.Items(e.Defs, e.Inventory.Items()))
	var nf *resolve.NotFoundError
	if errors.As(err, &nf) {
		return "", fmt.Errorf("you don't have %q", name)
	}
	return id, err
}

// equippedSlot accepts a slot name or the name of an equipped item.
func (e *Engine) equippedSlot(name string) (string, error) {
	if name == "" {
		return "", errors.New("unequip what?")
	}
	if e.Inventory.Equipped(name) != "" {
		return name, nil
	}
	var worn []string
	for _, slot := range e.Inventory.EquippedSlots() {
		worn = append(worn, e.Inventory.Equipped(slot))
	}
	id, err := resolve.Resolve(name, resolve.Items(e.Defs, worn))
	if err != nil {
		return "", fmt.Errorf("you aren't wearing %q", name)
	}
	return e.Defs.Items[id].Slot, nil
}

func waitSeconds(cmd parser.Command) float64 {
	if cmd.HasNumber && cmd.Number > 0 {
		return cmd.Number
	}
	return 1
}

// errText capitalizes an error for display.
func errText(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (e *Engine) describe() []string {
	pos := e.Player.Position
	out := []string{fmt.Sprintf("You stand at (%.1f, %.1f).", pos.X, pos.Y)}

	for _, id := range e.Defs.AreaIDs() {
		if e.inArea[id] {
			out = append(out, fmt.Sprintf("You are in %s.", e.Defs.AreaName(id)))
		}
	}
	for _, id := range e.NearbyNPCs() {
		out = append(out, fmt.Sprintf("%s is here.", e.Defs.NPCName(id)))
	}
	for _, id := range e.Defs.EnemyIDs() {
		en := e.Enemies[id]
		if en.IsDead() {
			continue
		}
		d := ai.Distance(pos, en.Position)
		if d > lookRadius {
			continue
		}
		out = append(out, fmt.Sprintf("%s (%s) is %.1f to the %s.",
			en.Name, e.EnemyState(id), d, compass(pos, en.Position)))
	}
	if len(out) == 1 {
		out = append(out, "Nothing stirs nearby.")
	}
	return out
}

func (e *Engine) describeCombat() []string {
	s := e.Combat.Session()
	if s == nil {
		return nil
	}
	out := []string{fmt.Sprintf("Fighting %s: %d/%d HP. Round %d.",
		s.Enemy.Name, s.Enemy.Health, s.Enemy.MaxHealth(), s.Round)}
	switch s.Phase {
	case combat.PlayerTurn:
		out = append(out, "It is your turn.")
	case combat.EnemyTurn:
		out = append(out, fmt.Sprintf("%s is about to strike.", s.Enemy.Name))
	}
	return out
}

func (e *Engine) statsLines() []string {
	p := e.Player
	out := []string{
		fmt.Sprintf("%s, level %d", p.Name, p.Level),
		fmt.Sprintf("HP %d/%d  MP %d/%d", p.Health, p.MaxHealth(), p.Mana, p.MaxMana()),
		fmt.Sprintf("XP %d/%d  Gold %d", p.Experience, p.RequiredExperience(), p.Gold),
		fmt.Sprintf("Attack %d  Defense %d  Magic %d", p.Attack(), p.Defense(), p.Magic()),
	}
	for _, slot := range e.Inventory.EquippedSlots() {
		out = append(out, fmt.Sprintf("  %s: %s", slot, e.Defs.ItemName(e.Inventory.Equipped(slot))))
	}
	return out
}

func (e *Engine) questLines() []string {
	entries := e.Quests.Entries()
	if len(entries) == 0 {
		return []string{"You have no quests."}
	}
	var out []string
	for _, q := range entries {
		def := e.Defs.Quests[q.ID]
		status := fmt.Sprintf("%d/%d", q.Progress, def.Required)
		if q.Done {
			status = "done"
		}
		out = append(out, fmt.Sprintf("%s [%s]", e.Defs.QuestTitle(q.ID), status))
	}
	return out
}

func (e *Engine) inventoryLines() []string {
	items := e.Inventory.Items()
	if len(items) == 0 {
		return []string{"Your bag is empty."}
	}
	out := []string{fmt.Sprintf("Bag (%d/%d):", e.Inventory.Len(), e.Inventory.Slots())}
	seen := map[string]bool{}
	for _, id := range items {
		if seen[id] {
			continue
		}
		seen[id] = true
		line := "  " + e.Defs.ItemName(id)
		if n := e.Inventory.Count(id); n > 1 {
			line += fmt.Sprintf(" x%d", n)
		}
		out = append(out, line)
	}
	return out
}

// compass names the eighth of the circle that to lies in, seen from from.
func compass(from, to types.Vec2) string {
	names := [...]string{"east", "northeast", "north", "northwest", "west", "southwest", "south", "southeast"}
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	i := int(math.Round(angle/(math.Pi/4))+8) % 8
	return names[i]
}

func helpText(m types.Mode) []string {
	switch m {
	case types.ModeMenu:
		return []string{"start  begin the game", "quit   leave"}
	case types.ModeCombat:
		return []string{
			"attack           strike the enemy",
			"skill            cast your skill (costs mana)",
			"use [item]       drink a potion; no name uses the first one",
			"flee             try to run away",
			"look, stats      check the fight",
		}
	}
	return []string{
		"n/s/e/w [dist]   walk (also go <direction>)",
		"wait [seconds]   let time pass",
		"attack           attack the nearest enemy in reach",
		"talk [name]      talk to someone nearby; next, choose <n>, leave",
		"use, equip, unequip <item>",
		"look, stats, quests, inventory",
		"pause, resume, quit",
	}
}
