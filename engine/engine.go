// Package engine provides the tick-driven orchestrator that wires together
// input, the game clock, enemy AI, combat, dialogue, quests, effects and
// events into one single-threaded game loop.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nathoo/emberkeep/engine/actor"
	"github.com/nathoo/emberkeep/engine/ai"
	"github.com/nathoo/emberkeep/engine/combat"
	"github.com/nathoo/emberkeep/engine/dialogue"
	"github.com/nathoo/emberkeep/engine/effects"
	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/inventory"
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/engine/quest"
	"github.com/nathoo/emberkeep/engine/rng"
	"github.com/nathoo/emberkeep/engine/rules"
	"github.com/nathoo/emberkeep/engine/sched"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// Collision endpoints reported by the host or the proximity pass.
const (
	PlayerID       = "player"
	PlayerAttackID = "player_attack"
)

// defaultNPCRange is the talk radius for NPCs that do not set one.
const defaultNPCRange = 3.0

// Options configures a new Engine.
type Options struct {
	Seed   int64
	UI     notify.Notifier
	Logger *slog.Logger
}

// Engine holds the game definitions and every runtime subsystem. All
// mutation happens on the goroutine that calls Submit, Tick and
// OnCollision.
type Engine struct {
	Defs      *state.Defs
	Player    *actor.Player
	Enemies   map[string]*actor.Enemy
	Inventory *inventory.Inventory
	Quests    *quest.Log
	Dialogue  *dialogue.Runner
	Combat    *combat.Controller
	Bus       *events.Bus
	Clock     *sched.Queue
	RNG       *rng.RNG
	Flags     map[string]bool

	ui  notify.Notifier
	log *slog.Logger

	mode     types.Mode
	resume   types.Mode
	started  bool
	inputs   []types.Input
	brains   map[string]*ai.Brain
	nearNPC  map[string]bool
	inArea   map[string]bool
	world    *effects.World
	lastTick float64
}

// New creates an engine from definitions. The engine starts in Menu mode;
// call Init to show the main menu.
func New(defs *state.Defs, opts Options) *Engine {
	ui := opts.UI
	if ui == nil {
		ui = notify.Nop{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		Defs:    defs,
		Flags:   map[string]bool{},
		Bus:     events.NewBus(),
		Clock:   sched.New(),
		RNG:     rng.New(opts.Seed),
		ui:      ui,
		log:     log,
		mode:    types.ModeMenu,
		brains:  map[string]*ai.Brain{},
		nearNPC: map[string]bool{},
		inArea:  map[string]bool{},
	}

	e.Player = actor.NewPlayer(defs.Player)
	e.Enemies = make(map[string]*actor.Enemy, len(defs.Enemies))
	for _, id := range defs.EnemyIDs() {
		e.Enemies[id] = actor.NewEnemy(defs.Enemies[id])
		e.brains[id] = ai.NewBrain(e.RNG, log)
	}
	e.Inventory = inventory.New(defs, e.Player, e.Bus, ui)
	e.Quests = quest.New(defs, ui, log)
	e.Dialogue = dialogue.NewRunner(defs, e)
	e.Combat = combat.NewController(combat.Config{
		Rules:  defs.Game.Combat,
		RNG:    e.RNG,
		Queue:  e.Clock,
		Bus:    e.Bus,
		UI:     ui,
		Items:  e.Inventory,
		Logger: log,
	})
	e.world = &effects.World{
		Defs:      defs,
		Player:    e.Player,
		Inventory: e.Inventory,
		Quests:    e.Quests,
		Flags:     e.Flags,
	}

	e.Bus.SubscribeAll(e.Quests.Handle)
	if len(defs.Rules) > 0 {
		e.Bus.SubscribeAll(rules.Handler(defs.Rules, e))
	}
	e.Bus.Subscribe(events.CombatEnded, e.onCombatEnded)
	e.Bus.Subscribe(events.LevelUp, func(types.Event) []types.Effect {
		e.pushStats()
		return nil
	})

	return e
}

// Init shows the main menu.
func (e *Engine) Init() {
	if e.Defs.Game.Title != "" {
		e.ui.Message(e.Defs.Game.Title)
	}
	e.ui.HidePanel(types.PanelHUD)
	e.ui.ShowPanel(types.PanelMainMenu)
}

// Mode returns the current game mode.
func (e *Engine) Mode() types.Mode { return e.mode }

// Now returns the game clock.
func (e *Engine) Now() time.Duration { return e.Clock.Now() }

// Submit queues an input. One input is consumed per Tick, in order.
func (e *Engine) Submit(in types.Input) {
	e.inputs = append(e.inputs, in)
}

// Pending returns the number of queued inputs.
func (e *Engine) Pending() int { return len(e.inputs) }

// Running reports whether world time advances: the game is being played
// (or fought) and the inventory is closed.
func (e *Engine) Running() bool {
	if e.Inventory.IsOpen() {
		return false
	}
	return e.mode == types.ModePlaying || e.mode == types.ModeCombat
}

// Tick advances the game by dt seconds: consume one input, advance the
// clock and timers, run enemy AI and proximity triggers, then drain the
// event bus once and apply the resulting effects.
func (e *Engine) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	e.lastTick = dt

	if len(e.inputs) > 0 {
		in := e.inputs[0]
		e.inputs = e.inputs[1:]
		e.handle(in)
	}

	if e.Running() {
		e.Clock.Advance(sched.Seconds(dt))
		if e.mode == types.ModePlaying {
			e.runAI(dt)
			e.proximity()
		}
	}

	e.drain()
}

// StartGame leaves the menu. The first start hands out the starting items;
// later starts continue with the respawned player.
func (e *Engine) StartGame() {
	if e.mode != types.ModeMenu {
		return
	}
	if !e.started {
		e.started = true
		for _, id := range e.Defs.Player.Items {
			e.Inventory.Add(id)
		}
		if e.Defs.Game.Intro != "" {
			e.ui.Message(e.Defs.Game.Intro)
		}
	}
	e.Player.Position = e.Player.Spawn()
	e.setMode(types.ModePlaying)
	e.pushStats()
}

// OnCollision handles a trigger overlap. Enemy hits start combat, NPC
// overlaps open or close the talk prompt, area overlaps drive explore
// quests.
func (e *Engine) OnCollision(c types.Collision) {
	if c.A != PlayerID && c.A != PlayerAttackID {
		return
	}

	if _, ok := e.Enemies[c.B]; ok {
		if c.Enter {
			e.engage(c.B)
		}
		return
	}

	if c.A != PlayerID {
		return
	}

	if _, ok := e.Defs.NPCs[c.B]; ok {
		e.nearNPC[c.B] = c.Enter
		if c.Enter {
			e.ui.Message(e.prompt(c.B))
		} else if e.Dialogue.NPC() == c.B {
			e.endDialogue()
		}
		return
	}

	if _, ok := e.Defs.Areas[c.B]; ok {
		was := e.inArea[c.B]
		e.inArea[c.B] = c.Enter
		if c.Enter && !was {
			e.ui.Message(fmt.Sprintf("You enter %s.", e.Defs.AreaName(c.B)))
			e.Bus.Publish(types.Event{Type: events.AreaEntered, Data: map[string]any{"area": c.B}})
		}
	}
}

// NearbyNPCs returns the NPCs whose talk radius contains the player, in ID
// order.
func (e *Engine) NearbyNPCs() []string {
	var out []string
	for _, id := range e.Defs.NPCIDs() {
		if e.nearNPC[id] {
			out = append(out, id)
		}
	}
	return out
}

// EnemyState returns the behavior state chosen on the last AI pass.
func (e *Engine) EnemyState(id string) ai.State {
	if b, ok := e.brains[id]; ok {
		return b.State()
	}
	return ai.Dead
}

// Facts for conditions.

func (e *Engine) HasItem(id string) bool     { return e.Inventory.Has(id) }
func (e *Engine) QuestActive(id string) bool { return e.Quests.Active(id) }
func (e *Engine) QuestDone(id string) bool   { return e.Quests.Done(id) }
func (e *Engine) Level() int                 { return e.Player.Level }
func (e *Engine) Gold() int                  { return e.Player.Gold }
func (e *Engine) Flag(name string) bool      { return e.Flags[name] }

func (e *Engine) handle(in types.Input) {
	switch e.mode {
	case types.ModeMenu:
		if in.Kind == types.InputStart {
			e.StartGame()
		}
	case types.ModePaused:
		if in.Kind == types.InputResume || in.Kind == types.InputPause {
			e.unpause()
		}
	case types.ModeCombat:
		e.handleCombat(in)
	case types.ModePlaying:
		e.handlePlaying(in)
	}
}

func (e *Engine) handleCombat(in types.Input) {
	switch in.Kind {
	case types.InputAttack:
		e.Combat.Submit(types.Action{Kind: types.ActionAttack})
	case types.InputSkill:
		e.Combat.Submit(types.Action{Kind: types.ActionSkill})
	case types.InputFlee:
		e.Combat.Submit(types.Action{Kind: types.ActionFlee})
	case types.InputItem:
		id := in.Item
		if id == "" {
			id = e.Inventory.FirstConsumable()
		}
		e.Combat.Submit(types.Action{Kind: types.ActionItem, Item: id})
	case types.InputPause:
		e.pause()
	case types.InputInventory:
		e.ui.Message("Not during combat.")
	}
}

func (e *Engine) handlePlaying(in types.Input) {
	// While the bag is open only item handling, closing it and pausing
	// are accepted.
	if e.Inventory.IsOpen() {
		switch in.Kind {
		case types.InputInventory:
			e.Inventory.Toggle()
		case types.InputItem:
			e.Inventory.Use(in.Item)
		case types.InputEquip:
			e.Inventory.Equip(in.Item)
		case types.InputUnequip:
			e.Inventory.Unequip(in.Slot)
		case types.InputPause:
			e.pause()
		}
		return
	}

	switch in.Kind {
	case types.InputMove:
		e.move(in)
	case types.InputAttack:
		e.attackNearest()
	case types.InputInteract:
		if in.Target != "" && !e.Dialogue.Active() {
			e.Talk(in.Target)
		} else {
			e.interact()
		}
	case types.InputLeave:
		if e.Dialogue.Active() {
			e.endDialogue()
		}
	case types.InputChoose:
		e.choose(in.Option)
	case types.InputInventory:
		e.Inventory.Toggle()
	case types.InputItem:
		id := in.Item
		if id == "" {
			id = e.Inventory.FirstConsumable()
		}
		e.Inventory.Use(id)
	case types.InputEquip:
		e.Inventory.Equip(in.Item)
	case types.InputUnequip:
		e.Inventory.Unequip(in.Slot)
	case types.InputPause:
		e.pause()
	case types.InputSkill, types.InputFlee:
		e.ui.Message("You are not in combat.")
	}
}

func (e *Engine) move(in types.Input) {
	if e.Dialogue.Active() {
		e.endDialogue()
	}
	dist := in.Dist
	if dist <= 0 {
		dist = e.Player.Speed * e.lastTick
	}
	dir := ai.Normalize(in.Dir)
	e.Player.Position = types.Vec2{
		X: e.Player.Position.X + dir.X*dist,
		Y: e.Player.Position.Y + dir.Y*dist,
	}
}

// attackNearest swings at the closest living enemy within reach.
func (e *Engine) attackNearest() {
	best, bestDist := "", 0.0
	for _, id := range e.Defs.EnemyIDs() {
		en := e.Enemies[id]
		if en.IsDead() {
			continue
		}
		d := ai.Distance(e.Player.Position, en.Position)
		if d > e.Player.Reach {
			continue
		}
		if best == "" || d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == "" {
		e.ui.Message("There is nothing to attack.")
		return
	}
	e.OnCollision(types.Collision{A: PlayerAttackID, B: best, Enter: true})
}

// engage starts combat with an enemy if the world allows it.
func (e *Engine) engage(id string) {
	if e.mode != types.ModePlaying {
		return
	}
	en := e.Enemies[id]
	if !e.Combat.Start(e.Player, en) {
		return
	}
	e.Inventory.Close()
	if e.Dialogue.Active() {
		e.endDialogue()
	}
	e.setMode(types.ModeCombat)
}

func (e *Engine) onCombatEnded(ev types.Event) []types.Effect {
	id, _ := ev.Data["enemy"].(string)
	outcome, _ := ev.Data["outcome"].(string)

	if b, ok := e.brains[id]; ok {
		if outcome == combat.Fled.String() {
			b.Hold(e.Clock.Now())
		} else {
			b.Reset()
		}
	}

	switch outcome {
	case combat.Defeat.String():
		e.ui.HidePanel(types.PanelHUD)
		e.setMode(types.ModeMenu)
		e.ui.ShowPanel(types.PanelMainMenu)
	default:
		if e.mode == types.ModeCombat {
			e.setMode(types.ModePlaying)
		}
	}
	e.pushStats()
	return nil
}

func (e *Engine) runAI(dt float64) {
	now := e.Clock.Now()
	for _, id := range e.Defs.EnemyIDs() {
		d := e.brains[id].Tick(now, dt, e.Enemies[id], e.Player.Position)
		if d.Engage && e.mode == types.ModePlaying {
			e.log.Debug("enemy engages", "enemy", id)
			e.engage(id)
		}
	}
}

// proximity turns distance changes into collision callbacks for NPC talk
// radii and areas.
func (e *Engine) proximity() {
	for _, id := range e.Defs.NPCIDs() {
		npc := e.Defs.NPCs[id]
		r := npc.Range
		if r <= 0 {
			r = defaultNPCRange
		}
		in := ai.Distance(e.Player.Position, npc.Position) <= r
		if in != e.nearNPC[id] {
			e.OnCollision(types.Collision{A: PlayerID, B: id, Enter: in})
		}
	}
	for _, id := range e.Defs.AreaIDs() {
		area := e.Defs.Areas[id]
		in := ai.Distance(e.Player.Position, area.Position) <= area.Radius
		if in != e.inArea[id] {
			e.OnCollision(types.Collision{A: PlayerID, B: id, Enter: in})
		}
	}
}

func (e *Engine) prompt(npcID string) string {
	if p := e.Defs.NPCs[npcID].Prompt; p != "" {
		return p
	}
	return fmt.Sprintf("Talk to %s", e.Defs.NPCName(npcID))
}

// interact talks to the nearest NPC in range, or advances the current
// conversation.
func (e *Engine) interact() {
	if e.Dialogue.Active() {
		cur, _ := e.Dialogue.Current()
		if len(cur.Options) > 0 {
			e.ui.Message("Choose an option.")
			return
		}
		line, ok := e.Dialogue.Next()
		e.showLine(line, ok)
		return
	}

	near := e.NearbyNPCs()
	if len(near) == 0 {
		e.ui.Message("There is no one to talk to.")
		return
	}
	npcID := near[0]
	bestDist := ai.Distance(e.Player.Position, e.Defs.NPCs[npcID].Position)
	for _, id := range near[1:] {
		if d := ai.Distance(e.Player.Position, e.Defs.NPCs[id].Position); d < bestDist {
			npcID, bestDist = id, d
		}
	}
	e.Talk(npcID)
}

// Talk opens a conversation with an NPC in range.
func (e *Engine) Talk(npcID string) {
	if e.mode != types.ModePlaying {
		return
	}
	if !e.nearNPC[npcID] {
		e.ui.Message(fmt.Sprintf("%s is too far away.", e.Defs.NPCName(npcID)))
		return
	}
	line, ok := e.Dialogue.Start(npcID)
	if !ok {
		e.ui.Message(fmt.Sprintf("%s has nothing to say.", e.Defs.NPCName(npcID)))
		return
	}
	e.ui.ShowPanel(types.PanelDialogue)
	e.Bus.Publish(types.Event{Type: events.NPCTalked, Data: map[string]any{"npc": npcID}})
	e.showLine(line, ok)
}

func (e *Engine) choose(option int) {
	if !e.Dialogue.Active() {
		e.ui.Message("No one is waiting for an answer.")
		return
	}
	line, ok, err := e.Dialogue.Choose(option)
	if errors.Is(err, dialogue.ErrNoOption) {
		if n := len(line.Options); n > 0 {
			e.ui.Message(fmt.Sprintf("Choose an option from 1 to %d.", n))
		} else {
			e.ui.Message("There is nothing to choose.")
		}
		return
	}
	e.showLine(line, ok)
}

func (e *Engine) showLine(line dialogue.Line, ok bool) {
	if !ok {
		e.ui.HidePanel(types.PanelDialogue)
		e.ui.Message("Dialogue ended.")
		return
	}
	e.ui.Message(fmt.Sprintf("%s: %s", line.Speaker, line.Text))
	for i, opt := range line.Options {
		e.ui.Message(fmt.Sprintf("  %d. %s", i+1, opt.Text))
	}
	if len(line.Effects) > 0 {
		e.apply(line.Effects, effects.Context{NPC: e.Dialogue.NPC()})
	}
}

func (e *Engine) endDialogue() {
	e.Dialogue.End()
	e.ui.HidePanel(types.PanelDialogue)
	e.ui.Message("Dialogue ended.")
}

func (e *Engine) pause() {
	e.resume = e.mode
	e.setMode(types.ModePaused)
	e.ui.ShowPanel(types.PanelPause)
}

func (e *Engine) unpause() {
	e.ui.HidePanel(types.PanelPause)
	e.setMode(e.resume)
}

func (e *Engine) setMode(m types.Mode) {
	if m == e.mode {
		return
	}
	from := e.mode
	e.mode = m
	switch m {
	case types.ModePlaying:
		e.ui.HidePanel(types.PanelMainMenu)
		e.ui.ShowPanel(types.PanelHUD)
	case types.ModeMenu:
		e.ui.HidePanel(types.PanelCombat)
	}
	e.log.Info("mode changed", "from", ModeName(from), "to", ModeName(m))
	e.Bus.Publish(types.Event{Type: events.ModeChanged, Data: map[string]any{
		"from": ModeName(from),
		"to":   ModeName(m),
	}})
}

// apply runs effects, reports their text and queues their events for the
// next drain.
func (e *Engine) apply(effs []types.Effect, ctx effects.Context) {
	evts, out := effects.Apply(e.world, effs, ctx)
	for _, line := range out {
		e.ui.Message(line)
	}
	for _, ev := range evts {
		e.Bus.Publish(ev)
	}
	e.pushStats()
}

// drain dispatches queued events once and applies handler effects.
// Events raised by those effects wait for the next tick.
func (e *Engine) drain() {
	if e.Bus.Pending() == 0 {
		return
	}
	effs, _ := e.Bus.Drain()
	if len(effs) > 0 {
		e.apply(effs, effects.Context{})
	}
}

func (e *Engine) pushStats() {
	p := e.Player
	e.ui.UpdateStat(types.StatHealth, p.Health, p.MaxHealth())
	e.ui.UpdateStat(types.StatMana, p.Mana, p.MaxMana())
	e.ui.UpdateStat(types.StatExperience, p.Experience, p.RequiredExperience())
	e.ui.UpdateStat(types.StatLevel, p.Level, 0)
	e.ui.UpdateStat(types.StatGold, p.Gold, 0)
}

// ModeName returns a short lowercase name for a mode.
func ModeName(m types.Mode) string {
	switch m {
	case types.ModeMenu:
		return "menu"
	case types.ModePlaying:
		return "playing"
	case types.ModeCombat:
		return "combat"
	case types.ModePaused:
		return "paused"
	default:
		return "unknown"
	}
}
