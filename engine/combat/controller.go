package combat

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nathoo/emberkeep/engine/actor"
	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/engine/sched"
	"github.com/nathoo/emberkeep/types"
)

// Session is one encounter between the player and one enemy. Actor
// references are only held while the session is active.
type Session struct {
	ID      uuid.UUID
	Player  *actor.Player
	Enemy   *actor.Enemy
	Phase   Phase
	Outcome Outcome
	Round   int
}

// Consumer uses a consumable item on the player. It reports false when
// the item is missing or not consumable.
type Consumer interface {
	UseConsumable(id string) bool
}

// Config wires a Controller to its collaborators. Queue and Bus are
// required; the rest fall back to no-op defaults.
type Config struct {
	Rules  types.CombatRules
	RNG    Source
	Queue  *sched.Queue
	Bus    *events.Bus
	UI     notify.Notifier
	Items  Consumer
	Logger *slog.Logger
}

// Controller runs at most one combat session at a time.
type Controller struct {
	rules  types.CombatRules
	rng    Source
	queue  *sched.Queue
	bus    *events.Bus
	ui     notify.Notifier
	items  Consumer
	log    *slog.Logger
	timers []sched.TimerID

	session *Session
}

// NewController creates an idle controller.
func NewController(cfg Config) *Controller {
	c := &Controller{
		rules: cfg.Rules,
		rng:   cfg.RNG,
		queue: cfg.Queue,
		bus:   cfg.Bus,
		ui:    cfg.UI,
		items: cfg.Items,
		log:   cfg.Logger,
	}
	if c.ui == nil {
		c.ui = notify.Nop{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.queue == nil {
		c.queue = sched.New()
	}
	if c.bus == nil {
		c.bus = events.NewBus()
	}
	return c
}

// Active reports whether a session is in progress, including one that
// has ended and is waiting for its victory or respawn delay.
func (c *Controller) Active() bool {
	return c.session != nil
}

// Session returns the current session, or nil when idle.
func (c *Controller) Session() *Session {
	return c.session
}

// SetItems replaces the consumable source used by item actions.
func (c *Controller) SetItems(items Consumer) {
	c.items = items
}

// Start begins a session. It refuses when a session is already active,
// either reference is nil, or either actor is already dead.
func (c *Controller) Start(p *actor.Player, e *actor.Enemy) bool {
	if c.session != nil || p == nil || e == nil {
		return false
	}
	if p.IsDead() || e.IsDead() {
		return false
	}

	c.session = &Session{
		ID:     uuid.New(),
		Player: p,
		Enemy:  e,
		Phase:  PlayerTurn,
		Round:  1,
	}
	c.log.Info("combat started", "session", c.session.ID, "enemy", e.ID)

	c.ui.ShowPanel(types.PanelCombat)
	c.pushStats()
	c.bus.Publish(types.Event{Type: events.CombatStarted, Data: map[string]any{
		"enemy": e.ID,
		"kind":  e.Def.Kind,
	}})
	c.after(c.rules.StartDelay, func(*Session) {
		c.ui.Message("Combat started!")
	})
	return true
}

// Submit applies a player action. Actions outside the player's turn are
// ignored. Returns true when the action consumed the turn.
func (c *Controller) Submit(a types.Action) bool {
	s := c.session
	if s == nil || s.Phase != PlayerTurn {
		return false
	}

	switch a.Kind {
	case types.ActionAttack:
		c.playerAttack(s)
	case types.ActionSkill:
		if !c.playerSkill(s) {
			return false
		}
	case types.ActionItem:
		if !c.playerItem(s, a.Item) {
			return false
		}
	case types.ActionFlee:
		c.playerFlee(s)
		return true
	default:
		return false
	}

	c.afterPlayerAction(s)
	return true
}

// Abort clears an active session without rewards or penalties.
func (c *Controller) Abort() {
	if c.session == nil {
		return
	}
	c.log.Info("combat aborted", "session", c.session.ID)
	c.finish(None)
}

func (c *Controller) playerAttack(s *Session) {
	hit := Damage(s.Player.Attack(), s.Enemy.Defense(), c.rules.CritChance, c.rng)
	applied := s.Enemy.TakeDamage(hit.Amount)
	if hit.Critical {
		c.ui.Message("Critical hit!")
	}
	c.ui.Message(fmt.Sprintf("You hit the %s for %d damage.", s.Enemy.Name, applied))
	c.damaged(s.Enemy.ID, applied, hit.Critical)
}

func (c *Controller) playerSkill(s *Session) bool {
	if !s.Player.SpendMana(c.rules.SkillCost) {
		c.ui.Message("Not enough mana.")
		return false
	}
	applied := s.Enemy.TakeDamage(s.Player.Magic() * 2)
	c.ui.Message(fmt.Sprintf("%s! %d magic damage.", c.skillName(), applied))
	c.damaged(s.Enemy.ID, applied, false)
	return true
}

func (c *Controller) playerItem(s *Session, id string) bool {
	if c.items == nil || id == "" || !c.items.UseConsumable(id) {
		c.ui.Message("You have nothing to use.")
		return false
	}
	c.pushStats()
	return true
}

func (c *Controller) playerFlee(s *Session) {
	if c.chance(c.rules.FleeChance) {
		c.ui.Message("You escaped!")
		c.log.Info("combat fled", "session", s.ID)
		c.finish(Fled)
		return
	}
	c.ui.Message("You failed to escape!")
	c.toEnemyTurn(s)
}

func (c *Controller) afterPlayerAction(s *Session) {
	c.pushStats()
	if s.Enemy.IsDead() {
		c.victory(s)
		return
	}
	c.toEnemyTurn(s)
}

func (c *Controller) toEnemyTurn(s *Session) {
	s.Phase = EnemyTurn
	c.after(c.rules.TurnDelay, func(s *Session) {
		if s.Phase == EnemyTurn {
			c.enemyAttack(s)
		}
	})
}

func (c *Controller) enemyAttack(s *Session) {
	hit := Damage(s.Enemy.Attack(), s.Player.Defense(), c.rules.CritChance, c.rng)
	applied := s.Player.TakeDamage(hit.Amount)
	if hit.Critical {
		c.ui.Message("Critical hit!")
	}
	c.ui.Message(fmt.Sprintf("The %s hits you for %d damage.", s.Enemy.Name, applied))
	c.damaged("player", applied, hit.Critical)
	c.pushStats()

	if s.Player.IsDead() {
		c.defeat(s)
		return
	}
	s.Phase = PlayerTurn
	s.Round++
}

func (c *Controller) victory(s *Session) {
	s.Phase = CombatEnd
	s.Outcome = Victory
	e, p := s.Enemy, s.Player

	c.ui.Message(fmt.Sprintf("The %s is defeated!", e.Name))
	levels := p.AddExperience(e.Def.Experience)
	p.AddGold(e.Def.Gold)
	if e.Def.Experience > 0 || e.Def.Gold > 0 {
		c.ui.Message(fmt.Sprintf("Gained %d XP and %d gold.", e.Def.Experience, e.Def.Gold))
	}
	if levels > 0 {
		c.ui.Message(fmt.Sprintf("Level up! You are now level %d.", p.Level))
		c.bus.Publish(types.Event{Type: events.LevelUp, Data: map[string]any{"level": p.Level}})
	}
	c.pushStats()

	c.bus.Publish(types.Event{Type: events.EnemyDefeated, Data: map[string]any{
		"enemy":      e.ID,
		"kind":       e.Def.Kind,
		"experience": e.Def.Experience,
		"gold":       e.Def.Gold,
	}})
	c.log.Info("combat won", "session", s.ID, "enemy", e.ID, "rounds", s.Round)

	c.after(c.rules.VictoryDelay, func(*Session) {
		c.finish(Victory)
	})
}

func (c *Controller) defeat(s *Session) {
	s.Phase = CombatEnd
	s.Outcome = Defeat

	c.ui.Message("You have been defeated...")
	c.ui.ShowPanel(types.PanelGameOver)
	c.bus.Publish(types.Event{Type: events.PlayerDefeated, Data: map[string]any{
		"enemy": s.Enemy.ID,
	}})
	c.log.Info("combat lost", "session", s.ID, "enemy", s.Enemy.ID, "rounds", s.Round)

	c.after(c.rules.RespawnDelay, func(s *Session) {
		s.Player.Respawn()
		s.Enemy.Reset()
		c.pushStats()
		c.ui.HidePanel(types.PanelGameOver)
		c.bus.Publish(types.Event{Type: events.PlayerRespawned})
		c.finish(Defeat)
	})
}

// finish clears the session and cancels its pending timers.
func (c *Controller) finish(o Outcome) {
	s := c.session
	if s == nil {
		return
	}
	for _, id := range c.timers {
		c.queue.Cancel(id)
	}
	c.timers = nil

	s.Phase = CombatEnd
	s.Outcome = o
	c.ui.HidePanel(types.PanelCombat)
	c.bus.Publish(types.Event{Type: events.CombatEnded, Data: map[string]any{
		"enemy":   s.Enemy.ID,
		"outcome": o.String(),
	}})
	c.session = nil
}

// after schedules fn for the current session. The callback is dropped
// if that session is no longer the active one when it fires.
func (c *Controller) after(seconds float64, fn func(*Session)) {
	s := c.session
	id := s.ID
	tid := c.queue.After(sched.Seconds(seconds), func() {
		if c.session == nil || c.session.ID != id {
			c.log.Debug("stale combat timer dropped", "session", id)
			return
		}
		fn(c.session)
	})
	c.timers = append(c.timers, tid)
}

func (c *Controller) damaged(target string, amount int, critical bool) {
	c.bus.Publish(types.Event{Type: events.EntityDamaged, Data: map[string]any{
		"target":   target,
		"amount":   amount,
		"critical": critical,
	}})
}

func (c *Controller) pushStats() {
	s := c.session
	if s == nil {
		return
	}
	p := s.Player
	c.ui.UpdateStat(types.StatHealth, p.Health, p.MaxHealth())
	c.ui.UpdateStat(types.StatMana, p.Mana, p.MaxMana())
	c.ui.UpdateStat(types.StatExperience, p.Experience, p.RequiredExperience())
	c.ui.UpdateStat(types.StatLevel, p.Level, 0)
	c.ui.UpdateStat(types.StatGold, p.Gold, 0)
	c.ui.UpdateStat(types.StatEnemyHealth, s.Enemy.Health, s.Enemy.MaxHealth())
}

func (c *Controller) chance(p float64) bool {
	if c.rng == nil {
		return false
	}
	return c.rng.Float64() < p
}

func (c *Controller) skillName() string {
	if c.rules.SkillName == "" {
		return "Skill"
	}
	return c.rules.SkillName
}
