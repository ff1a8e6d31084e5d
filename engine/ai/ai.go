// Package ai implements the enemy behavior selector: patrol around a home
// point, chase a detected player and request an engagement when in reach.
// It never touches combat state; the engine decides what an engagement
// request means.
package ai

import (
	"log/slog"
	"math"
	"time"

	"github.com/nathoo/emberkeep/engine/actor"
	"github.com/nathoo/emberkeep/types"
)

// State is an enemy's behavioral state.
type State int

const (
	Patrol State = iota
	Chase
	Attack
	Dead
)

func (s State) String() string {
	switch s {
	case Patrol:
		return "patrol"
	case Chase:
		return "chase"
	case Attack:
		return "attack"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Select picks a state from the distance to the player. Attack wins over
// Chase when both ranges contain the player; boundaries are inclusive.
func Select(distance, detectionRange, attackRange float64) State {
	switch {
	case distance <= attackRange:
		return Attack
	case distance <= detectionRange:
		return Chase
	default:
		return Patrol
	}
}

// arrive is how close a patrolling enemy must get to its wander point
// before picking a new one.
const arrive = 0.5

// Source is the random source used to pick wander points.
type Source interface {
	Float64() float64
}

// Decision is the result of one brain tick.
type Decision struct {
	State  State
	Engage bool
}

// Brain holds per-enemy behavior memory.
type Brain struct {
	rng Source
	log *slog.Logger

	state      State
	lastAttack time.Duration
	attacked   bool
	target     types.Vec2
	hasTarget  bool
}

// NewBrain creates a brain in Patrol. src may be nil, in which case the
// enemy patrols by returning home.
func NewBrain(src Source, log *slog.Logger) *Brain {
	if log == nil {
		log = slog.Default()
	}
	return &Brain{rng: src, log: log}
}

// State returns the state chosen on the last tick.
func (b *Brain) State() State {
	return b.state
}

// Reset forgets cooldown and wander memory and returns to Patrol.
func (b *Brain) Reset() {
	b.state = Patrol
	b.attacked = false
	b.lastAttack = 0
	b.hasTarget = false
}

// Hold restarts the attack cooldown at now, so the enemy waits a full
// cooldown before it can engage again.
func (b *Brain) Hold(now time.Duration) {
	b.attacked = true
	b.lastAttack = now
}

// Tick re-evaluates the state from the current distance, moves the enemy
// for dt seconds and reports whether it wants to engage the player.
// Engagement is requested at most once per AttackCooldown.
func (b *Brain) Tick(now time.Duration, dt float64, e *actor.Enemy, player types.Vec2) Decision {
	if e == nil || e.IsDead() {
		b.state = Dead
		return Decision{State: Dead}
	}

	dist := Distance(e.Position, player)
	next := Select(dist, e.Def.DetectionRange, e.Def.AttackRange)
	if next != b.state {
		b.log.Debug("enemy state", "enemy", e.ID, "from", b.state, "to", next, "distance", dist)
		b.state = next
	}

	switch b.state {
	case Patrol:
		b.patrol(dt, e)
	case Chase:
		b.hasTarget = false
		e.Position = Step(e.Position, player, e.Def.MoveSpeed*dt)
	case Attack:
		b.hasTarget = false
		if b.ready(now, e.Def.AttackCooldown) {
			b.attacked = true
			b.lastAttack = now
			return Decision{State: Attack, Engage: true}
		}
	}
	return Decision{State: b.state}
}

func (b *Brain) ready(now time.Duration, cooldown float64) bool {
	if !b.attacked {
		return true
	}
	return (now - b.lastAttack).Seconds() >= cooldown
}

func (b *Brain) patrol(dt float64, e *actor.Enemy) {
	if !b.hasTarget {
		b.target = b.wanderPoint(e)
		b.hasTarget = true
	}
	if Distance(e.Position, b.target) <= arrive {
		b.hasTarget = false
		return
	}
	e.Position = Step(e.Position, b.target, e.Def.MoveSpeed*0.5*dt)
}

func (b *Brain) wanderPoint(e *actor.Enemy) types.Vec2 {
	r := e.Def.WanderRadius
	if r <= 0 || b.rng == nil {
		return e.Home
	}
	angle := b.rng.Float64() * 2 * math.Pi
	dist := b.rng.Float64() * r
	return types.Vec2{
		X: e.Home.X + math.Cos(angle)*dist,
		Y: e.Home.Y + math.Sin(angle)*dist,
	}
}
