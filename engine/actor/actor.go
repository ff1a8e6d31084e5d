// Package actor implements the stat records shared by the player and
// enemies. Health and mana are clamped to [0, max] after every mutation.
package actor

import "github.com/nathoo/emberkeep/types"

// Actor is any entity with health, mana and combat stats.
type Actor struct {
	Name   string
	Health int
	Mana   int

	// Base holds intrinsic stats (including level-up growth).
	Base types.Stats
	// Bonus holds additive modifiers from equipment.
	Bonus types.Stats
}

// New creates an actor at full health and mana.
func New(name string, base types.Stats) *Actor {
	a := &Actor{Name: name, Base: base}
	a.Health = a.MaxHealth()
	a.Mana = a.MaxMana()
	return a
}

// MaxHealth returns the effective maximum health.
func (a *Actor) MaxHealth() int { return nonNeg(a.Base.MaxHealth + a.Bonus.MaxHealth) }

// MaxMana returns the effective maximum mana.
func (a *Actor) MaxMana() int { return nonNeg(a.Base.MaxMana + a.Bonus.MaxMana) }

// Attack returns the effective attack power.
func (a *Actor) Attack() int { return a.Base.Attack + a.Bonus.Attack }

// Defense returns the effective defense.
func (a *Actor) Defense() int { return a.Base.Defense + a.Bonus.Defense }

// Magic returns the effective magic power.
func (a *Actor) Magic() int { return a.Base.Magic + a.Bonus.Magic }

// IsDead reports whether health has reached zero.
func (a *Actor) IsDead() bool { return a.Health <= 0 }

// TakeDamage reduces health by n, flooring at zero. Returns the health
// actually removed.
func (a *Actor) TakeDamage(n int) int {
	if n <= 0 || a.Health <= 0 {
		return 0
	}
	before := a.Health
	a.Health -= n
	a.clamp()
	return before - a.Health
}

// Heal increases health by n, capped at MaxHealth. Dead actors are not
// revived. Returns the health actually restored.
func (a *Actor) Heal(n int) int {
	if n <= 0 || a.IsDead() {
		return 0
	}
	before := a.Health
	a.Health += n
	a.clamp()
	return a.Health - before
}

// RestoreMana increases mana by n, capped at MaxMana. Returns the mana
// actually restored.
func (a *Actor) RestoreMana(n int) int {
	if n <= 0 {
		return 0
	}
	before := a.Mana
	a.Mana += n
	a.clamp()
	return a.Mana - before
}

// SpendMana deducts n mana if available. Returns false and leaves mana
// untouched when there is not enough.
func (a *Actor) SpendMana(n int) bool {
	if n < 0 || a.Mana < n {
		return false
	}
	a.Mana -= n
	return true
}

// SetBonus replaces the equipment bonus and re-clamps health and mana.
func (a *Actor) SetBonus(b types.Stats) {
	a.Bonus = b
	a.clamp()
}

// Restore refills health and mana to their maximums.
func (a *Actor) Restore() {
	a.Health = a.MaxHealth()
	a.Mana = a.MaxMana()
}

func (a *Actor) clamp() {
	a.Health = clampInt(a.Health, 0, a.MaxHealth())
	a.Mana = clampInt(a.Mana, 0, a.MaxMana())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
