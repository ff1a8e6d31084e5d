package actor

import "github.com/nathoo/emberkeep/types"

// Enemy is a hostile actor placed in the world.
type Enemy struct {
	*Actor
	ID       string
	Def      types.EnemyDef
	Position types.Vec2
	Home     types.Vec2
}

// NewEnemy creates an enemy at its definition's position.
func NewEnemy(def types.EnemyDef) *Enemy {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	return &Enemy{
		Actor:    New(name, def.Stats),
		ID:       def.ID,
		Def:      def,
		Position: def.Position,
		Home:     def.Position,
	}
}

// Reset restores the enemy to full health at its home point.
func (e *Enemy) Reset() {
	e.Restore()
	e.Position = e.Home
}
