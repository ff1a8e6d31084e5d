package actor

import "github.com/nathoo/emberkeep/types"

// Level-up growth per level gained.
var levelGrowth = types.Stats{
	MaxHealth: 20,
	MaxMana:   10,
	Attack:    2,
	Defense:   1,
	Magic:     2,
}

// Player is the player's actor plus progression and position.
type Player struct {
	*Actor
	Level      int
	Experience int
	Gold       int
	Position   types.Vec2
	Speed      float64
	Reach      float64

	def types.PlayerDef
}

// NewPlayer creates a level 1 player from its definition.
func NewPlayer(def types.PlayerDef) *Player {
	return &Player{
		Actor:    New(def.Name, def.Stats),
		Level:    1,
		Position: def.Start,
		Speed:    def.MoveSpeed,
		Reach:    def.AttackReach,
		def:      def,
	}
}

// RequiredExperience returns the experience needed for the next level.
func (p *Player) RequiredExperience() int {
	return p.Level * 100
}

// AddExperience grants experience and applies any level-ups it triggers.
// Returns the number of levels gained.
func (p *Player) AddExperience(n int) int {
	if n <= 0 {
		return 0
	}
	p.Experience += n
	gained := 0
	for p.Experience >= p.RequiredExperience() {
		p.Experience -= p.RequiredExperience()
		p.levelUp()
		gained++
	}
	return gained
}

func (p *Player) levelUp() {
	p.Level++
	p.Base.MaxHealth += levelGrowth.MaxHealth
	p.Base.MaxMana += levelGrowth.MaxMana
	p.Base.Attack += levelGrowth.Attack
	p.Base.Defense += levelGrowth.Defense
	p.Base.Magic += levelGrowth.Magic
	p.Restore()
}

// AddGold adds gold. Non-positive amounts are ignored.
func (p *Player) AddGold(n int) {
	if n > 0 {
		p.Gold += n
	}
}

// SpendGold deducts gold if the player can afford it.
func (p *Player) SpendGold(n int) bool {
	if n < 0 || p.Gold < n {
		return false
	}
	p.Gold -= n
	return true
}

// Respawn resets progression and base stats to the starting definition,
// moves the player to the spawn point and refills health and mana.
// Equipment bonuses are kept.
func (p *Player) Respawn() {
	p.Level = 1
	p.Experience = 0
	p.Gold = 0
	p.Base = p.def.Stats
	p.Position = p.def.Start
	p.Restore()
}

// Spawn returns the player's spawn point.
func (p *Player) Spawn() types.Vec2 {
	return p.def.Start
}
