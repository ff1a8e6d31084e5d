// Package combat implements the turn-based encounter between the player
// and one enemy, and the damage formula both sides share.
package combat

// Source is the random source consumed by damage and flee rolls.
// *rng.RNG satisfies it.
type Source interface {
	Float64() float64
}

// Hit is the outcome of one damage roll.
type Hit struct {
	Amount   int
	Critical bool
}

// Damage computes max(1, attack - defense/4) and doubles it when the
// single draw from src falls under critChance. Defense uses integer
// division.
func Damage(attack, defense int, critChance float64, src Source) Hit {
	amount := attack - defense/4
	if amount < 1 {
		amount = 1
	}
	if src != nil && src.Float64() < critChance {
		return Hit{Amount: amount * 2, Critical: true}
	}
	return Hit{Amount: amount}
}
