package ai

import (
	"math"

	"github.com/nathoo/emberkeep/types"
)

// Distance returns the straight-line distance between two points.
func Distance(a, b types.Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Step moves from toward to by at most maxStep without overshooting.
func Step(from, to types.Vec2, maxStep float64) types.Vec2 {
	d := Distance(from, to)
	if d == 0 || maxStep <= 0 {
		return from
	}
	if maxStep >= d {
		return to
	}
	k := maxStep / d
	return types.Vec2{X: from.X + (to.X-from.X)*k, Y: from.Y + (to.Y-from.Y)*k}
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v types.Vec2) types.Vec2 {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return types.Vec2{}
	}
	return types.Vec2{X: v.X / l, Y: v.Y / l}
}
