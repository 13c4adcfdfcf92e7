// Package object implements the moving bodies and effects of the playfield:
// the ship, rocks, projectiles, and both explosion kinds.
package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/physics"
)

// UpdateContext provides everything an entity needs during a tick.
type UpdateContext struct {
	Field config.Field
	Now   time.Time
}

// Updater is a per-tick entity. Update returns true once the entity should be
// removed from its collection.
type Updater interface {
	Update(ctx UpdateContext) (remove bool)
}

// UpdateAll updates every item and compacts the slice in place, dropping the
// ones that asked to be removed.
func UpdateAll[T Updater](items []T, ctx UpdateContext) []T {
	kept := items[:0] // reuse backing array
	for _, it := range items {
		if !it.Update(ctx) {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}

// Body is the moving-body model shared by the ship and rocks.
type Body struct {
	Pos     physics.Vec
	Vel     physics.Vec
	Spin    float64 // Degrees per tick
	Heading float64 // Accumulated rotation in [0, 360)
	Shape   physics.Polygon
}

// Update integrates one tick: move, wrap into the field, then turn the shape
// by this tick's spin.
func (b *Body) Update(field config.Field) {
	b.Pos = physics.WrapVec(b.Pos.Add(b.Vel), field.Width, field.Height)
	b.Heading = physics.NormalizeDegrees(b.Heading + b.Spin)
	b.Shape.Rotate(b.Spin)
}

// WorldPoints returns the shape's vertices at the body's position.
func (b *Body) WorldPoints() []physics.Vec {
	return b.Shape.WorldPoints(b.Pos)
}

// Contains reports whether pt is inside the body's shape.
func (b *Body) Contains(pt physics.Vec) bool {
	return b.Shape.Contains(b.Pos, pt)
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randSign returns -1 or 1 with equal odds.
func randSign(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return 1
	}
	return -1
}

// signedUniform is a uniform magnitude in [lo, hi) with a random sign.
func signedUniform(rng *rand.Rand, lo, hi float64) float64 {
	return uniform(rng, lo, hi) * randSign(rng)
}
