package object

import (
	"fmt"
	"math/rand"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/physics"
)

// RockSize represents the size class of a rock.
type RockSize int

const (
	RockSmall  RockSize = 1
	RockMedium RockSize = 2
	RockLarge  RockSize = 3
)

// String returns the size class name.
func (s RockSize) String() string {
	switch s {
	case RockSmall:
		return "small"
	case RockMedium:
		return "medium"
	case RockLarge:
		return "large"
	default:
		return fmt.Sprintf("RockSize(%d)", int(s))
	}
}

// Smaller returns the fragment class, or false for the smallest rocks.
func (s RockSize) Smaller() (RockSize, bool) {
	switch s {
	case RockLarge:
		return RockMedium, true
	case RockMedium:
		return RockSmall, true
	default:
		return 0, false
	}
}

// ClassOf returns the tunables for a size class.
func ClassOf(cfg config.Rocks, size RockSize) config.RockClass {
	switch size {
	case RockSmall:
		return cfg.Small
	case RockMedium:
		return cfg.Medium
	case RockLarge:
		return cfg.Large
	default:
		return config.RockClass{}
	}
}

// Rock is an obstacle. It never changes class: a hit removes it and
// optionally replaces it with two smaller rocks.
type Rock struct {
	Body
	Size RockSize
	Dead bool // Marked this tick; swept at end of tick
}

// NewRock creates a rock with a fresh random outline, velocity and spin.
func NewRock(rng *rand.Rand, cfg config.Rocks, size RockSize, pos physics.Vec) (*Rock, error) {
	class := ClassOf(cfg, size)
	shape, err := physics.RandomPolygon(rng, class.Sides, class.Size*0.5)
	if err != nil {
		return nil, fmt.Errorf("%s rock: %w", size, err)
	}

	return &Rock{
		Body: Body{
			Pos: pos,
			Vel: physics.Vec{
				X: signedUniform(rng, cfg.MinSpeed, cfg.MaxSpeed),
				Y: signedUniform(rng, cfg.MinSpeed, cfg.MaxSpeed),
			},
			Spin:  signedUniform(rng, cfg.MinSpin, cfg.MaxSpin),
			Shape: shape,
		},
		Size: size,
	}, nil
}

// Update moves the rock unless it was hit this tick.
func (r *Rock) Update(ctx UpdateContext) bool {
	if r.Dead {
		return true
	}
	r.Body.Update(ctx.Field)
	return false
}

// Score returns the points for destroying this rock.
func (r *Rock) Score(cfg config.Rocks) int {
	return ClassOf(cfg, r.Size).Score
}

// Extent returns the farthest vertex distance from the rock's position.
func (r *Rock) Extent() float64 {
	return r.Shape.Radius()
}

// Split returns the two rocks that replace this one, placed at its current
// position. Small rocks split into nothing.
func (r *Rock) Split(rng *rand.Rand, cfg config.Rocks) ([]*Rock, error) {
	size, ok := r.Size.Smaller()
	if !ok {
		return nil, nil
	}
	frags := make([]*Rock, 0, 2)
	for i := 0; i < 2; i++ {
		child, err := NewRock(rng, cfg, size, r.Pos)
		if err != nil {
			return nil, err
		}
		frags = append(frags, child)
	}
	return frags, nil
}

// SpawnPoint picks a position in the outer quarter bands of the field on
// both axes, keeping new level rocks away from the center.
func SpawnPoint(rng *rand.Rand, field config.Field) physics.Vec {
	return physics.Vec{X: bandPoint(rng, field.Width), Y: bandPoint(rng, field.Height)}
}

func bandPoint(rng *rand.Rand, span float64) float64 {
	if rng.Float64() < 0.5 {
		return uniform(rng, 0, span*0.25)
	}
	return uniform(rng, span*0.75, span)
}

// MaxExtent bounds the distance any large rock vertex can reach from its
// position, including drift from turning about an off-origin centroid. Used
// to size broad-phase cells.
func MaxExtent(cfg config.Rocks) float64 {
	return cfg.Large.Size * 1.25
}
