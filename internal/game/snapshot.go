package game

import (
	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/object"
	"github.com/tomz197/polyroids/internal/physics"
)

// Snapshot is a read-only copy of everything a renderer needs. Every slice
// is freshly allocated, so renderers cannot reach back into the game.
type Snapshot struct {
	State       State
	Field       config.Field
	Ship        ShipView
	Rocks       []RockView
	Projectiles []physics.Vec
	Segments    []SegmentView
	Particles   []ParticleView
}

// ShipView is the ship as drawn this tick.
type ShipView struct {
	Points     []physics.Vec // World space, nose first
	Visible    bool
	Thrusting  bool
	Invincible bool
}

// RockView is a rock outline in world space.
type RockView struct {
	Points []physics.Vec
	Size   object.RockSize
}

// SegmentView is one fading line of a rock explosion.
type SegmentView struct {
	A, B  physics.Vec
	Alpha float64
}

// ParticleView is one square of a ship explosion.
type ParticleView struct {
	Pos  physics.Vec
	Size float64
}

func (g *Game) snapshot() Snapshot {
	s := Snapshot{
		State: g.state,
		Field: g.cfg.Field,
		Ship: ShipView{
			Points:     g.ship.WorldPoints(),
			Visible:    g.state.Status.acceptsInput() && !g.ship.Dead && g.ship.Visible(),
			Thrusting:  g.ship.Thrusting,
			Invincible: g.ship.Invincible,
		},
		Rocks:       make([]RockView, 0, len(g.rocks)),
		Projectiles: make([]physics.Vec, 0, len(g.projectiles)),
	}

	for _, r := range g.rocks {
		s.Rocks = append(s.Rocks, RockView{Points: r.WorldPoints(), Size: r.Size})
	}
	for _, p := range g.projectiles {
		s.Projectiles = append(s.Projectiles, p.Pos)
	}
	for _, e := range g.rockExplosions {
		for _, seg := range e.Segments {
			a, b := seg.Endpoints()
			s.Segments = append(s.Segments, SegmentView{A: a, B: b, Alpha: e.Alpha})
		}
	}
	for _, e := range g.shipExplosions {
		for _, p := range e.Particles {
			s.Particles = append(s.Particles, ParticleView{Pos: p.Pos, Size: p.Size})
		}
	}
	return s
}
