package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/physics"
)

// Segment is one edge of a destroyed rock drifting away from the impact.
type Segment struct {
	Pos   physics.Vec // Edge midpoint
	Vel   physics.Vec
	Spin  float64     // Degrees per tick
	A, B  physics.Vec // Endpoints relative to Pos
	angle float64
}

// Endpoints returns the segment's world-space ends.
func (s Segment) Endpoints() (physics.Vec, physics.Vec) {
	return s.Pos.Add(s.A.Rotate(s.angle)), s.Pos.Add(s.B.Rotate(s.angle))
}

// RockExplosion breaks a rock outline into spinning, fading segments that
// also orbit the rock's last position.
type RockExplosion struct {
	Center   physics.Vec
	Segments []Segment
	Alpha    float64

	orbit float64 // Degrees per tick around Center
	fade  float64
}

// NewRockExplosion builds the effect from the rock's shape and velocity at
// the moment of impact.
func NewRockExplosion(rng *rand.Rand, rock *Rock, cfg config.Explosions) *RockExplosion {
	pts := rock.Shape.Points()
	e := &RockExplosion{
		Center:   rock.Pos,
		Segments: make([]Segment, 0, len(pts)),
		Alpha:    cfg.SegmentAlpha,
		orbit:    -uniform(rng, cfg.OrbitMinSpeed, cfg.OrbitMaxSpeed),
		fade:     cfg.SegmentFade,
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		mid := a.Add(b).Scale(0.5)
		vel := mid.Normalize().Scale(cfg.SegmentSpeed).
			Add(rock.Vel.Scale(cfg.InheritedSpeed)).
			Add(physics.Vec{
				X: uniform(rng, -cfg.SegmentJitter, cfg.SegmentJitter),
				Y: uniform(rng, -cfg.SegmentJitter, cfg.SegmentJitter),
			})
		e.Segments = append(e.Segments, Segment{
			Pos:  rock.Pos.Add(mid),
			Vel:  vel,
			Spin: signedUniform(rng, cfg.SegmentMinSpin, cfg.SegmentMaxSpin),
			A:    a.Sub(mid),
			B:    b.Sub(mid),
		})
	}
	return e
}

// Dead reports whether the explosion has fully faded.
func (e *RockExplosion) Dead() bool {
	return e.Alpha <= 0
}

// Update drifts, spins and orbits every segment and fades the explosion.
func (e *RockExplosion) Update(ctx UpdateContext) bool {
	for i := range e.Segments {
		s := &e.Segments[i]
		s.Pos = e.Center.Add(s.Pos.Sub(e.Center).Rotate(e.orbit))
		s.Pos = physics.WrapVec(s.Pos.Add(s.Vel), ctx.Field.Width, ctx.Field.Height)
		s.angle = physics.NormalizeDegrees(s.angle + s.Spin)
	}
	e.Alpha -= e.fade
	return e.Dead()
}

// Particle is one square of a ship explosion.
type Particle struct {
	Pos  physics.Vec
	Vel  physics.Vec
	Size float64
}

// ShipExplosion scatters particles from where the ship was destroyed.
type ShipExplosion struct {
	Particles []Particle
	Expires   time.Time
}

// NewShipExplosion creates the particle burst at pos.
func NewShipExplosion(rng *rand.Rand, pos physics.Vec, cfg config.Explosions, now time.Time) *ShipExplosion {
	e := &ShipExplosion{
		Particles: make([]Particle, cfg.Particles),
		Expires:   now.Add(cfg.ParticleLifetime),
	}
	for i := range e.Particles {
		e.Particles[i] = Particle{
			Pos: pos,
			Vel: physics.Vec{
				X: signedUniform(rng, cfg.ParticleMinSpeed, cfg.ParticleMaxSpeed),
				Y: signedUniform(rng, cfg.ParticleMinSpeed, cfg.ParticleMaxSpeed),
			},
			Size: uniform(rng, cfg.ParticleMinSize, cfg.ParticleMaxSize),
		}
	}
	return e
}

// Update moves every particle until the explosion expires.
func (e *ShipExplosion) Update(ctx UpdateContext) bool {
	if !ctx.Now.Before(e.Expires) {
		return true
	}
	for i := range e.Particles {
		p := &e.Particles[i]
		p.Pos = physics.WrapVec(p.Pos.Add(p.Vel), ctx.Field.Width, ctx.Field.Height)
	}
	return false
}
