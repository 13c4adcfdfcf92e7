package object

import (
	"math"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/physics"
)

// Ship is the player-controlled wedge.
type Ship struct {
	Body

	// Controls, set from input at the start of each tick.
	RotatingLeft  bool
	RotatingRight bool
	Thrusting     bool

	Dead       bool
	Invincible bool // Debug toggle; rocks pass through

	cfg   config.Ship
	flash int // Remaining respawn shield ticks
}

// NewShip creates a ship at center pointing up.
func NewShip(cfg config.Ship, center physics.Vec) *Ship {
	s := &Ship{cfg: cfg}
	s.Reset(center)
	return s
}

// wedge returns the ship outline with its centroid at the origin and the nose
// as vertex 0.
func wedge(cfg config.Ship) physics.Polygon {
	h, w := cfg.Height, cfg.Width
	shape, _ := physics.NewPolygon([]physics.Vec{
		{X: 0, Y: -2 * h / 3},
		{X: -w / 2, Y: h / 3},
		{X: w / 2, Y: h / 3},
	})
	return shape
}

// Reset puts the ship back at center, at rest and pointing up.
func (s *Ship) Reset(center physics.Vec) {
	s.Body = Body{Pos: center, Shape: wedge(s.cfg)}
	s.RotatingLeft = false
	s.RotatingRight = false
	s.Thrusting = false
	s.Dead = false
	s.flash = 0
}

// Direction returns the unit vector from the ship's centroid to its nose.
func (s *Ship) Direction() physics.Vec {
	return s.Shape.Vertex(0).Sub(s.Shape.Centroid()).Normalize()
}

// Nose returns the tip of the ship in world space.
func (s *Ship) Nose() physics.Vec {
	return s.Pos.Add(s.Shape.Vertex(0))
}

// HitPoints returns the points tested against rocks: the center followed by
// every world vertex.
func (s *Ship) HitPoints() []physics.Vec {
	return append([]physics.Vec{s.Pos}, s.WorldPoints()...)
}

// StartFlash begins the post-respawn shield.
func (s *Ship) StartFlash() {
	s.flash = s.cfg.FlashTicks
}

// Shielded reports whether the respawn flash is still running.
func (s *Ship) Shielded() bool {
	return s.flash > 0
}

// Visible reports whether the ship should be drawn this tick. It blinks while
// shielded.
func (s *Ship) Visible() bool {
	if s.flash <= 0 || s.cfg.FlashPeriod <= 0 {
		return true
	}
	return (s.flash/s.cfg.FlashPeriod)%2 == 0
}

// Update applies thrust, turning, movement and drag for one tick.
func (s *Ship) Update(ctx UpdateContext) bool {
	if s.Thrusting {
		s.Vel = s.Vel.Add(s.Direction().Scale(s.cfg.Accel))
	}
	if speed := s.Vel.Len(); speed > s.cfg.MaxSpeed {
		s.Vel = s.Vel.Scale(s.cfg.MaxSpeed / speed)
	}

	switch {
	case s.RotatingLeft:
		s.Spin = -s.cfg.TurnRate
	case s.RotatingRight:
		s.Spin = s.cfg.TurnRate
	default:
		s.Spin = 0
	}

	s.Body.Update(ctx.Field)

	s.Vel.X = towardZero(s.Vel.X, s.cfg.Decel)
	s.Vel.Y = towardZero(s.Vel.Y, s.cfg.Decel)

	if s.flash > 0 {
		s.flash--
	}
	return false
}

// towardZero moves v toward zero by step without crossing it.
func towardZero(v, step float64) float64 {
	if math.Abs(v) <= step {
		return 0
	}
	if v > 0 {
		return v - step
	}
	return v + step
}
