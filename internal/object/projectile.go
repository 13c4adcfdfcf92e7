package object

import (
	"time"

	"github.com/tomz197/polyroids/internal/config"
	"github.com/tomz197/polyroids/internal/physics"
)

// Projectile is a bullet fired by the ship.
type Projectile struct {
	Pos     physics.Vec
	Vel     physics.Vec
	Expires time.Time
	Dead    bool // Marked for removal
}

// NewProjectile creates a projectile at the ship's nose. It inherits the
// ship's velocity plus its own speed along the nose direction.
func NewProjectile(ship *Ship, cfg config.Projectiles, now time.Time) *Projectile {
	return &Projectile{
		Pos:     ship.Nose(),
		Vel:     ship.Vel.Add(ship.Direction().Scale(cfg.Speed)),
		Expires: now.Add(cfg.Lifetime),
	}
}

// Expired reports whether the projectile's lifetime has run out.
func (p *Projectile) Expired(now time.Time) bool {
	return !now.Before(p.Expires)
}

// Update moves the projectile and checks lifetime.
func (p *Projectile) Update(ctx UpdateContext) bool {
	if p.Dead || p.Expired(ctx.Now) {
		p.Dead = true
		return true
	}
	p.Pos = physics.WrapVec(p.Pos.Add(p.Vel), ctx.Field.Width, ctx.Field.Height)
	return false
}
