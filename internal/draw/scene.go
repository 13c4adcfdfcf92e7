package draw

import (
	"github.com/tomz197/polyroids/internal/game"
)

// Brightness per kind of object.
const (
	rockLevel       uint8 = 200
	shipLevel       uint8 = 255
	projectileLevel uint8 = 255
	particleLevel   uint8 = 180
)

// Scene draws everything in snap onto c. It does not clear the canvas.
func Scene(c *Canvas, snap game.Snapshot) {
	for _, r := range snap.Rocks {
		c.Polygon(r.Points, rockLevel)
	}
	for _, s := range snap.Segments {
		c.Line(s.A, s.B, Level(s.Alpha))
	}
	for _, p := range snap.Particles {
		c.Square(p.Pos, p.Size, particleLevel)
	}
	for _, p := range snap.Projectiles {
		c.Plot(p, projectileLevel)
	}
	if snap.Ship.Visible {
		c.Polygon(snap.Ship.Points, shipLevel)
	}
}
