package physics

import (
	"errors"
	"math"
	"math/rand"
)

var (
	// ErrTooFewVertices is returned when a polygon would have fewer than 3 vertices.
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	// ErrInvalidRadius is returned for a non-positive generation radius.
	ErrInvalidRadius = errors.New("polygon radius must be positive")
)

// Polygon is an ordered list of vertices in a local frame. World position is
// supplied by the caller at query time. Every Polygon owns its vertex slice.
type Polygon struct {
	points []Vec
}

// NewPolygon copies points into a new polygon.
func NewPolygon(points []Vec) (Polygon, error) {
	if len(points) < 3 {
		return Polygon{}, ErrTooFewVertices
	}
	owned := make([]Vec, len(points))
	copy(owned, points)
	return Polygon{points: owned}, nil
}

// RandomPolygon builds an irregular polygon with sides vertices at even
// angular spacing and radii in [0.5, 1.4) * baseRadius.
func RandomPolygon(rng *rand.Rand, sides int, baseRadius float64) (Polygon, error) {
	if sides < 3 {
		return Polygon{}, ErrTooFewVertices
	}
	if baseRadius <= 0 {
		return Polygon{}, ErrInvalidRadius
	}

	step := 2 * math.Pi / float64(sides)
	points := make([]Vec, sides)
	for i := range points {
		r := baseRadius * (0.5 + rng.Float64()*0.9)
		angle := float64(i) * step
		points[i] = Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}
	return Polygon{points: points}, nil
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.points)
}

// Vertex returns the i-th local vertex.
func (p Polygon) Vertex(i int) Vec {
	return p.points[i]
}

// Points returns a copy of the local vertices.
func (p Polygon) Points() []Vec {
	out := make([]Vec, len(p.points))
	copy(out, p.points)
	return out
}

// Clone returns a polygon with its own copy of the vertices.
func (p Polygon) Clone() Polygon {
	return Polygon{points: p.Points()}
}

// WorldPoints returns the vertices translated to pos.
func (p Polygon) WorldPoints(pos Vec) []Vec {
	out := make([]Vec, len(p.points))
	for i, v := range p.points {
		out[i] = pos.Add(v)
	}
	return out
}

// Centroid returns the mean of the current vertices.
func (p Polygon) Centroid() Vec {
	var sum Vec
	for _, v := range p.points {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p.points)))
}

// Radius returns the largest vertex distance from the local origin.
func (p Polygon) Radius() float64 {
	r := 0.0
	for _, v := range p.points {
		r = math.Max(r, v.Len())
	}
	return r
}

// Rotate turns every vertex in place about the centroid by deg degrees.
// Callers pass the per-tick delta, never an accumulated heading.
func (p *Polygon) Rotate(deg float64) {
	if deg == 0 {
		return
	}
	c := p.Centroid()
	for i, v := range p.points {
		p.points[i] = c.Add(v.Sub(c).Rotate(deg))
	}
}

// Contains reports whether pt lies inside the polygon placed at pos.
//
// Points on a horizontal edge (strictly between its ends) and points equal to
// a vertex count as inside; everything else is decided by a +x ray crossing
// count. Comparisons happen in world space so a vertex of the placed polygon
// always matches exactly.
func (p Polygon) Contains(pos, pt Vec) bool {
	inside := false
	n := len(p.points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := pos.X+p.points[i].X, pos.Y+p.points[i].Y
		xj, yj := pos.X+p.points[j].X, pos.Y+p.points[j].Y

		if yi == pt.Y && yj == pt.Y && pt.X > math.Min(xi, xj) && pt.X < math.Max(xi, xj) {
			return true
		}
		if (xi == pt.X && yi == pt.Y) || (xj == pt.X && yj == pt.Y) {
			return true
		}

		if (yi > pt.Y) != (yj > pt.Y) {
			intersectX := (xj-xi)*(pt.Y-yi)/(yj-yi) + xi
			if pt.X < intersectX {
				inside = !inside
			}
		}
	}
	return inside
}

// IntersectsCircle reports whether the polygon placed at pos overlaps the
// circle: a vertex inside it, an edge crossing it, or its center inside the
// polygon.
func (p Polygon) IntersectsCircle(pos, center Vec, radius float64) bool {
	n := len(p.points)
	for i := 0; i < n; i++ {
		a := pos.Add(p.points[i])
		b := pos.Add(p.points[(i+1)%n])
		if PointInCircle(a, center, radius) || SegmentIntersectsCircle(a, b, center, radius) {
			return true
		}
	}
	return p.Contains(pos, center)
}
