// Package physics provides the geometry kernel: vectors, polygons, point and
// circle tests, and a broad-phase grid for the wrapping playfield.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec) float64 {
	d := b.Sub(a)
	return d.X*d.X + d.Y*d.Y
}

// PointInCircle checks if a point is within radius of a center.
func PointInCircle(p, center Vec, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}

// SegmentIntersectsCircle reports whether segment a-b touches the circle.
func SegmentIntersectsCircle(a, b, center Vec, radius float64) bool {
	d := b.Sub(a)
	f := a.Sub(center)

	qa := d.X*d.X + d.Y*d.Y
	if qa == 0 {
		return PointInCircle(a, center, radius)
	}
	qb := 2 * (f.X*d.X + f.Y*d.Y)
	qc := f.X*f.X + f.Y*f.Y - radius*radius

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return false
	}
	disc = math.Sqrt(disc)
	t1 := (-qb - disc) / (2 * qa)
	t2 := (-qb + disc) / (2 * qa)

	// Either end inside, or the segment passes through.
	return (t1 >= 0 && t1 <= 1) || (t2 >= 0 && t2 <= 1) || (t1 <= 0 && t2 >= 1)
}
