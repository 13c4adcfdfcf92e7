package physics

import "math"

// Vec is a 2D point or displacement in field units.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Len returns the magnitude of v.
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector of v. The zero vector stays zero.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Rotate rotates v about the origin by deg degrees (clockwise on screen,
// since y grows downwards).
func (v Vec) Rotate(deg float64) Vec {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Wrap folds a coordinate back into [0, max) the way the playfield does:
// anything below zero re-enters at max-1, anything at or past max re-enters at 0.
func Wrap(value, max float64) float64 {
	if value < 0 {
		return max - 1
	}
	if value >= max {
		return 0
	}
	return value
}

// WrapVec applies Wrap independently to each axis.
func WrapVec(v Vec, width, height float64) Vec {
	return Vec{X: Wrap(v.X, width), Y: Wrap(v.Y, height)}
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
