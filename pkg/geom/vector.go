// Package geom provides the vector and transform types used to place
// lattice content: three-component vectors, 3x3 rotation matrices, and
// translation + axis/angle transforms built from numeric input lists.
package geom

import (
	"fmt"
	"math"
)

// Vector is a three-component real vector.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// VectorFrom builds a Vector from the first three values. Missing values
// are treated as zero.
func VectorFrom(values []float64) Vector {
	var c [3]float64
	copy(c[:], values)
	return Vector{X: c[0], Y: c[1], Z: c[2]}
}

// Neg returns the component-wise negation of v.
func (v Vector) Neg() Vector { return Vector{-v.X, -v.Y, -v.Z} }

// Add returns v + o.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul scales v by k.
func (v Vector) Mul(k float64) Vector { return Vector{v.X * k, v.Y * k, v.Z * k} }

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns a unit vector in the direction of v, or the zero
// vector if v has zero length.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return Vector{}
	}
	return v.Mul(1 / n)
}

// IsZero reports whether all components are exactly zero.
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// ApproxEqual reports whether every component of v is within eps of o.
func (v Vector) ApproxEqual(o Vector, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps &&
		math.Abs(v.Y-o.Y) <= eps &&
		math.Abs(v.Z-o.Z) <= eps
}

// Components returns the vector as an array.
func (v Vector) Components() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// String renders the vector as "(x, y, z)".
func (v Vector) String() string {
	return fmt.Sprintf("(%s, %s, %s)", formatReal(v.X), formatReal(v.Y), formatReal(v.Z))
}

// formatReal prints a float with six significant digits and no trailing
// zeros, e.g. 1, 0.5, 1e-07.
func formatReal(f float64) string {
	if f == 0 {
		// avoid "-0"
		return "0"
	}
	return fmt.Sprintf("%.6g", f)
}
