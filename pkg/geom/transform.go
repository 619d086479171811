package geom

import (
	"fmt"
	"log/slog"
	"math"
)

// degenerateSin is the |sin(angle)| below which the general axis formula is
// not used: the rotation is treated as identity (angle near 0) or as a
// half turn (angle near 180°).
const degenerateSin = 1e-6

// Transform is a translation plus an optional rotation about an axis.
// Axis and Angle are only meaningful when HasRotation is true. Angle is in
// degrees.
type Transform struct {
	Translation Vector  `json:"translation"`
	HasRotation bool    `json:"has_rotation"`
	Axis        Vector  `json:"axis,omitzero"`
	Angle       float64 `json:"angle,omitempty"`
}

// NewTranslation returns a pure translation by v.
func NewTranslation(v Vector) Transform {
	return Transform{Translation: v}
}

// NewTransform builds a transform from a numeric input list. The length of
// the list selects the interpretation:
//
//	3       translation only
//	9       translation, then two rows of the rotation basis; the third
//	        row is their cross product
//	12, 13  translation, then all nine rotation values; with 13 values a
//	        trailing -1 negates the translation
//
// When degrees is set every rotation value is an angle in degrees and its
// cosine is used as the direction cosine. Any other length yields a
// translation-only transform and a logged warning; it never fails.
func NewTransform(inputs []float64, degrees bool) Transform {
	t := Transform{Translation: VectorFrom(inputs)}

	n := len(inputs)
	switch n {
	case 3:
		return t
	case 9, 12, 13:
	default:
		slog.Warn("transformation input count is unsupported; pretending there is no rotation, expect incorrect geometry",
			"count", n, "inputs", inputs)
		return t
	}

	if n == 13 && inputs[12] == -1.0 {
		slog.Info("transformation has M = -1; inverting the translation, though this might not be what you wanted",
			"inputs", inputs)
		t.Translation = t.Translation.Neg()
	}

	m := RotationMatrix(inputs, degrees)
	axis, angle, ok := DecomposeRotation(m)
	if !ok {
		if m.ApproxEqual(Identity3(), degenerateSin) {
			slog.Debug("transformation rotation is the identity", "inputs", inputs)
		} else {
			slog.Warn("transformation rotation matrix has no rotation axis; ignoring the rotation, expect incorrect geometry",
				"inputs", inputs)
		}
		return t
	}
	t.HasRotation = true
	t.Axis = axis
	t.Angle = angle
	return t
}

// RotationMatrix extracts the rotation matrix from a 9, 12 or 13 value
// input list. The rotation values are read as three triples; the triples
// are the matrix columns. For 9 values the third triple is the cross
// product of the first two. Other lengths return the identity.
func RotationMatrix(inputs []float64, degrees bool) Matrix3 {
	var raw [9]float64
	switch len(inputs) {
	case 9:
		for i := 3; i < 9; i++ {
			raw[i-3] = directionCosine(inputs[i], degrees)
		}
		v3 := VectorFrom(raw[0:3]).Cross(VectorFrom(raw[3:6]))
		raw[6], raw[7], raw[8] = v3.X, v3.Y, v3.Z
	case 12, 13:
		for i := 3; i < 12; i++ {
			raw[i-3] = directionCosine(inputs[i], degrees)
		}
	default:
		return Identity3()
	}
	return Matrix3FromCols(VectorFrom(raw[0:3]), VectorFrom(raw[3:6]), VectorFrom(raw[6:9]))
}

func directionCosine(v float64, degrees bool) float64 {
	if degrees {
		return math.Cos(v * math.Pi / 180.0)
	}
	return v
}

// DecomposeRotation converts a rotation matrix to axis/angle form with the
// angle in degrees. ok is false when the matrix is (numerically) the
// identity or yields no axis, as for -I or the zero matrix; axis and angle
// are then zero. Half turns, where the general formula divides by zero,
// take the axis from the symmetric part of m.
func DecomposeRotation(m Matrix3) (axis Vector, angle float64, ok bool) {
	c := (m.Trace() - 1) / 2
	c = math.Max(-1, math.Min(1, c))
	theta := math.Acos(c)
	s := math.Sin(theta)

	switch {
	case math.Abs(s) >= degenerateSin:
		twoSin := 2 * s
		axis = Vector{
			X: (m[2][1] - m[1][2]) / twoSin,
			Y: (m[0][2] - m[2][0]) / twoSin,
			Z: (m[1][0] - m[0][1]) / twoSin,
		}
	case c > 0:
		return Vector{}, 0, false
	default:
		axis = halfTurnAxis(m)
	}
	// NaN fails this comparison too.
	if !(axis.Norm() >= degenerateSin) {
		return Vector{}, 0, false
	}
	return axis, theta * 180.0 / math.Pi, true
}

// halfTurnAxis recovers the axis of a 180° rotation, for which
// m = 2·k·kᵀ − I. It returns the zero vector when no diagonal entry
// exceeds -1.
func halfTurnAxis(m Matrix3) Vector {
	i := 0
	for j := 1; j < 3; j++ {
		if m[j][j] > m[i][i] {
			i = j
		}
	}
	var k [3]float64
	k[i] = math.Sqrt(math.Max(0, (m[i][i]+1)/2))
	if k[i] < degenerateSin {
		return Vector{}
	}
	for j := 0; j < 3; j++ {
		if j != i {
			k[j] = (m[i][j] + m[j][i]) / (4 * k[i])
		}
	}
	return Vector{k[0], k[1], k[2]}.Normalize()
}

// Reverse returns the placement inverse used by downstream consumers:
// translation and axis are negated and the angle is kept. This is not a
// general rigid-transform inverse; it holds because translation and
// rotation are applied independently.
func (t Transform) Reverse() Transform {
	return Transform{
		Translation: t.Translation.Neg(),
		HasRotation: t.HasRotation,
		Axis:        t.Axis.Neg(),
		Angle:       t.Angle,
	}
}

// IsIdentity reports whether t neither translates nor rotates.
func (t Transform) IsIdentity() bool {
	return t.Translation.IsZero() && (!t.HasRotation || t.Angle == 0)
}

// Matrix returns the rotation matrix of t, or the identity if t has no
// rotation.
func (t Transform) Matrix() Matrix3 {
	if !t.HasRotation {
		return Identity3()
	}
	k := t.Axis.Normalize()
	theta := t.Angle * math.Pi / 180.0
	c, s := math.Cos(theta), math.Sin(theta)
	v := 1 - c
	return Matrix3{
		{c + k.X*k.X*v, k.X*k.Y*v - k.Z*s, k.X*k.Z*v + k.Y*s},
		{k.Y*k.X*v + k.Z*s, c + k.Y*k.Y*v, k.Y*k.Z*v - k.X*s},
		{k.Z*k.X*v - k.Y*s, k.Z*k.Y*v + k.X*s, c + k.Z*k.Z*v},
	}
}

// Apply rotates p and then translates it.
func (t Transform) Apply(p Vector) Vector {
	return t.Matrix().MulVector(p).Add(t.Translation)
}

// String renders "[trans (x, y, z)]", with "(angle:(ax, ay, az))" appended
// inside the brackets when t has a rotation.
func (t Transform) String() string {
	if !t.HasRotation {
		return fmt.Sprintf("[trans %s]", t.Translation)
	}
	return fmt.Sprintf("[trans %s(%s:%s)]", t.Translation, formatReal(t.Angle), t.Axis)
}
