package geom

// Matrix3 is a 3x3 real matrix indexed [row][col].
type Matrix3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Matrix3FromRows assembles a matrix whose rows are r0, r1, r2.
func Matrix3FromRows(r0, r1, r2 Vector) Matrix3 {
	return Matrix3{
		{r0.X, r0.Y, r0.Z},
		{r1.X, r1.Y, r1.Z},
		{r2.X, r2.Y, r2.Z},
	}
}

// Matrix3FromCols assembles a matrix whose columns are c0, c1, c2.
func Matrix3FromCols(c0, c1, c2 Vector) Matrix3 {
	return Matrix3FromRows(c0, c1, c2).Transpose()
}

// Transpose returns the transpose of m.
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// Trace returns m00 + m11 + m22.
func (m Matrix3) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Row returns row i.
func (m Matrix3) Row(i int) Vector {
	return Vector{m[i][0], m[i][1], m[i][2]}
}

// MulVector returns m·v.
func (m Matrix3) MulVector(v Vector) Vector {
	return Vector{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns the matrix product m·o.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// ApproxEqual reports whether every element of m is within eps of o.
func (m Matrix3) ApproxEqual(o Matrix3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if !m.Row(i).ApproxEqual(o.Row(i), eps) {
			return false
		}
	}
	return true
}
