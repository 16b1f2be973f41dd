package core

// Mat3 is a column-major 3×3 rotation matrix.
type Mat3 [9]float64

// Mat3Identity returns the identity rotation.
func Mat3Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromColumns builds a matrix whose columns are the given vectors.
func Mat3FromColumns(c0, c1, c2 Vec3) Mat3 {
	return Mat3{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
	}
}

// Column returns column i of the matrix.
func (m Mat3) Column(i int) Vec3 {
	return Vec3{X: m[3*i], Y: m[3*i+1], Z: m[3*i+2]}
}

// MulVec applies the rotation to v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		Y: m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		Z: m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Mul returns m * n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[3*k+row] * n[3*col+k]
			}
			out[3*col+row] = sum
		}
	}
	return out
}

// Transpose returns the transposed matrix. For pure rotations this is the
// inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Mat4 is a column-major 4×4 affine transform: rotation (possibly with a
// uniform scale) plus translation, with no perspective row.
type Mat4 [16]float64

// Mat4Identity returns the identity transform.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromRotationTranslation builds an affine transform from a 3×3
// rotation and a translation.
func Mat4FromRotationTranslation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], 0,
		r[3], r[4], r[5], 0,
		r[6], r[7], r[8], 0,
		t.X, t.Y, t.Z, 1,
	}
}

// Mat4Scale returns a uniform scale transform.
func Mat4Scale(s float64) Mat4 {
	return Mat4{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		0, 0, 0, 1,
	}
}

// Rotation extracts the upper-left 3×3 block.
func (m Mat4) Rotation() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation extracts the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// MulPoint applies the transform to a point (w = 1).
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// MulVector applies only the rotation/scale part to a direction (w = 0).
func (m Mat4) MulVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Mul returns m * n, composing n first and m second.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[4*k+row] * n[4*col+k]
			}
			out[4*col+row] = sum
		}
	}
	return out
}

// AffineInverse inverts a rotation+scale+translation transform by inverting
// the 3×3 block analytically and rotating the translation back through it.
// This is numerically better behaved than a general 4×4 inverse and is the
// only inversion used for the transform chain.
func (m Mat4) AffineInverse() Mat4 {
	r := m.Rotation()

	// Adjugate / determinant inverse of the 3×3 block.
	c00 := r[4]*r[8] - r[7]*r[5]
	c01 := r[7]*r[2] - r[1]*r[8]
	c02 := r[1]*r[5] - r[4]*r[2]
	c10 := r[6]*r[5] - r[3]*r[8]
	c11 := r[0]*r[8] - r[6]*r[2]
	c12 := r[3]*r[2] - r[0]*r[5]
	c20 := r[3]*r[7] - r[6]*r[4]
	c21 := r[6]*r[1] - r[0]*r[7]
	c22 := r[0]*r[4] - r[3]*r[1]

	det := r[0]*c00 + r[3]*c01 + r[6]*c02
	inv := 1 / det

	ri := Mat3{
		c00 * inv, c01 * inv, c02 * inv,
		c10 * inv, c11 * inv, c12 * inv,
		c20 * inv, c21 * inv, c22 * inv,
	}

	t := ri.MulVec(m.Translation()).Scale(-1)
	return Mat4FromRotationTranslation(ri, t)
}
