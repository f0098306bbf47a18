// Package svgstyle holds the computed-style data model shared by every
// rendering context: the affine transform, the inherited style record,
// and the paint variants resolved from it.
package svgstyle

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D is a 2D affine transform, stored as [a b c d e f] in the usual
// SVG order:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the neutral transform.
var Identity = Matrix2D{A: 1, D: 1}

// Mult returns m1 composed after m2, i.e. m1.Mult(m2) applies m2 first.
func (m1 Matrix2D) Mult(m2 Matrix2D) Matrix2D {
	return Matrix2D{
		A: m1.A*m2.A + m1.C*m2.B,
		B: m1.B*m2.A + m1.D*m2.B,
		C: m1.A*m2.C + m1.C*m2.D,
		D: m1.B*m2.C + m1.D*m2.D,
		E: m1.A*m2.E + m1.C*m2.F + m1.E,
		F: m1.B*m2.E + m1.D*m2.F + m1.F,
	}
}

// Translate returns m pre-multiplied by a translation, matching the
// premultiply semantics used throughout the traversal (new transforms are
// applied before the existing ones, in local coordinates).
func (m Matrix2D) Translate(tx, ty float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, D: 1, E: tx, F: ty})
}

func (m Matrix2D) Scale(sx, sy float64) Matrix2D {
	if sy == 0 {
		sy = sx
	}
	return m.Mult(Matrix2D{A: sx, D: sy})
}

func (m Matrix2D) Rotate(radians float64) Matrix2D {
	s, c := math.Sin(radians), math.Cos(radians)
	return m.Mult(Matrix2D{A: c, B: s, C: -s, D: c})
}

func (m Matrix2D) SkewX(radians float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, D: 1, C: math.Tan(radians)})
}

func (m Matrix2D) SkewY(radians float64) Matrix2D {
	return m.Mult(Matrix2D{A: 1, D: 1, B: math.Tan(radians)})
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Invert returns the inverse transform. ok is false for a singular matrix.
func (m Matrix2D) Invert() (Matrix2D, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity, false
	}
	id := 1 / det
	inv := Matrix2D{
		A: m.D * id,
		B: -m.B * id,
		C: -m.C * id,
		D: m.A * id,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// fToFixed converts a float64 user coordinate to a 26.6 fixed-point value,
// the unit rasterx operates in.
func fToFixed(f float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(f * 64)) }

// TransformFixed maps a user-space point to the fixed-point device space
// used by the 2D backend.
func (m Matrix2D) TransformFixed(x, y float64) fixed.Point26_6 {
	tx, ty := m.TransformPoint(x, y)
	return fixed.Point26_6{X: fToFixed(tx), Y: fToFixed(ty)}
}
