// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package image samples textures for the CPU surface.
package image

import (
	"math"
)

// Point is a 2D point in pixel or texture space.
type Point struct {
	X, Y float64
}

// Affine represents a 2D affine transformation matrix.
//
// The transformation is represented as a 3x3 matrix:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
type Affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a transformation that shifts points by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Scale returns a transformation that scales by (sx, sy) around the origin.
func Scale(sx, sy float64) Affine {
	return Affine{a: sx, e: sy}
}

// Rotate returns a rotation by angle radians around the origin. Positive
// angles rotate counter-clockwise in a y-up frame.
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		a: cos, b: -sin,
		d: sin, e: cos,
	}
}

// Multiply returns a * other: the result applies other first, then a.
func (a Affine) Multiply(other Affine) Affine {
	return Affine{
		a: a.a*other.a + a.b*other.d,
		b: a.a*other.b + a.b*other.e,
		c: a.a*other.c + a.b*other.f + a.c,
		d: a.d*other.a + a.e*other.d,
		e: a.d*other.b + a.e*other.e,
		f: a.d*other.c + a.e*other.f + a.f,
	}
}

// Invert returns the inverse transformation, or false if the matrix is
// singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}
	invDet := 1.0 / det
	return Affine{
		a: a.e * invDet,
		b: -a.b * invDet,
		c: (a.b*a.f - a.c*a.e) * invDet,
		d: -a.d * invDet,
		e: a.a * invDet,
		f: (a.c*a.d - a.a*a.f) * invDet,
	}, true
}

// TransformPoint applies the transformation to (x, y).
func (a Affine) TransformPoint(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// basis maps barycentric-style coordinates (s, t) to o + s*(p1-o) + t*(p2-o).
func basis(o, p1, p2 Point) Affine {
	return Affine{
		a: p1.X - o.X, b: p2.X - o.X, c: o.X,
		d: p1.Y - o.Y, e: p2.Y - o.Y, f: o.Y,
	}
}

// Fit returns the affine map that sends each point to its texture
// coordinate. It is derived from the first vertex and the first pair of
// later vertices that span a triangle; it reports false when every triple
// is collinear or the slices differ in length.
func Fit(points, uvs []Point) (Affine, bool) {
	if len(points) < 3 || len(points) != len(uvs) {
		return Affine{}, false
	}
	for i := 1; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			inv, ok := basis(points[0], points[i], points[j]).Invert()
			if !ok {
				continue
			}
			return basis(uvs[0], uvs[i], uvs[j]).Multiply(inv), true
		}
	}
	return Affine{}, false
}
