// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package image

import (
	"image/color"
	"math"
)

// InterpolationMode defines how texture sampling is performed.
type InterpolationMode uint8

const (
	// InterpNearest selects the texel containing the sample point.
	InterpNearest InterpolationMode = iota

	// InterpBilinear interpolates between the 4 nearest texel centers.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return unknownMode
	}
}

// sampleNearest returns the texel containing texel-space point (fx, fy).
func (p *ImagePattern) sampleNearest(fx, fy float64) color.NRGBA {
	return p.texel(int(math.Floor(fx)), int(math.Floor(fy)))
}

// sampleBilinear interpolates the 4 texels around texel-space point
// (fx, fy). Each neighbor goes through the spread mode on its own, so a
// repeating texture blends across its seam.
func (p *ImagePattern) sampleBilinear(fx, fy float64) color.NRGBA {
	fx -= 0.5
	fy -= 0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)

	c00 := p.texel(ix, iy)
	c10 := p.texel(ix+1, iy)
	c01 := p.texel(ix, iy+1)
	c11 := p.texel(ix+1, iy+1)

	ch := func(v00, v10, v01, v11 uint8) uint8 {
		v := lerp2D(float64(v00), float64(v10), float64(v01), float64(v11), tx, ty)
		return uint8(math.Round(clampFloat(v, 0, 255)))
	}
	return color.NRGBA{
		R: ch(c00.R, c10.R, c01.R, c11.R),
		G: ch(c00.G, c10.G, c01.G, c11.G),
		B: ch(c00.B, c10.B, c01.B, c11.B),
		A: ch(c00.A, c10.A, c01.A, c11.A),
	}
}

// clamp clamps an integer value to [minVal, maxVal].
func clamp(val, minVal, maxVal int) int {
	return min(max(val, minVal), maxVal)
}

// clampFloat clamps a float64 value to [minVal, maxVal].
func clampFloat(val, minVal, maxVal float64) float64 {
	return min(max(val, minVal), maxVal)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}
