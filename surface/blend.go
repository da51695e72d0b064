// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"
	"math"
)

// blendOver composites src over the pixel at (x, y) with straight alpha,
// scaling src alpha by the coverage cov.
func blendOver(dst *image.NRGBA, x, y int, src color.NRGBA, cov uint8) {
	sa := float64(src.A) / 255 * float64(cov) / 255
	if sa <= 0 {
		return
	}
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	if sa >= 1 {
		p[0], p[1], p[2], p[3] = src.R, src.G, src.B, 255
		return
	}

	da := float64(p[3]) / 255
	outA := sa + da*(1-sa)
	ch := func(s, d uint8) uint8 {
		return uint8(math.Round((float64(s)*sa + float64(d)*da*(1-sa)) / outA))
	}
	p[0] = ch(src.R, p[0])
	p[1] = ch(src.G, p[1])
	p[2] = ch(src.B, p[2])
	p[3] = uint8(math.Round(outA * 255))
}

func floor32(v float32) float32 { return float32(math.Floor(float64(v))) }
func ceil32(v float32) float32  { return float32(math.Ceil(float64(v))) }
