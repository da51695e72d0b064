// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package image

import (
	goimage "image"
	"image/color"
)

// SpreadMode determines how texel indices outside the image resolve.
type SpreadMode uint8

const (
	// SpreadPad clamps to the nearest edge texel (default).
	SpreadPad SpreadMode = iota

	// SpreadRepeat tiles the image.
	SpreadRepeat
)

const unknownMode = "Unknown"

// String returns a string representation of the spread mode.
func (s SpreadMode) String() string {
	switch s {
	case SpreadPad:
		return "Pad"
	case SpreadRepeat:
		return "Repeat"
	default:
		return unknownMode
	}
}

var opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ImagePattern samples an image through an affine map from device pixels
// to normalized texture coordinates, where (0,0) is the top-left corner of
// the image and (1,1) the bottom-right.
//
// Default settings:
//   - Identity transform
//   - SpreadPad mode
//   - InterpNearest interpolation
//   - Opaque white tint
type ImagePattern struct {
	img        *goimage.NRGBA
	transform  Affine
	spreadMode SpreadMode
	interp     InterpolationMode
	tint       color.NRGBA
}

// NewImagePattern creates a pattern from an image. Returns nil if img is nil
// or empty.
func NewImagePattern(img *goimage.NRGBA) *ImagePattern {
	if img == nil || img.Rect.Empty() {
		return nil
	}
	return &ImagePattern{
		img:        img,
		transform:  Identity(),
		spreadMode: SpreadPad,
		interp:     InterpNearest,
		tint:       opaqueWhite,
	}
}

// WithTransform sets the map from device pixels to texture coordinates.
func (p *ImagePattern) WithTransform(t Affine) *ImagePattern {
	p.transform = t
	return p
}

// WithSpreadMode sets how coordinates outside [0,1] resolve.
func (p *ImagePattern) WithSpreadMode(mode SpreadMode) *ImagePattern {
	p.spreadMode = mode
	return p
}

// WithInterpolation sets the interpolation mode.
func (p *ImagePattern) WithInterpolation(mode InterpolationMode) *ImagePattern {
	p.interp = mode
	return p
}

// WithTint sets the color every sample is multiplied by, channel-wise.
func (p *ImagePattern) WithTint(tint color.NRGBA) *ImagePattern {
	p.tint = tint
	return p
}

// Sample returns the color at device pixel coordinates (x, y).
//
// The sampling process:
//  1. Apply the transform to get texture coordinates
//  2. Interpolate texels, each resolved by the spread mode
//  3. Multiply by the tint
//
// Returns a transparent color if the pattern is nil.
func (p *ImagePattern) Sample(x, y float64) color.NRGBA {
	if p == nil || p.img == nil {
		return color.NRGBA{}
	}
	u, v := p.transform.TransformPoint(x, y)
	b := p.img.Rect
	fx, fy := u*float64(b.Dx()), v*float64(b.Dy())

	var c color.NRGBA
	if p.interp == InterpBilinear {
		c = p.sampleBilinear(fx, fy)
	} else {
		c = p.sampleNearest(fx, fy)
	}
	return Modulate(c, p.tint)
}

// texel returns the texel at integer coordinates relative to the image
// origin, resolved by the spread mode.
func (p *ImagePattern) texel(x, y int) color.NRGBA {
	b := p.img.Rect
	w, h := b.Dx(), b.Dy()
	if p.spreadMode == SpreadRepeat {
		x = ((x % w) + w) % w
		y = ((y % h) + h) % h
	} else {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
	}
	return p.img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
}

// Modulate multiplies c by tint channel-wise.
func Modulate(c, tint color.NRGBA) color.NRGBA {
	if tint == opaqueWhite {
		return c
	}
	mul := func(a, b uint8) uint8 {
		return uint8((uint32(a)*uint32(b) + 127) / 255)
	}
	return color.NRGBA{
		R: mul(c.R, tint.R),
		G: mul(c.G, tint.G),
		B: mul(c.B, tint.B),
		A: mul(c.A, tint.A),
	}
}

// Image returns the sampled image.
func (p *ImagePattern) Image() *goimage.NRGBA {
	if p == nil {
		return nil
	}
	return p.img
}

// SpreadMode returns the current spread mode.
func (p *ImagePattern) SpreadMode() SpreadMode {
	if p == nil {
		return SpreadPad
	}
	return p.spreadMode
}

// Interpolation returns the current interpolation mode.
func (p *ImagePattern) Interpolation() InterpolationMode {
	if p == nil {
		return InterpNearest
	}
	return p.interp
}
