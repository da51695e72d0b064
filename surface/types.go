// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"math"

	vgimage "github.com/gogpu/vg/internal/image"
)

// FilterMode selects texture sampling between texels.
type FilterMode uint8

const (
	// FilterNearest samples the closest texel.
	FilterNearest FilterMode = iota

	// FilterLinear blends the four closest texels.
	FilterLinear
)

// String returns the filter name.
func (f FilterMode) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterLinear:
		return "linear"
	default:
		return fmt.Sprintf("FilterMode(%d)", f)
	}
}

// ParseFilterMode converts "nearest" or "linear" to a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "nearest", "":
		return FilterNearest, nil
	case "linear":
		return FilterLinear, nil
	}
	return 0, fmt.Errorf("surface: unknown filter mode %q", s)
}

// WrapMode selects how texture coordinates outside [0,1] are resolved.
type WrapMode uint8

const (
	// WrapClamp clamps coordinates to the edge texels.
	WrapClamp WrapMode = iota

	// WrapRepeat tiles the texture.
	WrapRepeat
)

// String returns the wrap name.
func (w WrapMode) String() string {
	switch w {
	case WrapClamp:
		return "clamp"
	case WrapRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("WrapMode(%d)", w)
	}
}

// ParseWrapMode converts "clamp" or "repeat" to a WrapMode.
func ParseWrapMode(s string) (WrapMode, error) {
	switch s {
	case "clamp", "":
		return WrapClamp, nil
	case "repeat":
		return WrapRepeat, nil
	}
	return 0, fmt.Errorf("surface: unknown wrap mode %q", s)
}

// TextureDesc describes a texture to create.
type TextureDesc struct {
	Width  int
	Height int
	Filter FilterMode
	Wrap   WrapMode
}

// MaxTextureSize is the largest texture side accepted by every backend.
const MaxTextureSize = 16384

// PixelBytes returns the size of a tightly packed RGBA buffer for the
// descriptor, or 0 if either side is outside 1..MaxTextureSize.
func (d TextureDesc) PixelBytes() int {
	if !validSide(d.Width) || !validSide(d.Height) {
		return 0
	}
	return d.Width * d.Height * 4
}

func validSide(n int) bool {
	return n > 0 && n <= MaxTextureSize
}

func (d TextureDesc) validate(pixels []byte) error {
	if !validSide(d.Width) || !validSide(d.Height) {
		return fmt.Errorf("%w: %dx%d (max side %d)", ErrInvalidDimensions, d.Width, d.Height, MaxTextureSize)
	}
	if pixels != nil && len(pixels) != d.PixelBytes() {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrPixelDataSize, len(pixels), d.PixelBytes(), d.Width, d.Height)
	}
	return nil
}

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float32
}

// V2 creates a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Transform places a compiled shape: scale first, then rotate, then
// translate.
type Transform struct {
	X, Y float32

	// Rotation is in degrees, counter-clockwise in a y-up frame.
	Rotation float32

	Scale float32
}

// Identity returns a transform that leaves vertices unchanged.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps v through the transform.
func (t Transform) Apply(v Vec2) Vec2 {
	x, y := t.affine().TransformPoint(float64(v.X), float64(v.Y))
	return Vec2{X: float32(x), Y: float32(y)}
}

func (t Transform) affine() vgimage.Affine {
	s := float64(t.Scale)
	return vgimage.Translate(float64(t.X), float64(t.Y)).
		Multiply(vgimage.Rotate(float64(t.Rotation) * math.Pi / 180)).
		Multiply(vgimage.Scale(s, s))
}

// Options configures surface creation through the registry.
type Options struct {
	// Width is the framebuffer width in pixels.
	Width int

	// Height is the framebuffer height in pixels.
	Height int

	// Custom options for specific backends.
	Custom map[string]any
}
