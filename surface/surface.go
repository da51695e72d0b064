// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"
)

// Texture is an opaque reference to a texture owned by a Surface.
// Only the surface that created a texture may destroy or draw it.
type Texture interface {
	// Desc returns the descriptor the texture was created with.
	Desc() TextureDesc
}

// Shape is an opaque reference to a compiled shape owned by a Surface.
type Shape interface {
	// VertexCount returns the number of polygon vertices.
	VertexCount() int

	// Textured reports whether the shape carries texture coordinates.
	Textured() bool
}

// Surface is the render surface that vg hands GPU work to.
//
// Example usage:
//
//	s := surface.NewImageSurface(320, 240)
//	defer s.Close()
//
//	tex, err := s.CreateTexture(surface.TextureDesc{Width: 2, Height: 2}, pixels)
//	...
//	_ = s.DestroyTexture(tex)
type Surface interface {
	// CreateTexture creates a texture from tightly packed RGBA pixels.
	// A nil pixels slice creates a zeroed (transparent black) texture.
	CreateTexture(desc TextureDesc, pixels []byte) (Texture, error)

	// DestroyTexture releases a texture created by this surface.
	DestroyTexture(tex Texture) error

	// CompileShape stores a polygon for repeated drawing. texCoords is
	// optional; when present it must have one entry per vertex.
	CompileShape(vertices, texCoords []Vec2) (Shape, error)

	// DestroyShape releases a shape compiled by this surface.
	DestroyShape(shape Shape) error

	// Close releases all resources associated with the surface.
	// After Close, the surface must not be used.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Drawer is an optional interface for surfaces that support immediate-mode
// drawing. Coordinates are target pixels, origin at the top-left.
type Drawer interface {
	// Clear replaces every pixel of the target with c.
	Clear(c color.NRGBA)

	// FillPolygon fills a simple polygon with c, blending over the target.
	FillPolygon(points []Vec2, c color.NRGBA)

	// TexturePolygon fills a polygon with a texture. uvs gives the
	// normalized texture coordinate at each point; the mapping is affine.
	// Texel colors are multiplied by tint.
	TexturePolygon(tex Texture, points, uvs []Vec2, tint color.NRGBA) error

	// DrawShape fills a compiled shape, placed by xf, with c.
	DrawShape(shape Shape, xf Transform, c color.NRGBA) error

	// DrawShapeTextured fills a compiled shape, placed by xf, with tex
	// mapped through the shape's texture coordinates.
	DrawShapeTextured(shape Shape, xf Transform, tex Texture, tint color.NRGBA) error
}

// Editor is an optional interface for surfaces that can draw into one of
// their own textures.
type Editor interface {
	// EditTarget returns a Drawer whose target is tex.
	EditTarget(tex Texture) (Drawer, error)
}

// TextureWriter is an optional interface for surfaces that can replace
// texture contents after creation.
type TextureWriter interface {
	// WriteTexture replaces the region [0,width)x[0,height) of tex.
	WriteTexture(tex Texture, width, height int, pixels []byte) error
}

// TextureReader is an optional interface for surfaces with texture readback.
type TextureReader interface {
	// ReadTexture returns a copy of the texture's RGBA pixels.
	ReadTexture(tex Texture) ([]byte, error)
}

// Framebuffer is an optional interface for surfaces with a CPU-visible
// presentation target.
type Framebuffer interface {
	// Size returns the framebuffer dimensions.
	Size() (width, height int)

	// Snapshot returns a copy of the framebuffer.
	Snapshot() *image.NRGBA
}

// Capabilities describes the optional features a surface supports.
type Capabilities struct {
	Drawing   bool
	Editing   bool
	Writing   bool
	Readback  bool
	Presenter bool
}

// CapabilitiesOf reports which optional interfaces s implements.
func CapabilitiesOf(s Surface) Capabilities {
	_, drawing := s.(Drawer)
	_, editing := s.(Editor)
	_, writing := s.(TextureWriter)
	_, readback := s.(TextureReader)
	_, presenter := s.(Framebuffer)
	return Capabilities{
		Drawing:   drawing,
		Editing:   editing,
		Writing:   writing,
		Readback:  readback,
		Presenter: presenter,
	}
}
