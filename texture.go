package vg

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/surface"
)

// CreateTexture creates a width x height texture from tightly packed RGBA
// pixels, first row first. nil pixels give a transparent texture.
//
// CreateTexture implements itex.TextureCreator.
func (l *Library) CreateTexture(width, height int, filter surface.FilterMode, wrap surface.WrapMode, pixels []byte) (handle.Handle, error) {
	if l.closed {
		return 0, ErrLibraryClosed
	}
	h, err := l.textures.Allocate()
	if err != nil {
		return 0, fmt.Errorf("vg: create texture: %w", err)
	}

	desc := surface.TextureDesc{Width: width, Height: height, Filter: filter, Wrap: wrap}
	tex, err := l.surf.CreateTexture(desc, pixels)
	if err != nil {
		_, _ = l.textures.Release(h)
		return 0, fmt.Errorf("vg: create texture: %w", err)
	}
	if err := l.textures.Set(h, tex); err != nil {
		return 0, err
	}

	Logger().Debug("vg: texture created",
		slog.Int("handle", int(h)),
		slog.Int("width", width),
		slog.Int("height", height))
	return h, nil
}

// DestroyTexture frees the texture and its handle. The handle is released
// even if the surface reports an error.
func (l *Library) DestroyTexture(h handle.Handle) error {
	if l.closed {
		return ErrLibraryClosed
	}
	tex, err := l.textures.Release(h)
	if err != nil {
		return err
	}
	if l.edit != nil && l.edit.drawer != nil && l.edit.target == h {
		l.edit.drawer = nil
	}
	Logger().Debug("vg: texture destroyed", slog.Int("handle", int(h)))

	if err := l.surf.DestroyTexture(tex); err != nil {
		return fmt.Errorf("vg: destroy texture %d: %w", h, err)
	}
	return nil
}

// UseTexture selects the texture for RectTexture, RectTextureOffset and
// DrawShapeTextured. The handle is checked when drawing.
func (l *Library) UseTexture(h handle.Handle) {
	l.texture = h
}

// TextureFilter sets the color textured drawing is multiplied with.
func (l *Library) TextureFilter(r, g, b, a uint8) {
	l.tint = color.NRGBA{R: r, G: g, B: b, A: a}
}

// TextureFilterReset restores the opaque white texture filter.
func (l *Library) TextureFilterReset() {
	l.tint = opaqueWhite
}

// TextureData returns a copy of the texture's RGBA pixels, first row
// first. The surface must implement surface.TextureReader.
func (l *Library) TextureData(h handle.Handle) ([]byte, error) {
	if l.closed {
		return nil, ErrLibraryClosed
	}
	r, ok := l.surf.(surface.TextureReader)
	if !ok {
		return nil, fmt.Errorf("%w: texture readback", ErrNotSupported)
	}
	tex, err := l.textures.Get(h)
	if err != nil {
		return nil, err
	}
	return r.ReadTexture(tex)
}

// activeTexture resolves the texture selected with UseTexture.
func (l *Library) activeTexture() (surface.Texture, error) {
	tex, err := l.textures.Get(l.texture)
	if err != nil {
		return nil, fmt.Errorf("vg: active texture: %w", err)
	}
	return tex, nil
}
