package vg

import (
	"fmt"
	"image/color"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/surface"
)

// editState is the texture currently receiving Edit* drawing. drawer is
// nil until EditTexture succeeds and after the target is destroyed.
type editState struct {
	target  handle.Handle
	drawer  surface.Drawer
	color   color.NRGBA
	texture handle.Handle // EditUseTexture
}

// EditTexture makes h the target of the Edit* calls. Editing coordinates
// are texture pixels. The target stays selected until another EditTexture
// call or until it is destroyed.
func (l *Library) EditTexture(h handle.Handle) error {
	if l.closed {
		return ErrLibraryClosed
	}
	ed, ok := l.surf.(surface.Editor)
	if !ok {
		return fmt.Errorf("%w: texture editing", ErrNotSupported)
	}
	tex, err := l.textures.Get(h)
	if err != nil {
		return err
	}
	d, err := ed.EditTarget(tex)
	if err != nil {
		return fmt.Errorf("vg: edit texture %d: %w", h, err)
	}

	st := &editState{target: h, drawer: d, color: opaqueWhite}
	if l.edit != nil {
		st.color = l.edit.color
		st.texture = l.edit.texture
	}
	l.edit = st
	return nil
}

// EditTarget returns the handle being edited.
func (l *Library) EditTarget() (handle.Handle, bool) {
	if l.edit == nil || l.edit.drawer == nil {
		return 0, false
	}
	return l.edit.target, true
}

// EditColor sets the color of edit drawing. It may be called before
// EditTexture.
func (l *Library) EditColor(r, g, b, a uint8) {
	c := color.NRGBA{R: r, G: g, B: b, A: a}
	if l.edit == nil {
		l.edit = &editState{color: c}
		return
	}
	l.edit.color = c
}

// EditUseTexture selects the source texture of EditShapeTextured.
func (l *Library) EditUseTexture(h handle.Handle) {
	if l.edit == nil {
		l.edit = &editState{color: opaqueWhite, texture: h}
		return
	}
	l.edit.texture = h
}

// EditPoint sets one texel to the edit color.
func (l *Library) EditPoint(x, y int) error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	st.drawer.FillPolygon(pointPoints(float32(x), float32(y), 1), st.color)
	return nil
}

// EditLine draws a one texel wide line.
func (l *Library) EditLine(x1, y1, x2, y2 int) error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	st.drawer.FillPolygon(linePoints(float32(x1), float32(y1), float32(x2), float32(y2), 1), st.color)
	return nil
}

// EditRect fills a rectangle of texels.
func (l *Library) EditRect(x, y, w, h int) error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	st.drawer.FillPolygon(rectPoints(float32(x), float32(y), float32(w), float32(h)), st.color)
	return nil
}

// EditShape draws a compiled shape into the texture with the edit color.
func (l *Library) EditShape(shape handle.Handle, x, y, r, s float32) error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	sh, err := l.shapes.Get(shape)
	if err != nil {
		return err
	}
	return st.drawer.DrawShape(sh, surface.Transform{X: x, Y: y, Rotation: r, Scale: s}, st.color)
}

// EditShapeTextured draws a textured shape into the edited texture, using
// the texture chosen with EditUseTexture and the library texture filter.
func (l *Library) EditShapeTextured(shape handle.Handle, x, y, r, s float32) error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	sh, err := l.shapes.Get(shape)
	if err != nil {
		return err
	}
	src, err := l.textures.Get(st.texture)
	if err != nil {
		return fmt.Errorf("vg: edit source texture: %w", err)
	}
	return st.drawer.DrawShapeTextured(sh, surface.Transform{X: x, Y: y, Rotation: r, Scale: s}, src, l.tint)
}

// EditSetData replaces the top-left width x height texels with RGBA
// pixels, first row first. Texels outside the texture are dropped.
func (l *Library) EditSetData(width, height int, pixels []byte) error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	w, ok := l.surf.(surface.TextureWriter)
	if !ok {
		return fmt.Errorf("%w: pixel upload", ErrNotSupported)
	}
	tex, err := l.textures.Get(st.target)
	if err != nil {
		return err
	}
	return w.WriteTexture(tex, width, height, pixels)
}

// EditClear makes every texel transparent black.
func (l *Library) EditClear() error {
	st, err := l.editing()
	if err != nil {
		return err
	}
	st.drawer.Clear(color.NRGBA{})
	return nil
}

// editing returns the edit state of a selected target.
func (l *Library) editing() (*editState, error) {
	if l.closed {
		return nil, ErrLibraryClosed
	}
	if l.edit == nil || l.edit.drawer == nil {
		return nil, ErrNoEditTarget
	}
	return l.edit, nil
}
