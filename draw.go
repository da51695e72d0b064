package vg

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/surface"
)

// rectUV maps the corners of a rect to the full texture.
var rectUV = []surface.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

// Color3 sets an opaque drawing color.
func (l *Library) Color3(r, g, b uint8) {
	l.color = color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Color4 sets the drawing color.
func (l *Library) Color4(r, g, b, a uint8) {
	l.color = color.NRGBA{R: r, G: g, B: b, A: a}
}

// LineSize sets the width of lines drawn with Line.
func (l *Library) LineSize(size float32) {
	l.lineSize = size
}

// PointSize sets the side of points drawn with Point.
func (l *Library) PointSize(size float32) {
	l.pointSize = size
}

// Clear fills the framebuffer with opaque black.
func (l *Library) Clear() error {
	return l.Fill(0, 0, 0)
}

// Fill fills the framebuffer with an opaque color.
func (l *Library) Fill(r, g, b uint8) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	d.Clear(color.NRGBA{R: r, G: g, B: b, A: 255})
	return nil
}

// Rect fills a rectangle with the drawing color.
func (l *Library) Rect(x, y, w, h float32) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	d.FillPolygon(rectPoints(x, y, w, h), l.color)
	return nil
}

// Line draws a line of LineSize width with the drawing color.
func (l *Library) Line(x1, y1, x2, y2 float32) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	d.FillPolygon(linePoints(x1, y1, x2, y2, l.lineSize), l.color)
	return nil
}

// Point draws a square of PointSize side covering pixel (x, y).
func (l *Library) Point(x, y float32) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	d.FillPolygon(pointPoints(x, y, l.pointSize), l.color)
	return nil
}

// RectTexture draws the active texture stretched over a rectangle,
// multiplied by the texture filter.
func (l *Library) RectTexture(x, y, w, h float32) error {
	return l.RectTextureOffset(x, y, w, h, 0, 0)
}

// RectTextureOffset is RectTexture with the texture coordinates shifted by
// (s, t). With WrapRepeat the texture scrolls.
func (l *Library) RectTextureOffset(x, y, w, h, s, t float32) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	tex, err := l.activeTexture()
	if err != nil {
		return err
	}
	uvs := rectUV
	if s != 0 || t != 0 {
		uvs = make([]surface.Vec2, len(rectUV))
		for i, uv := range rectUV {
			uvs[i] = surface.Vec2{X: uv.X + s, Y: uv.Y + t}
		}
	}
	return d.TexturePolygon(tex, rectPoints(x, y, w, h), uvs, l.tint)
}

// DrawShape draws a compiled shape with the drawing color. The shape is
// scaled by s, rotated by r degrees, then moved to (x, y).
func (l *Library) DrawShape(shape handle.Handle, x, y, r, s float32) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	sh, err := l.shapes.Get(shape)
	if err != nil {
		return err
	}
	return d.DrawShape(sh, surface.Transform{X: x, Y: y, Rotation: r, Scale: s}, l.color)
}

// DrawShapeTextured draws a textured shape with the active texture and
// texture filter.
func (l *Library) DrawShapeTextured(shape handle.Handle, x, y, r, s float32) error {
	d, err := l.draw()
	if err != nil {
		return err
	}
	sh, err := l.shapes.Get(shape)
	if err != nil {
		return err
	}
	tex, err := l.activeTexture()
	if err != nil {
		return err
	}
	return d.DrawShapeTextured(sh, surface.Transform{X: x, Y: y, Rotation: r, Scale: s}, tex, l.tint)
}

// draw returns the framebuffer drawer.
func (l *Library) draw() (surface.Drawer, error) {
	if l.closed {
		return nil, ErrLibraryClosed
	}
	if l.drawer == nil {
		return nil, fmt.Errorf("%w: drawing", ErrNotSupported)
	}
	return l.drawer, nil
}

func rectPoints(x, y, w, h float32) []surface.Vec2 {
	return []surface.Vec2{
		{X: x, Y: y},
		{X: x, Y: y + h},
		{X: x + w, Y: y + h},
		{X: x + w, Y: y},
	}
}

// pointPoints returns a size x size square centered on the middle of
// pixel (x, y).
func pointPoints(x, y, size float32) []surface.Vec2 {
	half := size / 2
	cx, cy := x+0.5, y+0.5
	return rectPoints(cx-half, cy-half, size, size)
}

// linePoints returns the quad of a line through the pixel centers of both
// end points. A zero-length line degenerates to a point.
func linePoints(x1, y1, x2, y2, width float32) []surface.Vec2 {
	dx, dy := float64(x2-x1), float64(y2-y1)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return pointPoints(x1, y1, width)
	}
	half := float64(width) / 2
	nx := float32(-dy / length * half)
	ny := float32(dx / length * half)

	ax, ay := x1+0.5, y1+0.5
	bx, by := x2+0.5, y2+0.5
	return []surface.Vec2{
		{X: ax + nx, Y: ay + ny},
		{X: bx + nx, Y: by + ny},
		{X: bx - nx, Y: by - ny},
		{X: ax - nx, Y: ay - ny},
	}
}
