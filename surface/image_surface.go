// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	vgimage "github.com/gogpu/vg/internal/image"
)

// ImageSurface is a CPU-based surface that renders to an *image.NRGBA.
//
// Textures are kept as *image.NRGBA and sampled in software with the
// filter and wrap mode they were created with. Polygons are rasterized with
// golang.org/x/image/vector; untinted axis-aligned texture blits go through
// golang.org/x/image/draw scalers.
//
// Example:
//
//	s := surface.NewImageSurface(320, 240)
//	defer s.Close()
//
//	s.Clear(color.NRGBA{A: 255})
//	s.FillPolygon([]surface.Vec2{{10, 10}, {10, 50}, {50, 50}, {50, 10}},
//	    color.NRGBA{R: 255, A: 255})
//	img := s.Snapshot()
type ImageSurface struct {
	*canvas

	width  int
	height int
	fb     *image.NRGBA

	textures map[*imageTexture]struct{}
	shapes   map[*imageShape]struct{}

	closed bool
}

// imageTexture is the Texture implementation of ImageSurface.
type imageTexture struct {
	owner     *ImageSurface
	desc      TextureDesc
	img       *image.NRGBA
	destroyed bool
}

// Desc implements Texture.
func (t *imageTexture) Desc() TextureDesc { return t.desc }

// imageShape is the Shape implementation of ImageSurface.
type imageShape struct {
	owner     *ImageSurface
	vertices  []Vec2
	texCoords []Vec2
	destroyed bool
}

// VertexCount implements Shape.
func (s *imageShape) VertexCount() int { return len(s.vertices) }

// Textured implements Shape.
func (s *imageShape) Textured() bool { return s.texCoords != nil }

// NewImageSurface creates a new CPU-based surface with the given
// framebuffer dimensions. Non-positive dimensions are raised to 1.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	s := &ImageSurface{
		width:    width,
		height:   height,
		fb:       image.NewNRGBA(image.Rect(0, 0, width, height)),
		textures: make(map[*imageTexture]struct{}),
		shapes:   make(map[*imageShape]struct{}),
	}
	s.canvas = &canvas{owner: s}
	return s
}

// Size returns the framebuffer dimensions.
func (s *ImageSurface) Size() (width, height int) {
	return s.width, s.height
}

// Snapshot returns a copy of the framebuffer.
func (s *ImageSurface) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(s.fb.Rect)
	copy(out.Pix, s.fb.Pix)
	return out
}

// Resources returns the number of live textures and shapes.
func (s *ImageSurface) Resources() (textures, shapes int) {
	return len(s.textures), len(s.shapes)
}

// CreateTexture implements Surface.
func (s *ImageSurface) CreateTexture(desc TextureDesc, pixels []byte) (Texture, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if err := desc.validate(pixels); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	copy(img.Pix, pixels)

	t := &imageTexture{owner: s, desc: desc, img: img}
	s.textures[t] = struct{}{}

	slogger().Debug("surface: texture created",
		slog.Int("width", desc.Width),
		slog.Int("height", desc.Height),
		slog.String("filter", desc.Filter.String()),
		slog.String("wrap", desc.Wrap.String()))
	return t, nil
}

// DestroyTexture implements Surface.
func (s *ImageSurface) DestroyTexture(tex Texture) error {
	t, err := s.texture(tex)
	if err != nil {
		return err
	}
	t.destroyed = true
	t.img = nil
	delete(s.textures, t)
	return nil
}

// CompileShape implements Surface.
func (s *ImageSurface) CompileShape(vertices, texCoords []Vec2) (Shape, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if err := validateShape(vertices, texCoords); err != nil {
		return nil, err
	}

	sh := &imageShape{
		owner:    s,
		vertices: append([]Vec2(nil), vertices...),
	}
	if texCoords != nil {
		sh.texCoords = append([]Vec2(nil), texCoords...)
	}
	s.shapes[sh] = struct{}{}
	return sh, nil
}

// DestroyShape implements Surface.
func (s *ImageSurface) DestroyShape(shape Shape) error {
	sh, err := s.shape(shape)
	if err != nil {
		return err
	}
	sh.destroyed = true
	delete(s.shapes, sh)
	return nil
}

// EditTarget implements Editor.
func (s *ImageSurface) EditTarget(tex Texture) (Drawer, error) {
	t, err := s.texture(tex)
	if err != nil {
		return nil, err
	}
	return &canvas{owner: s, tex: t}, nil
}

// WriteTexture implements TextureWriter. Pixels outside the texture are
// dropped.
func (s *ImageSurface) WriteTexture(tex Texture, width, height int, pixels []byte) error {
	t, err := s.texture(tex)
	if err != nil {
		return err
	}
	src := TextureDesc{Width: width, Height: height}
	if err := src.validate(pixels); err != nil {
		return err
	}
	if pixels == nil {
		return fmt.Errorf("%w: nil pixel data", ErrPixelDataSize)
	}

	w := min(width, t.desc.Width)
	h := min(height, t.desc.Height)
	for y := 0; y < h; y++ {
		copy(t.img.Pix[y*t.img.Stride:y*t.img.Stride+w*4], pixels[y*width*4:y*width*4+w*4])
	}
	return nil
}

// ReadTexture implements TextureReader.
func (s *ImageSurface) ReadTexture(tex Texture) ([]byte, error) {
	t, err := s.texture(tex)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), t.img.Pix...), nil
}

// Close releases all textures and shapes.
// Close is idempotent; multiple calls are safe.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	for t := range s.textures {
		t.destroyed = true
		t.img = nil
	}
	for sh := range s.shapes {
		sh.destroyed = true
	}
	clear(s.textures)
	clear(s.shapes)
	s.closed = true
	return nil
}

func (s *ImageSurface) texture(tex Texture) (*imageTexture, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	t, ok := tex.(*imageTexture)
	if !ok || t == nil || t.owner != s {
		return nil, ErrForeignResource
	}
	if t.destroyed {
		return nil, ErrResourceDestroyed
	}
	return t, nil
}

func (s *ImageSurface) shape(shape Shape) (*imageShape, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	sh, ok := shape.(*imageShape)
	if !ok || sh == nil || sh.owner != s {
		return nil, ErrForeignResource
	}
	if sh.destroyed {
		return nil, ErrResourceDestroyed
	}
	return sh, nil
}

func validateShape(vertices, texCoords []Vec2) error {
	if len(vertices) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewVertices, len(vertices))
	}
	if texCoords != nil && len(texCoords) != len(vertices) {
		return fmt.Errorf("%w: %d texture coordinates for %d vertices",
			ErrTexCoordCount, len(texCoords), len(vertices))
	}
	return nil
}

// canvas draws into either the framebuffer of its owner or, when tex is
// set, into one of the owner's textures.
type canvas struct {
	owner  *ImageSurface
	tex    *imageTexture
	raster *vector.Rasterizer
}

// target returns the image to draw into, or nil when the surface is
// closed or the edited texture was destroyed.
func (c *canvas) target() *image.NRGBA {
	if c.owner.closed {
		return nil
	}
	if c.tex != nil {
		if c.tex.destroyed {
			return nil
		}
		return c.tex.img
	}
	return c.owner.fb
}

// Clear implements Drawer.
func (c *canvas) Clear(col color.NRGBA) {
	dst := c.target()
	if dst == nil {
		return
	}
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// FillPolygon implements Drawer.
func (c *canvas) FillPolygon(points []Vec2, col color.NRGBA) {
	dst := c.target()
	if dst == nil || len(points) < 3 || col.A == 0 {
		return
	}
	z := c.path(dst, points)
	z.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

// TexturePolygon implements Drawer.
func (c *canvas) TexturePolygon(tex Texture, points, uvs []Vec2, tint color.NRGBA) error {
	t, err := c.owner.texture(tex)
	if err != nil {
		return err
	}
	dst := c.target()
	if dst == nil {
		return ErrResourceDestroyed
	}
	if len(points) != len(uvs) {
		return fmt.Errorf("%w: %d texture coordinates for %d points", ErrTexCoordCount, len(uvs), len(points))
	}
	if len(points) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewVertices, len(points))
	}

	if dr, ok := blitRect(points, uvs); ok && tint == opaqueWhite &&
		(t.desc.Filter == FilterNearest || t.desc.Wrap == WrapClamp) {
		var interp xdraw.Interpolator = xdraw.NearestNeighbor
		if t.desc.Filter == FilterLinear {
			interp = xdraw.BiLinear
		}
		interp.Scale(dst, dr, t.img, t.img.Bounds(), xdraw.Over, nil)
		return nil
	}

	m, ok := vgimage.Fit(toPoints(points), toPoints(uvs))
	if !ok {
		return nil
	}
	c.fillTextured(dst, points, t.pattern(m, tint))
	return nil
}

// DrawShape implements Drawer.
func (c *canvas) DrawShape(shape Shape, xf Transform, col color.NRGBA) error {
	sh, err := c.owner.shape(shape)
	if err != nil {
		return err
	}
	if c.target() == nil {
		return ErrResourceDestroyed
	}
	c.FillPolygon(transformAll(sh.vertices, xf), col)
	return nil
}

// DrawShapeTextured implements Drawer.
func (c *canvas) DrawShapeTextured(shape Shape, xf Transform, tex Texture, tint color.NRGBA) error {
	sh, err := c.owner.shape(shape)
	if err != nil {
		return err
	}
	if !sh.Textured() {
		return ErrNotTextured
	}
	return c.TexturePolygon(tex, transformAll(sh.vertices, xf), sh.texCoords, tint)
}

// path resets the rasterizer to the bounds of dst and adds the polygon.
func (c *canvas) path(dst *image.NRGBA, points []Vec2) *vector.Rasterizer {
	b := dst.Bounds()
	if c.raster == nil {
		c.raster = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		c.raster.Reset(b.Dx(), b.Dy())
	}
	z := c.raster
	z.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		z.LineTo(p.X, p.Y)
	}
	z.ClosePath()
	return z
}

// fillTextured rasterizes the polygon into a coverage mask and shades each
// covered pixel center from the pattern.
func (c *canvas) fillTextured(dst *image.NRGBA, points []Vec2, pat *vgimage.ImagePattern) {
	b := dst.Bounds()
	mask := image.NewAlpha(b)
	c.path(dst, points).Draw(mask, b, image.Opaque, image.Point{})

	area := polygonBounds(points).Intersect(b)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cov := mask.AlphaAt(x, y).A
			if cov == 0 {
				continue
			}
			blendOver(dst, x, y, pat.Sample(float64(x)+0.5, float64(y)+0.5), cov)
		}
	}
}

var opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// pattern samples the texture with its filter and wrap mode through m,
// the map from framebuffer pixels to texture coordinates.
func (t *imageTexture) pattern(m vgimage.Affine, tint color.NRGBA) *vgimage.ImagePattern {
	spread, interp := vgimage.SpreadPad, vgimage.InterpNearest
	if t.desc.Wrap == WrapRepeat {
		spread = vgimage.SpreadRepeat
	}
	if t.desc.Filter == FilterLinear {
		interp = vgimage.InterpBilinear
	}
	return vgimage.NewImagePattern(t.img).
		WithTransform(m).
		WithSpreadMode(spread).
		WithInterpolation(interp).
		WithTint(tint)
}

func toPoints(vs []Vec2) []vgimage.Point {
	out := make([]vgimage.Point, len(vs))
	for i, v := range vs {
		out[i] = vgimage.Point{X: float64(v.X), Y: float64(v.Y)}
	}
	return out
}

func transformAll(vs []Vec2, xf Transform) []Vec2 {
	m := xf.affine()
	out := make([]Vec2, len(vs))
	for i, v := range vs {
		x, y := m.TransformPoint(float64(v.X), float64(v.Y))
		out[i] = Vec2{X: float32(x), Y: float32(y)}
	}
	return out
}

func polygonBounds(points []Vec2) image.Rectangle {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return image.Rect(int(floor32(minX)), int(floor32(minY)), int(ceil32(maxX)), int(ceil32(maxY)))
}

// blitRect reports whether the polygon is an integer-aligned rectangle
// whose corners map to the full [0,1] texture square without flips.
func blitRect(points, uvs []Vec2) (image.Rectangle, bool) {
	if len(points) != 4 {
		return image.Rectangle{}, false
	}
	r := polygonBounds(points)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	var seen uint8
	for i, p := range points {
		if p.X != floor32(p.X) || p.Y != floor32(p.Y) {
			return image.Rectangle{}, false
		}
		var want Vec2
		var corner uint8
		switch {
		case int(p.X) == r.Min.X && int(p.Y) == r.Min.Y:
			want, corner = Vec2{0, 0}, 1
		case int(p.X) == r.Min.X && int(p.Y) == r.Max.Y:
			want, corner = Vec2{0, 1}, 2
		case int(p.X) == r.Max.X && int(p.Y) == r.Max.Y:
			want, corner = Vec2{1, 1}, 4
		case int(p.X) == r.Max.X && int(p.Y) == r.Min.Y:
			want, corner = Vec2{1, 0}, 8
		default:
			return image.Rectangle{}, false
		}
		if uvs[i] != want || seen&corner != 0 {
			return image.Rectangle{}, false
		}
		seen |= corner
	}
	return r, seen == 15
}
