package vg

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/itex"
	"github.com/gogpu/vg/surface"
)

var opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Library binds the texture and shape tables to a render surface and keeps
// the current drawing state.
//
// Lifecycle:
//  1. Create via New with a surface; the Library takes ownership of it
//  2. Create textures and shapes, draw, edit
//  3. Call Close to destroy every live resource and close the surface
type Library struct {
	surf   surface.Surface
	drawer surface.Drawer // nil when the surface cannot draw

	textures *handle.Allocator[surface.Texture]
	shapes   *handle.Allocator[surface.Shape]
	compiler *itex.Compiler

	color     color.NRGBA // Color3/Color4
	tint      color.NRGBA // TextureFilter
	texture   handle.Handle
	lineSize  float32
	pointSize float32

	edit *editState

	closed bool
}

// New creates a Library drawing to s. The library owns s from this call
// on: if New fails, s has already been closed.
func New(s surface.Surface, opts ...Option) (*Library, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	fail := func(err error) (*Library, error) {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close surface: %w", cerr))
		}
		return nil, err
	}
	textures, err := handle.NewChecked[surface.Texture](o.textureCapacity)
	if err != nil {
		return fail(fmt.Errorf("vg: texture table: %w", err))
	}
	shapes, err := handle.NewChecked[surface.Shape](o.shapeCapacity)
	if err != nil {
		return fail(fmt.Errorf("vg: shape table: %w", err))
	}
	compiler, err := itex.New(o.itexOptions...)
	if err != nil {
		return fail(err)
	}

	l := &Library{
		surf:      s,
		textures:  textures,
		shapes:    shapes,
		compiler:  compiler,
		color:     opaqueWhite,
		tint:      opaqueWhite,
		lineSize:  1,
		pointSize: 1,
	}
	l.drawer, _ = s.(surface.Drawer)

	caps := surface.CapabilitiesOf(s)
	Logger().Info("vg: library created",
		slog.Int("textures", textures.Cap()),
		slog.Int("shapes", shapes.Cap()),
		slog.Bool("drawing", caps.Drawing),
		slog.Bool("editing", caps.Editing))
	return l, nil
}

// Surface returns the surface the library draws to.
func (l *Library) Surface() surface.Surface {
	return l.surf
}

// ITex returns the library's indexed-texture compiler. It is a reusable
// scratchpad; call Clear between unrelated images.
func (l *Library) ITex() *itex.Compiler {
	return l.compiler
}

// CompileITex compiles the width x height corner of the ITex grid into a
// new texture.
func (l *Library) CompileITex(width, height int, wrap surface.WrapMode, filter surface.FilterMode) (handle.Handle, error) {
	if l.closed {
		return 0, ErrLibraryClosed
	}
	return l.compiler.Compile(l, width, height, wrap, filter)
}

// TextureCount returns the number of live textures.
func (l *Library) TextureCount() int {
	return l.textures.Len()
}

// ShapeCount returns the number of live shapes.
func (l *Library) ShapeCount() int {
	return l.shapes.Len()
}

// Texture returns the surface texture behind h.
func (l *Library) Texture(h handle.Handle) (surface.Texture, error) {
	if l.closed {
		return nil, ErrLibraryClosed
	}
	return l.textures.Get(h)
}

// Shape returns the surface shape behind h.
func (l *Library) Shape(h handle.Handle) (surface.Shape, error) {
	if l.closed {
		return nil, ErrLibraryClosed
	}
	return l.shapes.Get(h)
}

// Close destroys every live texture and shape in handle order, then closes
// the surface. Failures are collected and returned together; Close always
// releases every handle. Close is idempotent.
func (l *Library) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.edit = nil

	var errs []error
	l.textures.Range(func(h handle.Handle, tex surface.Texture) bool {
		if err := l.surf.DestroyTexture(tex); err != nil {
			Logger().Warn("vg: texture release failed", slog.Int("handle", int(h)), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("texture %d: %w", h, err))
		}
		return true
	})
	l.shapes.Range(func(h handle.Handle, sh surface.Shape) bool {
		if err := l.surf.DestroyShape(sh); err != nil {
			Logger().Warn("vg: shape release failed", slog.Int("handle", int(h)), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("shape %d: %w", h, err))
		}
		return true
	})
	l.textures.Reset()
	l.shapes.Reset()

	if err := l.surf.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close surface: %w", err))
	}

	Logger().Info("vg: library closed")
	return errors.Join(errs...)
}
