package vg

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/surface"
)

// CompileShape stores a polygon for repeated drawing with DrawShape.
func (l *Library) CompileShape(vertices []surface.Vec2) (handle.Handle, error) {
	return l.compileShape(vertices, nil)
}

// CompileShapeTextured stores a polygon with one texture coordinate per
// vertex for DrawShapeTextured.
func (l *Library) CompileShapeTextured(vertices, texCoords []surface.Vec2) (handle.Handle, error) {
	if texCoords == nil {
		texCoords = []surface.Vec2{}
	}
	return l.compileShape(vertices, texCoords)
}

func (l *Library) compileShape(vertices, texCoords []surface.Vec2) (handle.Handle, error) {
	if l.closed {
		return 0, ErrLibraryClosed
	}
	h, err := l.shapes.Allocate()
	if err != nil {
		return 0, fmt.Errorf("vg: compile shape: %w", err)
	}
	sh, err := l.surf.CompileShape(vertices, texCoords)
	if err != nil {
		_, _ = l.shapes.Release(h)
		return 0, fmt.Errorf("vg: compile shape: %w", err)
	}
	if err := l.shapes.Set(h, sh); err != nil {
		return 0, err
	}

	Logger().Debug("vg: shape compiled",
		slog.Int("handle", int(h)),
		slog.Int("vertices", len(vertices)),
		slog.Bool("textured", texCoords != nil))
	return h, nil
}

// DestroyShape frees the shape and its handle. The handle is released even
// if the surface reports an error.
func (l *Library) DestroyShape(h handle.Handle) error {
	if l.closed {
		return ErrLibraryClosed
	}
	sh, err := l.shapes.Release(h)
	if err != nil {
		return err
	}
	Logger().Debug("vg: shape destroyed", slog.Int("handle", int(h)))

	if err := l.surf.DestroyShape(sh); err != nil {
		return fmt.Errorf("vg: destroy shape %d: %w", h, err)
	}
	return nil
}
