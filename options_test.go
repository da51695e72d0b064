package vg

import (
	"testing"

	"github.com/gogpu/vg/itex"
)

// TestWithCapacities tests that capacity options reach the handle tables.
func TestWithCapacities(t *testing.T) {
	lib := newLibrary(t, &mockSurface{}, WithTextureCapacity(3), WithShapeCapacity(5))

	if lib.textures.Cap() != 3 {
		t.Errorf("texture capacity = %d, want 3", lib.textures.Cap())
	}
	if lib.shapes.Cap() != 5 {
		t.Errorf("shape capacity = %d, want 5", lib.shapes.Cap())
	}
}

// TestWithITexOptionsAppends tests that repeated WithITexOptions calls
// accumulate, later options winning.
func TestWithITexOptionsAppends(t *testing.T) {
	lib := newLibrary(t, &mockSurface{},
		WithITexOptions(itex.WithPaletteSize(4), itex.WithGridSize(8)),
		WithITexOptions(itex.WithGridSize(16)),
	)

	if got := lib.ITex().PaletteSize(); got != 4 {
		t.Errorf("palette size = %d, want 4", got)
	}
	if got := lib.ITex().GridSize(); got != 16 {
		t.Errorf("grid size = %d, want 16", got)
	}
}

// TestDefaultOptions tests the zero-option configuration.
func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.textureCapacity != DefaultTextureCapacity || o.shapeCapacity != DefaultShapeCapacity {
		t.Errorf("defaults = %d/%d", o.textureCapacity, o.shapeCapacity)
	}
	if len(o.itexOptions) != 0 {
		t.Errorf("itex options = %d, want none", len(o.itexOptions))
	}
}
