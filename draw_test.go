package vg

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/vg/surface"
)

var (
	opaqueBlack = color.NRGBA{A: 255}
	opaqueRed   = color.NRGBA{R: 255, A: 255}
	opaqueGreen = color.NRGBA{G: 255, A: 255}
)

func TestClearAndFill(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(2, 2))

	if err := lib.Fill(10, 20, 30); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got := snapshot(t, lib)(1, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Fill pixel = %v", got)
	}
	if err := lib.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := snapshot(t, lib)(0, 0); got != opaqueBlack {
		t.Errorf("Clear pixel = %v, want opaque black", got)
	}
}

func TestRectUsesDrawColor(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(4, 4))
	_ = lib.Clear()

	// Default color is opaque white.
	if err := lib.Rect(0, 0, 1, 1); err != nil {
		t.Fatalf("Rect: %v", err)
	}
	lib.Color3(255, 0, 0)
	if err := lib.Rect(2, 2, 2, 2); err != nil {
		t.Fatalf("Rect: %v", err)
	}

	at := snapshot(t, lib)
	if got := at(0, 0); got != opaqueWhite {
		t.Errorf("pixel (0,0) = %v, want white", got)
	}
	if got := at(3, 3); got != opaqueRed {
		t.Errorf("pixel (3,3) = %v, want red", got)
	}
	if got := at(1, 1); got != opaqueBlack {
		t.Errorf("pixel (1,1) = %v, want black", got)
	}

	lib.Color4(0, 255, 0, 0)
	_ = lib.Rect(0, 0, 4, 4)
	if got := snapshot(t, lib)(3, 3); got != opaqueRed {
		t.Errorf("transparent rect changed pixel to %v", got)
	}
}

func TestLineAndPoint(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(5, 5))
	_ = lib.Clear()
	lib.Color3(0, 255, 0)

	if err := lib.Line(0, 2, 4, 2); err != nil {
		t.Fatalf("Line: %v", err)
	}
	at := snapshot(t, lib)
	if got := at(2, 2); got != opaqueGreen {
		t.Errorf("line pixel = %v, want green", got)
	}
	if got := at(2, 0); got != opaqueBlack {
		t.Errorf("off-line pixel = %v, want black", got)
	}

	_ = lib.Clear()
	lib.PointSize(3)
	if err := lib.Point(2, 2); err != nil {
		t.Fatalf("Point: %v", err)
	}
	at = snapshot(t, lib)
	if got := at(1, 1); got != opaqueGreen {
		t.Errorf("point pixel (1,1) = %v, want green", got)
	}
	if got := at(0, 0); got != opaqueBlack {
		t.Errorf("pixel (0,0) = %v, want black", got)
	}

	_ = lib.Clear()
	lib.LineSize(3)
	_ = lib.Line(1, 1, 1, 1) // zero length draws a square
	if got := snapshot(t, lib)(2, 2); got != opaqueGreen {
		t.Errorf("degenerate line pixel = %v, want green", got)
	}
}

func TestRectTexture(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(2, 2))

	pix := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	tex, err := lib.CreateTexture(2, 2, surface.FilterNearest, surface.WrapClamp, pix)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	lib.UseTexture(tex)
	if err := lib.RectTexture(0, 0, 2, 2); err != nil {
		t.Fatalf("RectTexture: %v", err)
	}
	at := snapshot(t, lib)
	if got := at(1, 0); got != opaqueGreen {
		t.Errorf("pixel (1,0) = %v, want green", got)
	}
	if got := at(0, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel (0,1) = %v, want blue", got)
	}

	// Filter multiplies the texture color.
	lib.TextureFilter(0, 255, 255, 255)
	_ = lib.RectTexture(0, 0, 2, 2)
	if got := snapshot(t, lib)(0, 0); got != opaqueBlack {
		t.Errorf("filtered red = %v, want black", got)
	}
	lib.TextureFilterReset()
	_ = lib.RectTexture(0, 0, 2, 2)
	if got := snapshot(t, lib)(0, 0); got != opaqueRed {
		t.Errorf("reset filter = %v, want red", got)
	}
}

func TestRectTextureOffsetScrolls(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(2, 1))

	pix := []byte{255, 0, 0, 255, 0, 255, 0, 255} // red, green
	tex, _ := lib.CreateTexture(2, 1, surface.FilterNearest, surface.WrapRepeat, pix)
	lib.UseTexture(tex)

	if err := lib.RectTextureOffset(0, 0, 2, 1, 0.5, 0); err != nil {
		t.Fatalf("RectTextureOffset: %v", err)
	}
	at := snapshot(t, lib)
	if at(0, 0) != opaqueGreen || at(1, 0) != opaqueRed {
		t.Errorf("scrolled = %v %v, want green red", at(0, 0), at(1, 0))
	}
}

func TestRectTextureInvalidActive(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(2, 2))
	lib.UseTexture(5)
	if err := lib.RectTexture(0, 0, 1, 1); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("err = %v, want ErrInvalidHandle", err)
	}
}

func TestDrawShape(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(6, 6))
	_ = lib.Clear()

	sh, err := lib.CompileShape(square)
	if err != nil {
		t.Fatalf("CompileShape: %v", err)
	}
	lib.Color3(255, 0, 0)
	if err := lib.DrawShape(sh, 2, 2, 0, 3); err != nil {
		t.Fatalf("DrawShape: %v", err)
	}
	at := snapshot(t, lib)
	if got := at(4, 4); got != opaqueRed {
		t.Errorf("inside = %v, want red", got)
	}
	if got := at(1, 1); got != opaqueBlack {
		t.Errorf("outside = %v, want black", got)
	}

	if err := lib.DrawShape(99, 0, 0, 0, 1); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("bad shape: err = %v, want ErrInvalidHandle", err)
	}
}

func TestDrawShapeTextured(t *testing.T) {
	lib := newLibrary(t, surface.NewImageSurface(4, 4))

	tex, _ := lib.CreateTexture(1, 1, surface.FilterNearest, surface.WrapClamp, []byte{0, 255, 0, 255})
	sh, err := lib.CompileShapeTextured(square, square)
	if err != nil {
		t.Fatalf("CompileShapeTextured: %v", err)
	}
	lib.UseTexture(tex)
	if err := lib.DrawShapeTextured(sh, 0, 0, 0, 4); err != nil {
		t.Fatalf("DrawShapeTextured: %v", err)
	}
	if got := snapshot(t, lib)(3, 3); got != opaqueGreen {
		t.Errorf("pixel = %v, want green", got)
	}

	plain, _ := lib.CompileShape(square)
	if err := lib.DrawShapeTextured(plain, 0, 0, 0, 1); !errors.Is(err, surface.ErrNotTextured) {
		t.Errorf("untextured: err = %v, want ErrNotTextured", err)
	}
}
