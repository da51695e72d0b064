// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present shows framebuffer snapshots in a terminal.
//
// Every terminal cell holds two vertically stacked pixels: the upper half
// block glyph is drawn in the color of the top pixel on a background of the
// bottom pixel. Pixels are composited over black.
package present

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/vg/surface"
)

// upperHalf is the glyph painted in every cell.
const upperHalf = '▀'

// ErrNoFramebuffer is returned when a surface has nothing to present.
var ErrNoFramebuffer = errors.New("present: surface has no framebuffer")

// Terminal draws images onto a tcell screen.
type Terminal struct {
	screen tcell.Screen
	owned  bool
}

// NewTerminal wraps an initialized screen. The caller keeps ownership:
// Close does not finalize it.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Open initializes the controlling terminal.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("present: open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("present: init terminal: %w", err)
	}
	return &Terminal{screen: screen, owned: true}, nil
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Capacity returns the largest image, in pixels, that fits the screen.
func (t *Terminal) Capacity() (width, height int) {
	w, h := t.screen.Size()
	return w, h * 2
}

// Draw paints img from the top-left corner of the screen, cropped to the
// screen, and shows it.
func (t *Terminal) Draw(img image.Image) {
	b := img.Bounds()
	cols, rows := t.screen.Size()
	cols = min(cols, b.Dx())
	rows = min(rows, (b.Dy()+1)/2)

	for row := 0; row < rows; row++ {
		y := b.Min.Y + row*2
		for col := 0; col < cols; col++ {
			x := b.Min.X + col
			top := cellColor(img.At(x, y))
			bottom := tcell.ColorBlack
			if y+1 < b.Max.Y {
				bottom = cellColor(img.At(x, y+1))
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	t.screen.Show()
}

// Present draws the framebuffer of s.
func (t *Terminal) Present(s surface.Surface) error {
	fb, ok := s.(surface.Framebuffer)
	if !ok {
		return ErrNoFramebuffer
	}
	t.Draw(fb.Snapshot())
	return nil
}

// WaitKey blocks until a key is pressed or the screen is finalized.
func (t *Terminal) WaitKey() {
	for {
		switch t.screen.PollEvent().(type) {
		case nil, *tcell.EventKey:
			return
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// Close finalizes the screen if Open created it.
func (t *Terminal) Close() {
	if t.owned {
		t.screen.Fini()
		t.owned = false
	}
}

// cellColor composites c over black.
func cellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA() // premultiplied
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
