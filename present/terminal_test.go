// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/vg/surface"
)

type cell struct {
	r     rune
	style tcell.Style
}

// recordScreen is a minimal tcell.Screen that records SetContent calls.
type recordScreen struct {
	tcell.Screen
	width, height int
	cells         map[image.Point]cell
	shown         int
	finished      bool
}

func newRecordScreen(w, h int) *recordScreen {
	return &recordScreen{width: w, height: h, cells: make(map[image.Point]cell)}
}

func (s *recordScreen) Size() (int, int) { return s.width, s.height }
func (s *recordScreen) Show()            { s.shown++ }
func (s *recordScreen) Fini()            { s.finished = true }
func (s *recordScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	s.cells[image.Pt(x, y)] = cell{r: mainc, style: style}
}

func rgb(r, g, b int32) tcell.Color { return tcell.NewRGBColor(r, g, b) }

func TestDrawHalfBlocks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 128})
	img.SetNRGBA(0, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	scr := newRecordScreen(10, 10)
	NewTerminal(scr).Draw(img)

	if scr.shown != 1 {
		t.Errorf("Show called %d times, want 1", scr.shown)
	}
	if len(scr.cells) != 4 {
		t.Fatalf("drew %d cells, want 4", len(scr.cells))
	}

	tests := []struct {
		name   string
		at     image.Point
		fg, bg tcell.Color
	}{
		{"red over green", image.Pt(0, 0), rgb(255, 0, 0), rgb(0, 255, 0)},
		{"half blue over transparent", image.Pt(1, 0), rgb(0, 0, 128), rgb(0, 0, 0)},
		{"odd last row", image.Pt(0, 1), rgb(255, 255, 255), tcell.ColorBlack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := scr.cells[tt.at]
			if !ok {
				t.Fatalf("no cell at %v", tt.at)
			}
			if c.r != upperHalf {
				t.Errorf("rune = %q, want %q", c.r, upperHalf)
			}
			want := tcell.StyleDefault.Foreground(tt.fg).Background(tt.bg)
			if c.style != want {
				t.Errorf("style = %v, want %v", c.style, want)
			}
		})
	}
}

func TestDrawCropsToScreen(t *testing.T) {
	scr := newRecordScreen(3, 2)
	term := NewTerminal(scr)

	if w, h := term.Capacity(); w != 3 || h != 4 {
		t.Errorf("Capacity = %dx%d, want 3x4", w, h)
	}
	term.Draw(image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	if len(scr.cells) != 6 {
		t.Errorf("drew %d cells, want 6", len(scr.cells))
	}
	if _, ok := scr.cells[image.Pt(3, 0)]; ok {
		t.Error("drew outside the screen")
	}
}

func TestPresent(t *testing.T) {
	s := surface.NewImageSurface(2, 2)
	defer s.Close()
	s.Clear(color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	scr := newRecordScreen(4, 4)
	if err := NewTerminal(scr).Present(s); err != nil {
		t.Fatalf("Present: %v", err)
	}
	want := tcell.StyleDefault.Foreground(rgb(10, 20, 30)).Background(rgb(10, 20, 30))
	if got := scr.cells[image.Pt(1, 0)].style; got != want {
		t.Errorf("style = %v, want %v", got, want)
	}
}

type headless struct{ surface.Surface }

func TestPresentWithoutFramebuffer(t *testing.T) {
	term := NewTerminal(newRecordScreen(1, 1))
	if err := term.Present(headless{}); !errors.Is(err, ErrNoFramebuffer) {
		t.Errorf("err = %v, want ErrNoFramebuffer", err)
	}
}

func TestCloseLeavesBorrowedScreen(t *testing.T) {
	scr := newRecordScreen(1, 1)
	NewTerminal(scr).Close()
	if scr.finished {
		t.Error("Close finalized a screen it does not own")
	}

	owned := &Terminal{screen: scr, owned: true}
	owned.Close()
	owned.Close()
	if !scr.finished {
		t.Error("Close did not finalize an owned screen")
	}
}

func TestSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(4, 2)

	term := NewTerminal(screen)
	if w, h := term.Capacity(); w != 4 || h != 4 {
		t.Errorf("Capacity = %dx%d, want 4x4", w, h)
	}
	term.Draw(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
}
