// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package itex

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/vg/surface"
)

const heartYAML = `
name: heart
filter: linear
wrap: repeat
palette:
  1: "#d02030"
  2: "#ffffff80"
rows:
  - ".1."
  - "121"
`

func TestDecodeSprite(t *testing.T) {
	s, err := DecodeSprite(strings.NewReader(heartYAML))
	if err != nil {
		t.Fatalf("DecodeSprite: %v", err)
	}
	if s.Name != "heart" || s.Width != 3 || s.Height != 2 {
		t.Errorf("sprite = %s %dx%d, want heart 3x2", s.Name, s.Width, s.Height)
	}
	if f, _ := s.FilterMode(); f != surface.FilterLinear {
		t.Errorf("filter = %v, want linear", f)
	}
	if w, _ := s.WrapMode(); w != surface.WrapRepeat {
		t.Errorf("wrap = %v, want repeat", w)
	}
	if s.Palette[2] != "#ffffff80" {
		t.Errorf("palette[2] = %q", s.Palette[2])
	}
}

func TestDecodeSpriteCountsCells(t *testing.T) {
	s, err := DecodeSprite(strings.NewReader("rows: [\"1é\", \"1\"]"))
	if err != nil {
		t.Fatalf("DecodeSprite: %v", err)
	}
	if s.Width != 2 {
		t.Errorf("Width = %d, want 2 cells", s.Width)
	}
}

func TestSpriteCompile(t *testing.T) {
	s, err := DecodeSprite(strings.NewReader(heartYAML))
	if err != nil {
		t.Fatalf("DecodeSprite: %v", err)
	}
	c := newCompiler(t)
	_ = c.SetCell(5, 5, 1) // stale data is cleared by Apply

	m := &mockCreator{}
	if _, err := s.Compile(c, m); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	red := []byte{0xd0, 0x20, 0x30, 0xff}
	half := []byte{0xff, 0xff, 0xff, 0x80}
	zero := []byte{0, 0, 0, 0}
	// image rows: ".1." then "121"
	want := bytes.Join([][]byte{zero, red, zero, red, half, red}, nil)
	if !bytes.Equal(m.pixels, want) {
		t.Errorf("pixels = %v, want %v", m.pixels, want)
	}
	if m.width != 3 || m.height != 2 {
		t.Errorf("texture = %dx%d, want 3x2", m.width, m.height)
	}
	if got, _ := c.Cell(1, 1); got != 2 {
		t.Errorf("cell (1,1) = %d, want 2", got)
	}
	if m.filter != surface.FilterLinear || m.wrap != surface.WrapRepeat {
		t.Errorf("modes = %v/%v", m.filter, m.wrap)
	}
	if got, _ := c.Cell(5, 5); got != 0 {
		t.Errorf("stale cell = %d, want 0", got)
	}
}

func TestSpriteErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"bad cell", "rows: [\"1x\"]", nil},
		{"bad color", "palette: {1: \"red\"}\nrows: [\"1\"]", nil},
		{"palette index", "palette: {16: \"#000000\"}\nrows: [\"1\"]", ErrPaletteIndexOutOfRange},
		{"filter", "filter: cubic\nrows: [\"1\"]", nil},
		{"row wider than width", "width: 2\nrows: [\"1.1\"]", ErrSpriteSize},
		{"rows taller than height", "height: 1\nrows: [\"1\", \"1\"]", ErrSpriteSize},
		{"multibyte cell", "rows: [\"1é\"]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeSprite(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("DecodeSprite: %v", err)
			}
			m := &mockCreator{}
			_, err = s.Compile(newCompiler(t), m)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if m.calls != 0 {
				t.Error("creator must not be called")
			}
		})
	}
}

func TestSpriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.yaml")

	in := Sprite{
		Name:    "dot",
		Palette: map[uint16]string{1: "#010203"},
		Rows:    []string{"1"},
	}
	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := LoadSprite(path)
	if err != nil {
		t.Fatalf("LoadSprite: %v", err)
	}
	if out.Name != "dot" || out.Width != 1 || out.Height != 1 || out.Palette[1] != "#010203" {
		t.Errorf("loaded %+v", out)
	}

	if _, err := LoadSprite(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, true},
		{"a0b0c0d0", color.NRGBA{R: 0xa0, G: 0xb0, B: 0xc0, A: 0xd0}, true},
		{"#fff", color.NRGBA{}, false},
		{"#gg0000", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHexColor(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
