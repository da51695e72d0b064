// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package itex

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/surface"
)

// Sprite is a YAML indexed-texture document:
//
//	name: heart
//	filter: nearest
//	palette:
//	  1: "#d02030"
//	  2: "#ffffff80"
//	rows:
//	  - ".11.11."
//	  - "1211111"
//	  - ".11111."
//
// Each row is one image line; its characters are hexadecimal palette
// indices and '.' or ' ' mean index 0. Width and height default to the
// longest row and the number of rows; explicit sizes must cover every
// row.
//
// Apply stores image pixel (col, row) in grid cell (row, col), so the
// column-by-column compiled buffer reads as image rows and the texture
// comes out upright.
type Sprite struct {
	Name    string            `yaml:"name"`
	Width   int               `yaml:"width,omitempty"`
	Height  int               `yaml:"height,omitempty"`
	Filter  string            `yaml:"filter,omitempty"`
	Wrap    string            `yaml:"wrap,omitempty"`
	Palette map[uint16]string `yaml:"palette"`
	Rows    []string          `yaml:"rows"`
}

func (s *Sprite) normalize() {
	if s.Name == "" {
		s.Name = "sprite"
	}
	if s.Height == 0 {
		s.Height = len(s.Rows)
	}
	if s.Width == 0 {
		for _, row := range s.Rows {
			s.Width = max(s.Width, utf8.RuneCountInString(row))
		}
	}
}

// FilterMode parses the filter field.
func (s *Sprite) FilterMode() (surface.FilterMode, error) {
	return surface.ParseFilterMode(s.Filter)
}

// WrapMode parses the wrap field.
func (s *Sprite) WrapMode() (surface.WrapMode, error) {
	return surface.ParseWrapMode(s.Wrap)
}

// LoadSprite reads a sprite document from a file.
func LoadSprite(path string) (Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sprite{}, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	s, err := DecodeSprite(f)
	if err != nil {
		return Sprite{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// DecodeSprite reads a sprite document.
func DecodeSprite(r io.Reader) (Sprite, error) {
	var s Sprite
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Sprite{}, err
	}
	s.normalize()
	return s, nil
}

// Encode writes the sprite as YAML.
func (s Sprite) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("encode sprite %s: %w", s.Name, err)
	}
	return enc.Close()
}

// Apply clears c and loads the sprite's palette and cells into it.
func (s Sprite) Apply(c *Compiler) error {
	c.Clear()
	for idx, hexColor := range s.Palette {
		col, err := ParseHexColor(hexColor)
		if err != nil {
			return fmt.Errorf("palette %d: %w", idx, err)
		}
		if err := c.SetPaletteColor(idx, col); err != nil {
			return err
		}
	}
	if len(s.Rows) > s.Height {
		return fmt.Errorf("%w: %d rows, height %d", ErrSpriteSize, len(s.Rows), s.Height)
	}
	for y, row := range s.Rows {
		if n := utf8.RuneCountInString(row); n > s.Width {
			return fmt.Errorf("%w: row %d has %d cells, width %d", ErrSpriteSize, y, n, s.Width)
		}
		x := 0
		for _, ch := range row {
			idx, err := cellIndex(ch)
			if err != nil {
				return fmt.Errorf("row %d column %d: %w", y, x, err)
			}
			if idx != 0 {
				if err := c.SetCell(y, x, idx); err != nil {
					return err
				}
			}
			x++
		}
	}
	return nil
}

// Compile applies the sprite to c and passes the pixels, in image row
// order, to creator.
func (s Sprite) Compile(c *Compiler, creator TextureCreator) (handle.Handle, error) {
	filter, err := s.FilterMode()
	if err != nil {
		return 0, err
	}
	wrap, err := s.WrapMode()
	if err != nil {
		return 0, err
	}
	if err := s.Apply(c); err != nil {
		return 0, err
	}
	pixels, err := c.Pixels(s.Height, s.Width)
	if err != nil {
		return 0, err
	}
	h, err := creator.CreateTexture(s.Width, s.Height, filter, wrap, pixels)
	if err != nil {
		return 0, fmt.Errorf("itex: create sprite %s: %w", s.Name, err)
	}
	return h, nil
}

func cellIndex(ch rune) (uint16, error) {
	switch {
	case ch == '.' || ch == ' ':
		return 0, nil
	case ch >= '0' && ch <= '9':
		return uint16(ch - '0'), nil
	case ch >= 'a' && ch <= 'f':
		return uint16(ch-'a') + 10, nil
	case ch >= 'A' && ch <= 'F':
		return uint16(ch-'A') + 10, nil
	}
	return 0, fmt.Errorf("invalid cell %q", ch)
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". Colors without alpha are
// opaque.
func ParseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(s, "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	col := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		col.A = b[3]
	}
	return col, nil
}
