// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package itex compiles indexed textures.
//
// An indexed texture is a small palette of RGBA colors plus a square grid
// whose cells hold palette indices. Compiling looks every cell up in the
// palette and produces a dense RGBA buffer that is handed to a texture
// creator.
//
// Buffer layout: cells are visited column by column, x in the outer loop
// and y in the inner loop, so the bytes of cell (x, y) start at offset
// (x*height + y)*4. Consumers that read the buffer as rows of an image see
// the grid transposed.
//
// Cell value 0 is both "unset" and palette index 0, so unset cells take the
// color stored at index 0 (transparent black after Clear).
//
// A Compiler is a reusable scratchpad: call Clear between unrelated images,
// or create one Compiler per image. It is not safe for concurrent use.
package itex

import (
	"fmt"
	"image/color"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/surface"
)

// TextureCreator receives compiled pixel buffers. vg.Library implements it.
type TextureCreator interface {
	CreateTexture(width, height int, filter surface.FilterMode, wrap surface.WrapMode, pixels []byte) (handle.Handle, error)
}

// Compiler holds a palette and an index grid.
type Compiler struct {
	cfg     config
	palette []color.NRGBA
	cells   []uint16 // x-major: cells[x*gridSize+y]
}

// New creates a Compiler with a cleared palette and grid.
func New(opts ...Option) (*Compiler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Compiler{
		cfg:     cfg,
		palette: make([]color.NRGBA, cfg.paletteSize),
		cells:   make([]uint16, cfg.gridSize*cfg.gridSize),
	}, nil
}

// PaletteSize returns the number of palette entries.
func (c *Compiler) PaletteSize() int { return c.cfg.paletteSize }

// GridSize returns the side of the index grid.
func (c *Compiler) GridSize() int { return c.cfg.gridSize }

// Clear resets every palette entry to transparent black and every cell to 0.
func (c *Compiler) Clear() {
	clear(c.palette)
	clear(c.cells)
}

// SetPalette stores the color of one palette entry.
func (c *Compiler) SetPalette(index uint16, r, g, b, a uint8) error {
	return c.SetPaletteColor(index, color.NRGBA{R: r, G: g, B: b, A: a})
}

// SetPaletteColor is SetPalette with a color value.
func (c *Compiler) SetPaletteColor(index uint16, col color.NRGBA) error {
	if int(index) >= len(c.palette) {
		return fmt.Errorf("%w: %d (palette size %d)", ErrPaletteIndexOutOfRange, index, len(c.palette))
	}
	c.palette[index] = col
	return nil
}

// PaletteColor returns the color of a palette entry.
func (c *Compiler) PaletteColor(index uint16) (color.NRGBA, error) {
	if int(index) >= len(c.palette) {
		return color.NRGBA{}, fmt.Errorf("%w: %d (palette size %d)", ErrPaletteIndexOutOfRange, index, len(c.palette))
	}
	return c.palette[index], nil
}

// SetCell stores a palette index at (x, y). The index is checked against
// the palette only when the cell is compiled.
func (c *Compiler) SetCell(x, y int, index uint16) error {
	if err := c.checkCell(x, y); err != nil {
		return err
	}
	c.cells[x*c.cfg.gridSize+y] = index
	return nil
}

// SetCells stores one palette index at every (xs[i], ys[i]). No cell is
// written unless all coordinates are valid.
func (c *Compiler) SetCells(index uint16, xs, ys []int) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x values, %d y values", ErrMismatchedCoordinates, len(xs), len(ys))
	}
	for i := range xs {
		if err := c.checkCell(xs[i], ys[i]); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	for i := range xs {
		c.cells[xs[i]*c.cfg.gridSize+ys[i]] = index
	}
	return nil
}

// Cell returns the palette index stored at (x, y).
func (c *Compiler) Cell(x, y int) (uint16, error) {
	if err := c.checkCell(x, y); err != nil {
		return 0, err
	}
	return c.cells[x*c.cfg.gridSize+y], nil
}

func (c *Compiler) checkCell(x, y int) error {
	n := c.cfg.gridSize
	if x < 0 || x >= n || y < 0 || y >= n {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d grid", ErrGridCoordinateOutOfRange, x, y, n, n)
	}
	return nil
}

// Pixels flattens the width x height corner of the grid into an RGBA
// buffer in x-major order (see the package documentation).
func (c *Compiler) Pixels(width, height int) ([]byte, error) {
	n := c.cfg.gridSize
	if width < 1 || width > n || height < 1 || height > n {
		return nil, fmt.Errorf("%w: %dx%d outside %dx%d grid", ErrGridCoordinateOutOfRange, width, height, n, n)
	}

	size := width * height * 4
	if size > c.cfg.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds budget of %d", ErrOutOfMemory, size, c.cfg.maxBytes)
	}
	buf, err := c.cfg.alloc(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if len(buf) < size {
		return nil, fmt.Errorf("%w: allocator returned %d bytes, want %d", ErrOutOfMemory, len(buf), size)
	}
	buf = buf[:size]

	off := 0
	for x := 0; x < width; x++ {
		col := c.cells[x*n : x*n+height]
		for y, idx := range col {
			if int(idx) >= len(c.palette) {
				return nil, fmt.Errorf("%w: cell (%d, %d) holds %d (palette size %d)",
					ErrPaletteIndexOutOfRange, x, y, idx, len(c.palette))
			}
			p := c.palette[idx]
			buf[off], buf[off+1], buf[off+2], buf[off+3] = p.R, p.G, p.B, p.A
			off += 4
		}
	}
	return buf, nil
}

// Compile builds the pixel buffer and passes it to creator. The creator is
// not called when the buffer cannot be built.
func (c *Compiler) Compile(creator TextureCreator, width, height int, wrap surface.WrapMode, filter surface.FilterMode) (handle.Handle, error) {
	pixels, err := c.Pixels(width, height)
	if err != nil {
		return 0, err
	}
	h, err := creator.CreateTexture(width, height, filter, wrap, pixels)
	if err != nil {
		return 0, fmt.Errorf("itex: create %dx%d texture: %w", width, height, err)
	}
	return h, nil
}
