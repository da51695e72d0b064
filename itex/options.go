// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package itex

import (
	"fmt"
	"math"
)

const (
	// DefaultPaletteSize is the number of palette entries of a default
	// compiler.
	DefaultPaletteSize = 16

	// DefaultGridSize is the side of the default index grid.
	DefaultGridSize = 64

	// MaxPaletteSize is the largest palette a cell index can address.
	MaxPaletteSize = math.MaxUint16 + 1

	// MaxGridSize bounds the grid side.
	MaxGridSize = 4096
)

// BufferAllocator returns a zeroed buffer of exactly size bytes.
type BufferAllocator func(size int) ([]byte, error)

func makeBuffer(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// Option configures a Compiler.
//
// Example:
//
//	c, err := itex.New(itex.WithPaletteSize(4), itex.WithGridSize(16))
type Option func(*config)

type config struct {
	paletteSize int
	gridSize    int
	alloc       BufferAllocator
	maxBytes    int
}

func defaultConfig() config {
	return config{
		paletteSize: DefaultPaletteSize,
		gridSize:    DefaultGridSize,
		alloc:       makeBuffer,
	}
}

func (c *config) validate() error {
	if c.paletteSize < 1 || c.paletteSize > MaxPaletteSize {
		return fmt.Errorf("%w: palette size %d", ErrInvalidOption, c.paletteSize)
	}
	if c.gridSize < 1 || c.gridSize > MaxGridSize {
		return fmt.Errorf("%w: grid size %d", ErrInvalidOption, c.gridSize)
	}
	if c.maxBytes < 0 {
		return fmt.Errorf("%w: negative buffer budget %d", ErrInvalidOption, c.maxBytes)
	}
	if c.alloc == nil {
		c.alloc = makeBuffer
	}
	if c.maxBytes == 0 {
		c.maxBytes = c.gridSize * c.gridSize * 4
	}
	return nil
}

// WithPaletteSize sets the number of palette entries.
func WithPaletteSize(n int) Option {
	return func(c *config) {
		c.paletteSize = n
	}
}

// WithGridSize sets the side of the square index grid. It also bounds the
// width and height accepted by Pixels.
func WithGridSize(n int) Option {
	return func(c *config) {
		c.gridSize = n
	}
}

// WithBufferAllocator replaces the pixel buffer allocator. An allocator
// error or a short buffer makes Pixels fail with ErrOutOfMemory.
func WithBufferAllocator(a BufferAllocator) Option {
	return func(c *config) {
		c.alloc = a
	}
}

// WithMaxBufferBytes caps the size of a compiled pixel buffer. Zero means
// the full grid (GridSize*GridSize*4).
func WithMaxBufferBytes(n int) Option {
	return func(c *config) {
		c.maxBytes = n
	}
}
