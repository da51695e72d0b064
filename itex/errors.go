// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package itex

import "errors"

// Compiler errors.
var (
	// ErrPaletteIndexOutOfRange is returned when a palette index is not below
	// the configured palette size, either at SetPalette time or when a grid
	// cell holds such an index at compile time.
	ErrPaletteIndexOutOfRange = errors.New("itex: palette index out of range")

	// ErrGridCoordinateOutOfRange is returned for grid coordinates or
	// compile dimensions outside the grid.
	ErrGridCoordinateOutOfRange = errors.New("itex: grid coordinate out of range")

	// ErrMismatchedCoordinates is returned by SetCells when the coordinate
	// slices differ in length.
	ErrMismatchedCoordinates = errors.New("itex: mismatched coordinate slices")

	// ErrOutOfMemory is returned when the pixel buffer cannot be allocated.
	ErrOutOfMemory = errors.New("itex: cannot allocate pixel buffer")

	// ErrSpriteSize is returned when a sprite has more rows than its height
	// or a row longer than its width.
	ErrSpriteSize = errors.New("itex: sprite rows exceed its size")

	// ErrInvalidOption is returned by New for out-of-range option values.
	ErrInvalidOption = errors.New("itex: invalid option")
)
