package vg

import (
	"errors"

	"github.com/gogpu/vg/handle"
	"github.com/gogpu/vg/itex"
	"github.com/gogpu/vg/surface"
)

// Library errors.
var (
	// ErrNotSupported is returned when the surface lacks the capability an
	// operation needs (drawing, editing, pixel upload or readback).
	ErrNotSupported = errors.New("vg: operation not supported by surface")

	// ErrNoEditTarget is returned by Edit* calls before EditTexture.
	ErrNoEditTarget = errors.New("vg: no texture is being edited")

	// ErrLibraryClosed is returned by every operation after Close.
	ErrLibraryClosed = errors.New("vg: library is closed")

	// ErrNilSurface is returned by New without a surface.
	ErrNilSurface = errors.New("vg: surface is nil")
)

// Errors of the sub-packages, re-exported for errors.Is checks against a
// single package.
var (
	ErrResourceExhausted        = handle.ErrResourceExhausted
	ErrInvalidHandle            = handle.ErrInvalidHandle
	ErrPaletteIndexOutOfRange   = itex.ErrPaletteIndexOutOfRange
	ErrGridCoordinateOutOfRange = itex.ErrGridCoordinateOutOfRange
	ErrMismatchedCoordinates    = itex.ErrMismatchedCoordinates
	ErrOutOfMemory              = itex.ErrOutOfMemory
	ErrInvalidDimensions        = surface.ErrInvalidDimensions
	ErrPixelDataSize            = surface.ErrPixelDataSize
)
