// Package vg provides a small imperative 2D graphics library over a
// pluggable render surface.
//
// # Overview
//
// A Library owns two fixed-capacity handle tables, one for textures and one
// for compiled shapes, and forwards drawing to a surface.Surface. Resources
// are named by small integer handles (handle.Handle) that are handed out
// lowest-free-slot first, so a program sees the same handle values on
// every run.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vg"
//	    "github.com/gogpu/vg/surface"
//	)
//
//	lib, err := vg.New(surface.NewImageSurface(320, 240))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	// Indexed texture: palette + grid of indices
//	c := lib.ITex()
//	c.Clear()
//	c.SetPalette(1, 255, 0, 0, 255)
//	c.SetCell(0, 0, 1)
//	tex, err := lib.CompileITex(8, 8, surface.WrapClamp, surface.FilterNearest)
//
//	// Draw it
//	lib.Clear()
//	lib.UseTexture(tex)
//	lib.RectTexture(10, 10, 64, 64)
//
// # Surfaces
//
// Resource management (textures, shapes) works on every surface. Drawing
// needs a surface implementing surface.Drawer, texture editing needs
// surface.Editor, and readback needs surface.TextureReader; calls that need
// a missing capability fail with ErrNotSupported.
//
// # Coordinate System
//
// Coordinates are surface pixels:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Shape rotation in degrees
//
// # Concurrency
//
// A Library is not safe for concurrent use. It is meant to be driven by a
// single render goroutine; only SetLogger may be called from anywhere.
package vg

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
