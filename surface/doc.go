// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface defines the render surface that vg draws through, and
// provides its built-in backends.
//
// A render surface owns every GPU-side object: textures created from RGBA
// pixel buffers and compiled shapes (vertex lists with optional texture
// coordinates). vg itself only keeps small integer handles that name these
// objects; see package handle.
//
// # Backends
//
//   - ImageSurface: CPU rendering into an *image.NRGBA framebuffer.
//     Implements every optional capability (Drawer, Editor, TextureWriter,
//     TextureReader, Framebuffer).
//   - HALSurface: textures, samplers and vertex buffers on a gogpu/wgpu HAL
//     device. Draws into an offscreen framebuffer texture and into its own
//     textures (Drawer, Editor, TextureWriter); there is no readback.
//
// # Optional capabilities
//
// Beyond the required Surface methods, a backend advertises extra features
// by implementing optional interfaces, checked with a type assertion:
//
//	if d, ok := s.(surface.Drawer); ok {
//	    d.Clear(color.NRGBA{A: 255})
//	}
//
// # Registry
//
// Backends register a factory under a name and priority. Open tries them
// from the highest priority down and returns the first surface that opens;
// OpenBackend opens one by name:
//
//	s, err := surface.Open(surface.Options{Width: 320, Height: 240})
//
//	s, err := surface.OpenBackend("hal", surface.Options{Custom: map[string]any{
//	    surface.OptionHALDevice: device,
//	    surface.OptionHALQueue:  queue,
//	}})
//
// # Pixel layout
//
// Texture pixel buffers are tightly packed 8-bit RGBA with straight
// (non-premultiplied) alpha, width*height*4 bytes, first row first.
//
// Surfaces are NOT thread-safe. Each surface should be used from the single
// render goroutine that owns it.
package surface
