// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "errors"

// Surface errors.
var (
	// ErrInvalidDimensions is returned when a width or height is not
	// positive, exceeds MaxTextureSize, or the pixel buffer size overflows.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrPixelDataSize is returned when a pixel buffer does not hold exactly
	// width*height*4 bytes.
	ErrPixelDataSize = errors.New("surface: pixel data size mismatch")

	// ErrForeignResource is returned when a texture or shape was not created
	// by the surface it is passed to.
	ErrForeignResource = errors.New("surface: resource belongs to another surface")

	// ErrResourceDestroyed is returned when operating on a destroyed texture
	// or shape.
	ErrResourceDestroyed = errors.New("surface: resource has been destroyed")

	// ErrSurfaceClosed is returned when operations are attempted on a closed
	// surface.
	ErrSurfaceClosed = errors.New("surface: surface is closed")

	// ErrTooFewVertices is returned when compiling a shape with fewer than
	// three vertices.
	ErrTooFewVertices = errors.New("surface: shape needs at least 3 vertices")

	// ErrTexCoordCount is returned when texture coordinates do not match the
	// vertex count.
	ErrTexCoordCount = errors.New("surface: texture coordinate count mismatch")

	// ErrNotTextured is returned when drawing an untextured shape with a
	// texture.
	ErrNotTextured = errors.New("surface: shape has no texture coordinates")

	// ErrTargetIsSource is returned when a texture is drawn into itself on
	// a surface that cannot sample its render target.
	ErrTargetIsSource = errors.New("surface: texture is its own draw target")

	// ErrNilDevice is returned when creating a HALSurface without a device
	// or queue.
	ErrNilDevice = errors.New("surface: HAL device is nil")

	// ErrInvalidProvider is returned when OptionHALProvider does not hold
	// a gpucontext.DeviceProvider.
	ErrInvalidProvider = errors.New("surface: hal provider is not a gpucontext.DeviceProvider")

	// ErrNoBackendAvailable is returned when no registered backend could
	// open a surface.
	ErrNoBackendAvailable = errors.New("surface: no backend available")
)
