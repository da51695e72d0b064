package vg

import "github.com/gogpu/vg/itex"

// Default table capacities.
const (
	DefaultTextureCapacity = 0x400
	DefaultShapeCapacity   = 0x300
)

// Option configures a Library during creation.
//
// Example:
//
//	lib, err := vg.New(s,
//	    vg.WithTextureCapacity(64),
//	    vg.WithITexOptions(itex.WithPaletteSize(4)),
//	)
type Option func(*options)

// options holds optional configuration for Library creation.
type options struct {
	textureCapacity int
	shapeCapacity   int
	itexOptions     []itex.Option
}

// defaultOptions returns the default library options.
func defaultOptions() options {
	return options{
		textureCapacity: DefaultTextureCapacity,
		shapeCapacity:   DefaultShapeCapacity,
	}
}

// WithTextureCapacity sets the number of texture handles.
func WithTextureCapacity(n int) Option {
	return func(o *options) {
		o.textureCapacity = n
	}
}

// WithShapeCapacity sets the number of shape handles.
func WithShapeCapacity(n int) Option {
	return func(o *options) {
		o.shapeCapacity = n
	}
}

// WithITexOptions configures the library's indexed-texture compiler.
// Repeated use appends.
func WithITexOptions(opts ...itex.Option) Option {
	return func(o *options) {
		o.itexOptions = append(o.itexOptions, opts...)
	}
}
