// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halVertexStride is the size of one interleaved vertex: position (vec2)
// followed by texture coordinate (vec2).
const halVertexStride = 16

// textureFormat is the format of every vg texture.
const textureFormat = gputypes.TextureFormatRGBA8Unorm

// HALConfig configures a HALSurface.
type HALConfig struct {
	// Format is the framebuffer format. The zero value selects RGBA8Unorm.
	Format gputypes.TextureFormat

	// Width and Height are the framebuffer size in pixels.
	Width, Height int
}

// HALSurface keeps vg textures and shapes on a gogpu/wgpu HAL device and
// draws them with one textured pipeline per render target format.
//
// Each texture owns a 2D RGBA8 texture, its default view and a sampler that
// encodes the texture's filter and wrap mode. Shapes are fan-triangulated
// into interleaved vertex buffers. Drawing renders into an offscreen
// framebuffer texture, or into a vg texture through EditTarget; untextured
// fills sample a 1x1 white texture.
//
// Every draw call records and submits its own render pass and waits for
// the device to go idle before releasing its transient buffers.
//
// Lifecycle:
//  1. Create via NewHALSurface with a device and queue
//  2. CreateTexture / CompileShape, draw, edit
//  3. Call Close to release every remaining resource
type HALSurface struct {
	*halCanvas

	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	width  int
	height int

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipelines  map[gputypes.TextureFormat]hal.RenderPipeline

	fb    *halTexture // framebuffer, never sampled
	white *halTexture

	textures map[*halTexture]struct{}
	shapes   map[*halShape]struct{}

	closed bool
}

// halTexture is the Texture implementation of HALSurface.
type halTexture struct {
	owner     *HALSurface
	desc      TextureDesc
	format    gputypes.TextureFormat
	tex       hal.Texture
	view      hal.TextureView
	sampler   hal.Sampler
	destroyed bool
}

// Desc implements Texture.
func (t *halTexture) Desc() TextureDesc { return t.desc }

// halShape is the Shape implementation of HALSurface.
type halShape struct {
	owner     *HALSurface
	buf       hal.Buffer
	vertices  int
	triangles int
	textured  bool
	destroyed bool
}

// VertexCount implements Shape.
func (s *halShape) VertexCount() int { return s.vertices }

// Textured implements Shape.
func (s *halShape) Textured() bool { return s.textured }

// NewHALSurface creates a surface on the given device and queue.
func NewHALSurface(device hal.Device, queue hal.Queue, cfg HALConfig) (*HALSurface, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if cfg.Format == gputypes.TextureFormatUndefined {
		cfg.Format = textureFormat
	}
	fbDesc := TextureDesc{Width: cfg.Width, Height: cfg.Height}
	if err := fbDesc.validate(nil); err != nil {
		return nil, fmt.Errorf("surface: framebuffer: %w", err)
	}

	s := &HALSurface{
		device:    device,
		queue:     queue,
		format:    cfg.Format,
		width:     cfg.Width,
		height:    cfg.Height,
		pipelines: make(map[gputypes.TextureFormat]hal.RenderPipeline),
		textures:  make(map[*halTexture]struct{}),
		shapes:    make(map[*halShape]struct{}),
	}
	s.halCanvas = &halCanvas{owner: s}

	if err := s.init(fbDesc); err != nil {
		s.release()
		return nil, err
	}

	slogger().Info("surface: HAL surface ready",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("format", int(cfg.Format)))
	return s, nil
}

func (s *HALSurface) init(fbDesc TextureDesc) error {
	if err := s.createLayouts(); err != nil {
		return err
	}
	if _, err := s.pipelineFor(s.format); err != nil {
		return err
	}

	fb, err := s.newTexture("vg_framebuffer", fbDesc, s.format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc, nil)
	if err != nil {
		return err
	}
	s.fb = fb

	white, err := s.newTexture("vg_white", TextureDesc{Width: 1, Height: 1}, textureFormat,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst, []byte{255, 255, 255, 255})
	if err != nil {
		return err
	}
	s.white = white
	return nil
}

// createLayouts compiles the textured shader and creates the bind group
// and pipeline layouts shared by every pipeline.
func (s *HALSurface) createLayouts() error {
	spirv, err := compileTexturedShader()
	if err != nil {
		return err
	}

	shader, err := s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "vg_textured_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("surface: create textured shader module: %w", err)
	}
	s.shader = shader

	// Binding 0: texture (texture_2d, fragment)
	// Binding 1: sampler (fragment)
	// Binding 2: draw uniforms (vertex + fragment)
	bindLayout, err := s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "vg_textured_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStagesVertexFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: drawUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("surface: create bind group layout: %w", err)
	}
	s.bindLayout = bindLayout

	pipeLayout, err := s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "vg_textured_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{s.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("surface: create pipeline layout: %w", err)
	}
	s.pipeLayout = pipeLayout
	return nil
}

// pipelineFor returns the textured pipeline that renders into format,
// creating it on first use.
func (s *HALSurface) pipelineFor(format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if p, ok := s.pipelines[format]; ok {
		return p, nil
	}

	blend := gputypes.BlendStateAlpha()
	pipeline, err := s.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "vg_textured_pipeline",
		Layout: s.pipeLayout,
		Vertex: hal.VertexState{
			Module:     s.shader,
			EntryPoint: "vs_main",
			Buffers:    texturedVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     s.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("surface: create textured pipeline: %w", err)
	}
	s.pipelines[format] = pipeline
	return pipeline, nil
}

func texturedVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: halVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// release destroys the framebuffer, the white texture and the pipeline
// objects. Safe on partially created state.
func (s *HALSurface) release() {
	if s.fb != nil {
		s.releaseTexture(s.fb)
		s.fb = nil
	}
	if s.white != nil {
		s.releaseTexture(s.white)
		s.white = nil
	}
	for format, p := range s.pipelines {
		s.device.DestroyRenderPipeline(p)
		delete(s.pipelines, format)
	}
	if s.pipeLayout != nil {
		s.device.DestroyPipelineLayout(s.pipeLayout)
		s.pipeLayout = nil
	}
	if s.bindLayout != nil {
		s.device.DestroyBindGroupLayout(s.bindLayout)
		s.bindLayout = nil
	}
	if s.shader != nil {
		s.device.DestroyShaderModule(s.shader)
		s.shader = nil
	}
}

// Pipeline returns the textured render pipeline of the framebuffer format.
func (s *HALSurface) Pipeline() hal.RenderPipeline {
	return s.pipelines[s.format]
}

// BindGroupLayout returns the layout of the texture, sampler and uniform
// bind group.
func (s *HALSurface) BindGroupLayout() hal.BindGroupLayout {
	return s.bindLayout
}

// Framebuffer returns the texture and view the surface draws to.
func (s *HALSurface) Framebuffer() (hal.Texture, hal.TextureView) {
	if s.fb == nil {
		return nil, nil
	}
	return s.fb.tex, s.fb.view
}

// Size returns the framebuffer dimensions.
func (s *HALSurface) Size() (width, height int) {
	return s.width, s.height
}

// Resources returns the number of live textures and shapes.
func (s *HALSurface) Resources() (textures, shapes int) {
	return len(s.textures), len(s.shapes)
}

// CreateTexture implements Surface.
func (s *HALSurface) CreateTexture(desc TextureDesc, pixels []byte) (Texture, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if err := desc.validate(pixels); err != nil {
		return nil, err
	}

	t, err := s.newTexture("vg_texture", desc, textureFormat,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst|gputypes.TextureUsageRenderAttachment, pixels)
	if err != nil {
		return nil, err
	}
	s.textures[t] = struct{}{}

	slogger().Debug("surface: HAL texture created",
		slog.Int("width", desc.Width),
		slog.Int("height", desc.Height),
		slog.String("filter", desc.Filter.String()),
		slog.String("wrap", desc.Wrap.String()))
	return t, nil
}

// newTexture creates a texture, its view and, for sampled textures, its
// sampler, and uploads pixels when given. desc must be valid.
func (s *HALSurface) newTexture(label string, desc TextureDesc, format gputypes.TextureFormat,
	usage gputypes.TextureUsage, pixels []byte,
) (*halTexture, error) {
	w, h := uint32(desc.Width), uint32(desc.Height) //nolint:gosec // validated by caller
	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("surface: create %s: %w", label, err)
	}

	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.device.DestroyTexture(tex)
		return nil, fmt.Errorf("surface: create %s view: %w", label, err)
	}
	t := &halTexture{owner: s, desc: desc, format: format, tex: tex, view: view}

	if usage&gputypes.TextureUsageTextureBinding != 0 {
		filter := halFilter(desc.Filter)
		address := halAddressMode(desc.Wrap)
		sampler, err := s.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        label + "_sampler",
			AddressModeU: address,
			AddressModeV: address,
			AddressModeW: address,
			MagFilter:    filter,
			MinFilter:    filter,
			MipmapFilter: filter,
		})
		if err != nil {
			s.releaseTexture(t)
			return nil, fmt.Errorf("surface: create %s sampler: %w", label, err)
		}
		t.sampler = sampler
	}

	if pixels != nil {
		if err := s.upload(t, desc.Width, desc.Height, pixels); err != nil {
			s.releaseTexture(t)
			return nil, err
		}
	}
	return t, nil
}

// DestroyTexture implements Surface.
func (s *HALSurface) DestroyTexture(tex Texture) error {
	t, err := s.texture(tex)
	if err != nil {
		return err
	}
	s.releaseTexture(t)
	delete(s.textures, t)
	return nil
}

// WriteTexture implements TextureWriter. The region must fit inside the
// texture.
func (s *HALSurface) WriteTexture(tex Texture, width, height int, pixels []byte) error {
	t, err := s.texture(tex)
	if err != nil {
		return err
	}
	src := TextureDesc{Width: width, Height: height}
	if err := src.validate(pixels); err != nil {
		return err
	}
	if pixels == nil {
		return fmt.Errorf("%w: nil pixel data", ErrPixelDataSize)
	}
	if width > t.desc.Width || height > t.desc.Height {
		return fmt.Errorf("%w: region %dx%d exceeds texture %dx%d",
			ErrInvalidDimensions, width, height, t.desc.Width, t.desc.Height)
	}
	return s.upload(t, width, height, pixels)
}

func (s *HALSurface) upload(t *halTexture, width, height int, pixels []byte) error {
	w, h := uint32(width), uint32(height) //nolint:gosec // validated positive
	err := s.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("surface: upload texture: %w", err)
	}
	return nil
}

// CompileShape implements Surface. The polygon is fan-triangulated, so it
// should be convex.
func (s *HALSurface) CompileShape(vertices, texCoords []Vec2) (Shape, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if err := validateShape(vertices, texCoords); err != nil {
		return nil, err
	}

	buf, err := s.createAndUploadBuffer("vg_shape_vertices", fanVertices(vertices, texCoords),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("surface: create shape buffer: %w", err)
	}

	sh := &halShape{
		owner:     s,
		buf:       buf,
		vertices:  len(vertices),
		triangles: len(vertices) - 2,
		textured:  texCoords != nil,
	}
	s.shapes[sh] = struct{}{}
	return sh, nil
}

// createAndUploadBuffer creates a buffer sized for data and writes data
// into it.
func (s *HALSurface) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	if err := s.queue.WriteBuffer(buf, 0, data); err != nil {
		s.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// fanVertices triangulates a polygon as a fan around its first vertex and
// interleaves position and texture coordinate.
func fanVertices(vertices, texCoords []Vec2) []byte {
	tris := len(vertices) - 2
	data := make([]byte, tris*3*halVertexStride)
	off := 0
	put := func(i int) {
		var uv Vec2
		if texCoords != nil {
			uv = texCoords[i]
		}
		binary.LittleEndian.PutUint32(data[off:off+4], math.Float32bits(vertices[i].X))
		binary.LittleEndian.PutUint32(data[off+4:off+8], math.Float32bits(vertices[i].Y))
		binary.LittleEndian.PutUint32(data[off+8:off+12], math.Float32bits(uv.X))
		binary.LittleEndian.PutUint32(data[off+12:off+16], math.Float32bits(uv.Y))
		off += halVertexStride
	}
	for i := 1; i <= tris; i++ {
		put(0)
		put(i)
		put(i + 1)
	}
	return data
}

// DestroyShape implements Surface.
func (s *HALSurface) DestroyShape(shape Shape) error {
	sh, err := s.shape(shape)
	if err != nil {
		return err
	}
	s.device.DestroyBuffer(sh.buf)
	sh.buf = nil
	sh.destroyed = true
	delete(s.shapes, sh)
	return nil
}

// Close releases every texture, shape, the framebuffer and the pipeline
// objects. Close is idempotent; multiple calls are safe.
func (s *HALSurface) Close() error {
	if s.closed {
		return nil
	}
	for t := range s.textures {
		s.releaseTexture(t)
	}
	for sh := range s.shapes {
		s.device.DestroyBuffer(sh.buf)
		sh.buf = nil
		sh.destroyed = true
	}
	clear(s.textures)
	clear(s.shapes)
	s.release()
	s.closed = true
	return nil
}

func (s *HALSurface) releaseTexture(t *halTexture) {
	if t.sampler != nil {
		s.device.DestroySampler(t.sampler)
	}
	s.device.DestroyTextureView(t.view)
	s.device.DestroyTexture(t.tex)
	t.sampler, t.view, t.tex = nil, nil, nil
	t.destroyed = true
}

func (s *HALSurface) texture(tex Texture) (*halTexture, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	t, ok := tex.(*halTexture)
	if !ok || t == nil || t.owner != s || t == s.fb || t == s.white {
		return nil, ErrForeignResource
	}
	if t.destroyed {
		return nil, ErrResourceDestroyed
	}
	return t, nil
}

func (s *HALSurface) shape(shape Shape) (*halShape, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	sh, ok := shape.(*halShape)
	if !ok || sh == nil || sh.owner != s {
		return nil, ErrForeignResource
	}
	if sh.destroyed {
		return nil, ErrResourceDestroyed
	}
	return sh, nil
}

func halFilter(f FilterMode) gputypes.FilterMode {
	if f == FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

func halAddressMode(w WrapMode) gputypes.AddressMode {
	if w == WrapRepeat {
		return gputypes.AddressModeRepeat
	}
	return gputypes.AddressModeClampToEdge
}
