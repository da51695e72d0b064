// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// drawUniformSize is the size of the draw uniform block:
//
//	viewport: vec2<f32>  target size in pixels
//	offset:   vec2<f32>  translation in pixels
//	basis:    vec4<f32>  2x2 scale-rotation matrix, row-major
//	tint:     vec4<f32>  straight-alpha color multiplier
const drawUniformSize = 48

// halCanvas draws into either the framebuffer of its owner or, when tex is
// set, into one of the owner's textures.
type halCanvas struct {
	owner *HALSurface
	tex   *halTexture
}

// EditTarget implements Editor.
func (s *HALSurface) EditTarget(tex Texture) (Drawer, error) {
	t, err := s.texture(tex)
	if err != nil {
		return nil, err
	}
	return &halCanvas{owner: s, tex: t}, nil
}

// target returns the texture to render into.
func (c *halCanvas) target() (*halTexture, error) {
	if c.owner.closed {
		return nil, ErrSurfaceClosed
	}
	if c.tex == nil {
		return c.owner.fb, nil
	}
	if c.tex.destroyed {
		return nil, ErrResourceDestroyed
	}
	return c.tex, nil
}

// Clear implements Drawer.
func (c *halCanvas) Clear(col color.NRGBA) {
	dst, err := c.target()
	if err != nil {
		return
	}
	clearValue := gputypes.Color{
		R: float64(col.R) / 255,
		G: float64(col.G) / 255,
		B: float64(col.B) / 255,
		A: float64(col.A) / 255,
	}
	if err := c.owner.submitPass(dst, gputypes.LoadOpClear, clearValue, nil); err != nil {
		logDrawFailure("clear", err)
	}
}

// FillPolygon implements Drawer. The polygon is fan-triangulated, so it
// should be convex.
func (c *halCanvas) FillPolygon(points []Vec2, col color.NRGBA) {
	dst, err := c.target()
	if err != nil || len(points) < 3 || col.A == 0 {
		return
	}
	if err := c.owner.drawTransient(dst, points, nil, c.owner.white, Identity(), col); err != nil {
		logDrawFailure("fill polygon", err)
	}
}

// TexturePolygon implements Drawer.
func (c *halCanvas) TexturePolygon(tex Texture, points, uvs []Vec2, tint color.NRGBA) error {
	t, err := c.owner.texture(tex)
	if err != nil {
		return err
	}
	dst, err := c.target()
	if err != nil {
		return err
	}
	if t == dst {
		return ErrTargetIsSource
	}
	if len(points) != len(uvs) {
		return fmt.Errorf("%w: %d texture coordinates for %d points", ErrTexCoordCount, len(uvs), len(points))
	}
	if len(points) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewVertices, len(points))
	}
	return c.owner.drawTransient(dst, points, uvs, t, Identity(), tint)
}

// DrawShape implements Drawer.
func (c *halCanvas) DrawShape(shape Shape, xf Transform, col color.NRGBA) error {
	sh, err := c.owner.shape(shape)
	if err != nil {
		return err
	}
	dst, err := c.target()
	if err != nil {
		return err
	}
	return c.owner.draw(dst, sh.buf, sh.triangles*3, c.owner.white, xf, col)
}

// DrawShapeTextured implements Drawer.
func (c *halCanvas) DrawShapeTextured(shape Shape, xf Transform, tex Texture, tint color.NRGBA) error {
	sh, err := c.owner.shape(shape)
	if err != nil {
		return err
	}
	if !sh.Textured() {
		return ErrNotTextured
	}
	t, err := c.owner.texture(tex)
	if err != nil {
		return err
	}
	dst, err := c.target()
	if err != nil {
		return err
	}
	if t == dst {
		return ErrTargetIsSource
	}
	return c.owner.draw(dst, sh.buf, sh.triangles*3, t, xf, tint)
}

// drawTransient uploads a one-off vertex buffer for the polygon and draws
// it.
func (s *HALSurface) drawTransient(dst *halTexture, points, uvs []Vec2, tex *halTexture, xf Transform, tint color.NRGBA) error {
	vbuf, err := s.createAndUploadBuffer("vg_draw_vertices", fanVertices(points, uvs),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("surface: create vertex buffer: %w", err)
	}
	defer s.device.DestroyBuffer(vbuf)
	return s.draw(dst, vbuf, (len(points)-2)*3, tex, xf, tint)
}

// draw renders count vertices of vbuf into dst, sampling tex.
func (s *HALSurface) draw(dst *halTexture, vbuf hal.Buffer, count int, tex *halTexture, xf Transform, tint color.NRGBA) error {
	pipeline, err := s.pipelineFor(dst.format)
	if err != nil {
		return err
	}

	ubuf, err := s.createAndUploadBuffer("vg_draw_uniforms", drawUniforms(dst.desc, xf, tint),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("surface: create uniform buffer: %w", err)
	}
	defer s.device.DestroyBuffer(ubuf)

	bindGroup, err := s.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "vg_draw_bind",
		Layout: s.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: tex.sampler.NativeHandle()}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: ubuf.NativeHandle(), Offset: 0, Size: drawUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("surface: create bind group: %w", err)
	}
	defer s.device.DestroyBindGroup(bindGroup)

	return s.submitPass(dst, gputypes.LoadOpLoad, gputypes.Color{}, func(rp hal.RenderPassEncoder) {
		rp.SetPipeline(pipeline)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.SetVertexBuffer(0, vbuf, 0)
		rp.Draw(uint32(count), 1, 0, 0) //nolint:gosec // bounded by the vertex buffer size
	})
}

// submitPass encodes one render pass into dst, submits it and waits for
// the device to finish.
func (s *HALSurface) submitPass(dst *halTexture, load gputypes.LoadOp, clearValue gputypes.Color, record func(hal.RenderPassEncoder)) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "vg_draw_encoder",
	})
	if err != nil {
		return fmt.Errorf("surface: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("vg_draw"); err != nil {
		return fmt.Errorf("surface: begin encoding: %w", err)
	}

	// Sampled textures become render attachments for the pass and go back
	// afterwards. No-op on backends without explicit layouts.
	edit := dst != s.fb
	if edit {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: dst.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageTextureBinding,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "vg_draw_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       dst.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearValue,
		}},
	})
	if record != nil {
		record(rp)
	}
	rp.End()

	if edit {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: dst.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageTextureBinding,
			},
		}})
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("surface: end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	if _, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("surface: submit: %w", err)
	}
	if err := s.device.WaitIdle(); err != nil {
		return fmt.Errorf("surface: wait for GPU: %w", err)
	}
	return nil
}

// drawUniforms packs the uniform block for a draw into a target of the
// given size.
func drawUniforms(target TextureDesc, xf Transform, tint color.NRGBA) []byte {
	sin, cos := math.Sincos(float64(xf.Rotation) * math.Pi / 180)
	sc := float64(xf.Scale)
	vals := [drawUniformSize / 4]float32{
		float32(target.Width), float32(target.Height),
		xf.X, xf.Y,
		float32(cos * sc), float32(-sin * sc),
		float32(sin * sc), float32(cos * sc),
		float32(tint.R) / 255, float32(tint.G) / 255, float32(tint.B) / 255, float32(tint.A) / 255,
	}
	data := make([]byte, drawUniformSize)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

func logDrawFailure(op string, err error) {
	slogger().Warn("surface: HAL draw failed", slog.String("op", op), slog.Any("err", err))
}
