// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"encoding/binary"
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// recordDevice wraps a noop device and records the render passes encoded
// on it.
type recordDevice struct {
	hal.Device
	passes []*recordPass
	views  int
	idle   int
}

func (d *recordDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordEncoder{CommandEncoder: enc, dev: d}, nil
}

// Noop views and pipelines are zero-size, so they are wrapped to give them
// an identity.

type recordView struct {
	hal.TextureView
	id int
}

type recordPipeline struct {
	hal.RenderPipeline
	format gputypes.TextureFormat
}

func (d *recordDevice) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	view, err := d.Device.CreateTextureView(tex, desc)
	if err != nil {
		return nil, err
	}
	d.views++
	return &recordView{TextureView: view, id: d.views}, nil
}

func (d *recordDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	pipeline, err := d.Device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, err
	}
	return &recordPipeline{RenderPipeline: pipeline, format: desc.Fragment.Targets[0].Format}, nil
}

func (d *recordDevice) WaitIdle() error {
	d.idle++
	return d.Device.WaitIdle()
}

type recordEncoder struct {
	hal.CommandEncoder
	dev *recordDevice
}

func (e *recordEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	p := &recordPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), desc: *desc}
	e.dev.passes = append(e.dev.passes, p)
	return p
}

type recordPass struct {
	hal.RenderPassEncoder
	desc     hal.RenderPassDescriptor
	pipeline hal.RenderPipeline
	draws    []uint32
	ended    bool
}

func (p *recordPass) SetPipeline(pipeline hal.RenderPipeline) {
	p.pipeline = pipeline
	p.RenderPassEncoder.SetPipeline(pipeline)
}

func (p *recordPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.draws = append(p.draws, vertexCount)
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *recordPass) End() {
	p.ended = true
	p.RenderPassEncoder.End()
}

// recordQueue keeps the data of every buffer write.
type recordQueue struct {
	hal.Queue
	writes [][]byte
}

func (q *recordQueue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error {
	q.writes = append(q.writes, append([]byte(nil), data...))
	return q.Queue.WriteBuffer(buffer, offset, data)
}

// lastUniforms decodes the most recent buffer write as a draw uniform
// block.
func (q *recordQueue) lastUniforms(t *testing.T) [drawUniformSize / 4]float32 {
	t.Helper()
	var out [drawUniformSize / 4]float32
	if len(q.writes) == 0 {
		t.Fatal("no buffer writes")
	}
	data := q.writes[len(q.writes)-1]
	if len(data) != drawUniformSize {
		t.Fatalf("last write = %d bytes, want %d", len(data), drawUniformSize)
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func newRecordHALSurface(t *testing.T, cfg HALConfig) (*HALSurface, *recordDevice, *recordQueue) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)
	rd := &recordDevice{Device: device}
	rq := &recordQueue{Queue: queue}
	return openTestHALSurface(t, rd, rq, cfg), rd, rq
}

func (d *recordDevice) lastPass(t *testing.T) *recordPass {
	t.Helper()
	if len(d.passes) == 0 {
		t.Fatal("no render pass recorded")
	}
	return d.passes[len(d.passes)-1]
}

func nearly(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestHALSurfaceCapabilities(t *testing.T) {
	s := newTestHALSurface(t)
	caps := CapabilitiesOf(s)
	if !caps.Drawing || !caps.Editing || !caps.Writing {
		t.Errorf("caps = %+v, want drawing, editing and writing", caps)
	}
}

func TestHALSurfaceClear(t *testing.T) {
	s, rd, _ := newRecordHALSurface(t, HALConfig{Width: 4, Height: 2})

	s.Clear(color.NRGBA{R: 255, B: 51, A: 255})

	p := rd.lastPass(t)
	_, fbView := s.Framebuffer()
	att := p.desc.ColorAttachments[0]
	if att.View != fbView {
		t.Error("clear did not target the framebuffer")
	}
	if att.LoadOp != gputypes.LoadOpClear || att.StoreOp != gputypes.StoreOpStore {
		t.Errorf("ops = %v/%v, want clear/store", att.LoadOp, att.StoreOp)
	}
	if want := (gputypes.Color{R: 1, B: 0.2, A: 1}); att.ClearValue != want {
		t.Errorf("clear value = %+v, want %+v", att.ClearValue, want)
	}
	if len(p.draws) != 0 || !p.ended {
		t.Errorf("draws = %v, ended = %v; want none and ended", p.draws, p.ended)
	}
	if rd.idle != 1 {
		t.Errorf("WaitIdle calls = %d, want 1", rd.idle)
	}
}

func TestHALSurfaceFillPolygon(t *testing.T) {
	s, rd, rq := newRecordHALSurface(t, HALConfig{Width: 16, Height: 8})

	s.FillPolygon([]Vec2{{0, 0}, {4, 0}, {4, 4}, {0, 4}}, color.NRGBA{G: 255, A: 128})

	p := rd.lastPass(t)
	if p.desc.ColorAttachments[0].LoadOp != gputypes.LoadOpLoad {
		t.Error("fill must keep the existing framebuffer contents")
	}
	if p.pipeline != s.Pipeline() {
		t.Error("fill did not use the framebuffer pipeline")
	}
	if len(p.draws) != 1 || p.draws[0] != 6 {
		t.Errorf("draws = %v, want [6]", p.draws)
	}

	u := rq.lastUniforms(t)
	want := [drawUniformSize / 4]float32{16, 8, 0, 0, 1, 0, 0, 1, 0, 1, 0, 128.0 / 255}
	for i := range want {
		if !nearly(u[i], want[i]) {
			t.Errorf("uniforms = %v, want %v", u, want)
			break
		}
	}

	before := len(rd.passes)
	s.FillPolygon([]Vec2{{0, 0}, {1, 1}}, color.NRGBA{A: 255})
	s.FillPolygon([]Vec2{{0, 0}, {1, 1}, {0, 1}}, color.NRGBA{R: 255})
	if len(rd.passes) != before {
		t.Errorf("degenerate or transparent fills recorded %d passes", len(rd.passes)-before)
	}
}

func TestHALSurfaceDrawShapes(t *testing.T) {
	s, rd, rq := newRecordHALSurface(t, HALConfig{Width: 8, Height: 8})

	quad := []Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	plain, err := s.CompileShape(quad, nil)
	if err != nil {
		t.Fatalf("CompileShape: %v", err)
	}
	textured, err := s.CompileShape(quad, quad)
	if err != nil {
		t.Fatalf("CompileShape: %v", err)
	}
	tex, err := s.CreateTexture(TextureDesc{Width: 2, Height: 2}, make([]byte, 16))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	xf := Transform{X: 5, Y: 6, Rotation: 90, Scale: 2}
	if err := s.DrawShape(plain, xf, color.NRGBA{R: 255, A: 255}); err != nil {
		t.Fatalf("DrawShape: %v", err)
	}
	if p := rd.lastPass(t); len(p.draws) != 1 || p.draws[0] != 6 {
		t.Errorf("draws = %v, want [6]", p.draws)
	}
	u := rq.lastUniforms(t)
	// offset (5,6), basis 2 * rot(90)
	for i, want := range []float32{5, 6, 0, -2, 2, 0} {
		if !nearly(u[2+i], want) {
			t.Errorf("uniform %d = %v, want %v", 2+i, u[2+i], want)
		}
	}

	if err := s.DrawShapeTextured(textured, Identity(), tex, opaqueWhite); err != nil {
		t.Fatalf("DrawShapeTextured: %v", err)
	}
	if err := s.DrawShapeTextured(plain, Identity(), tex, opaqueWhite); !errors.Is(err, ErrNotTextured) {
		t.Errorf("untextured shape: err = %v, want ErrNotTextured", err)
	}
	if err := s.TexturePolygon(tex, quad, quad[:3], opaqueWhite); !errors.Is(err, ErrTexCoordCount) {
		t.Errorf("short uvs: err = %v, want ErrTexCoordCount", err)
	}
	if err := s.TexturePolygon(tex, quad[:2], quad[:2], opaqueWhite); !errors.Is(err, ErrTooFewVertices) {
		t.Errorf("two points: err = %v, want ErrTooFewVertices", err)
	}
	if err := s.TexturePolygon(tex, quad, quad, opaqueWhite); err != nil {
		t.Errorf("TexturePolygon: %v", err)
	}

	if err := s.DestroyShape(plain); err != nil {
		t.Fatal(err)
	}
	if err := s.DrawShape(plain, Identity(), opaqueWhite); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("destroyed shape: err = %v, want ErrResourceDestroyed", err)
	}
}

func TestHALSurfaceEditTarget(t *testing.T) {
	s, rd, _ := newRecordHALSurface(t, HALConfig{Format: gputypes.TextureFormatBGRA8Unorm, Width: 8, Height: 8})

	tex, err := s.CreateTexture(TextureDesc{Width: 4, Height: 4}, nil)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	src, err := s.CreateTexture(TextureDesc{Width: 1, Height: 1}, []byte{1, 2, 3, 255})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	d, err := s.EditTarget(tex)
	if err != nil {
		t.Fatalf("EditTarget: %v", err)
	}
	d.FillPolygon([]Vec2{{0, 0}, {4, 0}, {0, 4}}, color.NRGBA{R: 255, A: 255})

	p := rd.lastPass(t)
	if p.desc.ColorAttachments[0].View != tex.(*halTexture).view {
		t.Error("edit did not target the texture")
	}
	if rp, ok := p.pipeline.(*recordPipeline); !ok || rp.format != textureFormat {
		t.Errorf("edit pipeline = %#v, want one targeting %v", p.pipeline, textureFormat)
	}
	if fb := s.Pipeline().(*recordPipeline); fb.format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("framebuffer pipeline format = %v, want BGRA8Unorm", fb.format)
	}
	if len(s.pipelines) != 2 {
		t.Errorf("pipelines = %d, want 2", len(s.pipelines))
	}

	quad := []Vec2{{0, 0}, {0, 4}, {4, 4}, {4, 0}}
	uv := []Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	if err := d.TexturePolygon(src, quad, uv, opaqueWhite); err != nil {
		t.Errorf("TexturePolygon: %v", err)
	}
	if err := d.TexturePolygon(tex, quad, uv, opaqueWhite); !errors.Is(err, ErrTargetIsSource) {
		t.Errorf("self draw: err = %v, want ErrTargetIsSource", err)
	}

	if err := s.DestroyTexture(tex); err != nil {
		t.Fatal(err)
	}
	if err := d.TexturePolygon(src, quad, uv, opaqueWhite); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("destroyed target: err = %v, want ErrResourceDestroyed", err)
	}
	if _, err := s.EditTarget(tex); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("EditTarget(destroyed): err = %v, want ErrResourceDestroyed", err)
	}

	_ = s.Close()
	if _, err := s.EditTarget(src); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("EditTarget after Close: err = %v, want ErrSurfaceClosed", err)
	}
	before := len(rd.passes)
	s.Clear(opaqueWhite)
	if len(rd.passes) != before {
		t.Error("Clear after Close recorded a pass")
	}
}

func TestDrawUniforms(t *testing.T) {
	data := drawUniforms(TextureDesc{Width: 3, Height: 5}, Identity(), color.NRGBA{R: 255, A: 255})
	if len(data) != drawUniformSize {
		t.Fatalf("len = %d, want %d", len(data), drawUniformSize)
	}
	read := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	if read(0) != 3 || read(1) != 5 || read(4) != 1 || read(7) != 1 || read(8) != 1 || read(9) != 0 {
		t.Errorf("unexpected uniform block %v", data)
	}
}
