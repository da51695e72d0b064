// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"

	"github.com/gogpu/naga"
)

// texturedShaderWGSL draws textured triangles. Positions arrive in target
// pixels with the origin at the top-left and are placed by the uniform
// basis and offset; the texel is multiplied by the straight-alpha tint.
const texturedShaderWGSL = `
struct Uniforms {
    viewport: vec2<f32>,
    offset: vec2<f32>,
    basis: vec4<f32>,
    tint: vec4<f32>,
}

@group(0) @binding(0) var tex: texture_2d<f32>;
@group(0) @binding(1) var samp: sampler;
@group(0) @binding(2) var<uniform> u: Uniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec2<f32>, @location(1) uv: vec2<f32>) -> VertexOutput {
    let p = vec2<f32>(
        u.basis.x * pos.x + u.basis.y * pos.y,
        u.basis.z * pos.x + u.basis.w * pos.y
    ) + u.offset;
    var out: VertexOutput;
    out.position = vec4<f32>(p.x / u.viewport.x * 2.0 - 1.0, 1.0 - p.y / u.viewport.y * 2.0, 0.0, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(tex, samp, in.uv) * u.tint;
}
`

// compileTexturedShader compiles the WGSL source to SPIR-V words.
func compileTexturedShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(texturedShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("surface: failed to compile textured shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("surface: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
