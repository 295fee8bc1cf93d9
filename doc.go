// Package batch2d provides quad batching for 2D sprite and text rendering.
//
// # Overview
//
// batch2d collects textured quads into a single vertex buffer and splits
// them into the smallest number of draw segments, one per run of quads that
// share a texture, blend state and (for signed distance field text) SDF
// render config. Renderers then issue one draw call per segment.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/batch2d"
//	    "github.com/gogpu/batch2d/software"
//	)
//
//	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
//	r := software.NewRenderer(dst)
//	b := batch2d.New[*software.Texture](r, dst.Bounds().Size())
//
//	b.Begin()
//	b.DrawAt(sprite, batch2d.V2(10, 10), batch2d.White)
//	b.End()
//
// # Architecture
//
// The library is organized into:
//   - BatchByState: the quad accumulator and segment merging
//   - Batch2D: begin/end front-end with draw helpers and clipping
//   - software: CPU reference renderer on image.RGBA
//   - gpu: renderer on gogpu/wgpu HAL devices
//   - spritefont: glyph atlases and text layout
//
// # Coordinate System
//
// Uses standard screen coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Texture coordinates are normalized, (0,0) is the top-left texel
//
// # Logging
//
// batch2d is silent by default. Use SetLogger to receive debug output about
// batch growth and flushes.
package batch2d
