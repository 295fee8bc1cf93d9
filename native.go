package batch2d

import "image"

// Texture is the constraint for texture handles accepted by Batch2D.
// Handles are compared with == to decide whether quads can share a draw call,
// so pointer types or small value handles work best.
type Texture interface {
	comparable
	// Valid reports whether the handle refers to a usable texture. Draws
	// with an invalid texture are skipped.
	Valid() bool
	// Size returns the texture size in pixels.
	Size() image.Point
}

// NativeBatch is the renderer-specific backend driven by Batch2D when it
// flushes. A flush is a sequence of Begin, one or more DrawQuads and End
// calls; Begin is called again whenever the blend state (or the SDF config in
// SDF mode) changes between segments.
type NativeBatch[T Texture] interface {
	// Begin starts a native batch for a screen of the given size.
	Begin(screen image.Point, blend BlendState, sdf SdfRenderConfig, restoreState bool) error
	// DrawQuads draws len(vertices)/4 quads with texture. The vertex slice
	// is only valid for the duration of the call.
	DrawQuads(vertices []Vertex, texture T) error
	// End finishes the native batch.
	End() error
}
