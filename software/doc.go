// Package software implements batch2d.NativeBatch on the CPU.
//
// Quads are rasterized with golang.org/x/image/vector into a coverage mask,
// textured with nearest sampling and composited onto an *image.RGBA using
// the compositing mode that matches each batch2d.BlendState:
//
//	AlphaBlend        source-over, vertex color premultiplied
//	NonPremultiplied  source-over, vertex color straight alpha
//	Additive          plus, vertex color straight alpha
//	Opaque            source, texture alpha ignored
//	Sdf               source-over, texture alpha is a distance field
//
// The renderer is a reference implementation for tests, headless tools and
// golden image generation. It is not safe for concurrent use.
package software
