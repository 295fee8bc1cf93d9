package batch2d

import (
	"fmt"
	"iter"
)

// DefaultQuadCapacity is the initial quad capacity used by Batch2D when no
// WithQuadCapacity option is given.
const DefaultQuadCapacity = 4096

// MaxQuadCapacity is the largest quad capacity a BatchByState can grow to.
// Vertex indices of a full batch must fit the uint32 index buffers used by
// the GPU backend.
const MaxQuadCapacity = 1 << 24

// segmentSafety is the number of extra segment slots kept beyond the quad
// capacity. A full batch may still need one empty segment to record the
// state for the next quad.
const segmentSafety = 1

// Segment describes a contiguous run of vertices drawn with one render state.
type Segment[T comparable] struct {
	TextureInfo      T
	ActiveBlendState BlendState
	SdfRenderConfig  SdfRenderConfig
	// VertexCount is always a multiple of 4.
	VertexCount uint32
}

// BatchByState accumulates quads into a vertex arena and splits them into the
// minimal number of segments sharing texture, blend state and (in SDF mode)
// SDF render config.
//
// State setters must be called before the quads they apply to. Each setter
// re-reads the other two active values, so the final state for the next quad
// does not depend on the order the setters were called in.
//
// BatchByState is not safe for concurrent use. Slices returned by Vertices
// are valid until the next mutating call.
type BatchByState[T comparable] struct {
	vertices    []Vertex
	segments    []Segment[T]
	vertexCount int
	current     int
}

// NewBatchByState creates a batch able to hold quadCapacity quads before it
// must grow. Capacities below 1 are raised to 1 and capacities above
// MaxQuadCapacity are lowered to it.
func NewBatchByState[T comparable](quadCapacity int) *BatchByState[T] {
	quadCapacity = min(max(quadCapacity, 1), MaxQuadCapacity)
	return &BatchByState[T]{
		vertices: make([]Vertex, quadCapacity*4),
		segments: make([]Segment[T], quadCapacity+segmentSafety),
	}
}

// ActiveBlendState returns the blend state the next quad will be drawn with.
func (b *BatchByState[T]) ActiveBlendState() BlendState {
	return b.segments[b.current].ActiveBlendState
}

// ActiveTexture returns the texture the next quad will be drawn with.
func (b *BatchByState[T]) ActiveTexture() T {
	return b.segments[b.current].TextureInfo
}

// ActiveSdfRenderConfig returns the SDF render config the next quad will be
// drawn with.
func (b *BatchByState[T]) ActiveSdfRenderConfig() SdfRenderConfig {
	return b.segments[b.current].SdfRenderConfig
}

// Capacity returns the number of quads that fit without growing.
func (b *BatchByState[T]) Capacity() uint32 {
	return uint32(len(b.segments) - segmentSafety)
}

// SegmentCount returns the number of segments holding at least one quad.
func (b *BatchByState[T]) SegmentCount() uint32 {
	n := uint32(b.current)
	if b.segments[b.current].VertexCount > 0 {
		n++
	}
	return n
}

// VertexCount returns the number of vertices written.
func (b *BatchByState[T]) VertexCount() uint32 {
	return uint32(b.vertexCount)
}

// QuadCount returns the number of quads written.
func (b *BatchByState[T]) QuadCount() uint32 {
	return uint32(b.vertexCount / 4)
}

// Vertices returns the written vertices.
func (b *BatchByState[T]) Vertices() []Vertex {
	return b.vertices[:b.vertexCount:b.vertexCount]
}

// Segment returns segment index. It panics with an error wrapping
// ErrSegmentOutOfRange if index >= SegmentCount().
func (b *BatchByState[T]) Segment(index uint32) Segment[T] {
	if n := b.SegmentCount(); index >= n {
		panic(fmt.Errorf("%w: %d >= %d", ErrSegmentOutOfRange, index, n))
	}
	return b.segments[index]
}

// SegmentRange returns the first vertex and the vertex count of segment
// index. It panics like Segment for an out of range index.
func (b *BatchByState[T]) SegmentRange(index uint32) (first, count uint32) {
	seg := b.Segment(index)
	for i := range index {
		first += b.segments[i].VertexCount
	}
	return first, seg.VertexCount
}

// Segments iterates over the non-empty segments in draw order.
func (b *BatchByState[T]) Segments() iter.Seq2[int, Segment[T]] {
	return func(yield func(int, Segment[T]) bool) {
		n := int(b.SegmentCount())
		for i := range n {
			if !yield(i, b.segments[i]) {
				return
			}
		}
	}
}

// Clear removes all quads and segments. Capacity is retained. Texture
// references held by used segments are released and the active state is
// reset to the zero state.
func (b *BatchByState[T]) Clear() {
	clear(b.segments[:b.current+1])
	b.current = 0
	b.vertexCount = 0
}

// SetBlendState sets the blend state for the following quads.
func (b *BatchByState[T]) SetBlendState(blend BlendState) {
	seg := &b.segments[b.current]
	b.updateSegmentState(renderState[T]{texture: seg.TextureInfo, blend: blend, sdf: seg.SdfRenderConfig})
}

// SetTexture sets the texture for the following quads.
func (b *BatchByState[T]) SetTexture(texture T) {
	seg := &b.segments[b.current]
	b.updateSegmentState(renderState[T]{texture: texture, blend: seg.ActiveBlendState, sdf: seg.SdfRenderConfig})
}

// SetSdfRenderConfig sets the SDF render config for the following quads. It
// only separates segments while the blend state is BlendStateSdf, but the
// active config always follows the last call, also when the current segment
// is kept or resumed.
func (b *BatchByState[T]) SetSdfRenderConfig(config SdfRenderConfig) {
	seg := &b.segments[b.current]
	b.updateSegmentState(renderState[T]{texture: seg.TextureInfo, blend: seg.ActiveBlendState, sdf: config})
}

// SetRenderState sets texture, blend state and SDF render config for the
// following quads in a single merge decision.
func (b *BatchByState[T]) SetRenderState(texture T, blend BlendState, config SdfRenderConfig) {
	b.updateSegmentState(renderState[T]{texture: texture, blend: blend, sdf: config})
}

func (b *BatchByState[T]) updateSegmentState(s renderState[T]) {
	seg := &b.segments[b.current]
	if seg.VertexCount == 0 {
		if b.current > 0 && s.equal(&b.segments[b.current-1]) {
			// Resume the previous segment; nothing was drawn with the
			// intermediate state.
			*seg = Segment[T]{}
			b.current--
			b.segments[b.current].SdfRenderConfig = s.sdf
			return
		}
		seg.TextureInfo = s.texture
		seg.ActiveBlendState = s.blend
		seg.SdfRenderConfig = s.sdf
		return
	}
	if s.equal(seg) {
		// Outside SDF mode the config is not part of the comparison, but it
		// still becomes the active one.
		seg.SdfRenderConfig = s.sdf
		return
	}
	b.current++
	b.segments[b.current] = Segment[T]{
		TextureInfo:      s.texture,
		ActiveBlendState: s.blend,
		SdfRenderConfig:  s.sdf,
	}
}

// AddQuad appends a quad given its four corners (top-left, top-right,
// bottom-left, bottom-right) and the texture coordinates of its top-left
// (uv0) and bottom-right (uv1) corners.
//
// It panics with an error wrapping ErrCapacityExceeded when the batch is
// full; call EnsureCapacityFor first. The same holds for every Add method.
func (b *BatchByState[T]) AddQuad(v0, v1, v2, v3, uv0, uv1 Vec2, c Color) {
	b.put(v0, v1, v2, v3, uv0, Vec2{uv1.X, uv0.Y}, Vec2{uv0.X, uv1.Y}, uv1, c)
}

// AddQuadPx is AddQuad with integer pixel positions.
func (b *BatchByState[T]) AddQuadPx(v0, v1, v2, v3 PxVec2, uv0, uv1 Vec2, c Color) {
	b.put(v0.Vec2(), v1.Vec2(), v2.Vec2(), v3.Vec2(), uv0, Vec2{uv1.X, uv0.Y}, Vec2{uv0.X, uv1.Y}, uv1, c)
}

// AddQuadCoords appends a quad with explicit per-corner texture coordinates.
func (b *BatchByState[T]) AddQuadCoords(v0, v1, v2, v3 Vec2, coords QuadTexCoords, c Color) {
	b.put(v0, v1, v2, v3, coords.TopLeft, coords.TopRight, coords.BottomLeft, coords.BottomRight, c)
}

// AddQuadPxCoords is AddQuadCoords with integer pixel positions.
func (b *BatchByState[T]) AddQuadPxCoords(v0, v1, v2, v3 PxVec2, coords QuadTexCoords, c Color) {
	b.put(v0.Vec2(), v1.Vec2(), v2.Vec2(), v3.Vec2(),
		coords.TopLeft, coords.TopRight, coords.BottomLeft, coords.BottomRight, c)
}

// AddRect appends an axis aligned quad covering dst, textured with src.
func (b *BatchByState[T]) AddRect(dst AreaRect, src TextureArea, c Color) {
	b.put(
		Vec2{dst.Left, dst.Top}, Vec2{dst.Right, dst.Top},
		Vec2{dst.Left, dst.Bottom}, Vec2{dst.Right, dst.Bottom},
		Vec2{src.X0, src.Y0}, Vec2{src.X1, src.Y0},
		Vec2{src.X0, src.Y1}, Vec2{src.X1, src.Y1},
		c)
}

// AddRectCoords appends an axis aligned quad covering dst with explicit
// per-corner texture coordinates.
func (b *BatchByState[T]) AddRectCoords(dst AreaRect, src QuadTexCoords, c Color) {
	b.put(
		Vec2{dst.Left, dst.Top}, Vec2{dst.Right, dst.Top},
		Vec2{dst.Left, dst.Bottom}, Vec2{dst.Right, dst.Bottom},
		src.TopLeft, src.TopRight, src.BottomLeft, src.BottomRight,
		c)
}

func (b *BatchByState[T]) put(p0, p1, p2, p3, t0, t1, t2, t3 Vec2, c Color) {
	n := b.vertexCount
	if n+4 > len(b.vertices) {
		b.capacityExceeded()
	}
	v := b.vertices[n : n+4 : n+4]
	v[0] = Vertex{Position: p0, TexCoord: t0, Color: c}
	v[1] = Vertex{Position: p1, TexCoord: t1, Color: c}
	v[2] = Vertex{Position: p2, TexCoord: t2, Color: c}
	v[3] = Vertex{Position: p3, TexCoord: t3, Color: c}
	b.vertexCount = n + 4
	b.segments[b.current].VertexCount += 4
}

//go:noinline
func (b *BatchByState[T]) capacityExceeded() {
	panic(fmt.Errorf("%w: capacity %d quads", ErrCapacityExceeded, b.Capacity()))
}

// EnsureCapacity grows the batch so it can hold at least desiredQuadCapacity
// quads. Written vertices, segments and the active state are preserved.
func (b *BatchByState[T]) EnsureCapacity(desiredQuadCapacity int) error {
	if desiredQuadCapacity < 0 || desiredQuadCapacity > MaxQuadCapacity {
		return fmt.Errorf("%w: %d quads (max %d)", ErrInvalidCapacity, desiredQuadCapacity, MaxQuadCapacity)
	}
	capacity := int(b.Capacity())
	if desiredQuadCapacity <= capacity {
		return nil
	}

	newCapacity := min(max(desiredQuadCapacity, capacity+capacity/2), MaxQuadCapacity)

	vertices := make([]Vertex, newCapacity*4)
	copy(vertices, b.vertices[:b.vertexCount])
	segments := make([]Segment[T], newCapacity+segmentSafety)
	copy(segments, b.segments[:b.current+1])
	b.vertices = vertices
	b.segments = segments

	Logger().Debug("batch2d: grew quad batch",
		"from", capacity, "to", newCapacity, "quads", b.vertexCount/4)
	return nil
}

// EnsureCapacityFor grows the batch so that additionalQuads more quads can be
// appended.
func (b *BatchByState[T]) EnsureCapacityFor(additionalQuads int) error {
	if additionalQuads < 0 || additionalQuads > MaxQuadCapacity {
		return fmt.Errorf("%w: %d additional quads", ErrInvalidCapacity, additionalQuads)
	}
	return b.EnsureCapacity(b.vertexCount/4 + additionalQuads)
}
