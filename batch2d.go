package batch2d

import (
	"fmt"
	"image"
	"math"
)

// Stats describes the most recent flush of a Batch2D.
type Stats struct {
	// Quads is the number of quads submitted to the native batch.
	Quads uint32
	// Segments is the number of DrawQuads calls issued.
	Segments uint32
	// NativeBatches is the number of native Begin/End pairs.
	NativeBatches int
}

// Batch2D is an immediate-mode sprite batch. Draw calls between Begin and End
// are collected into a BatchByState and sent to the NativeBatch on End, one
// DrawQuads call per segment.
//
// Batch2D is not safe for concurrent use.
type Batch2D[T Texture] struct {
	native       NativeBatch[T]
	screen       image.Point
	batch        *BatchByState[T]
	defaultBlend BlendState
	inBegin      bool
	restoreState bool
	stats        Stats
}

// New creates a Batch2D that renders through native onto a screen of the
// given size.
func New[T Texture](native NativeBatch[T], screen image.Point, opts ...Option) *Batch2D[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Batch2D[T]{
		native:       native,
		screen:       screen,
		batch:        NewBatchByState[T](o.quadCapacity),
		defaultBlend: o.defaultBlend,
	}
}

// SetScreenSize changes the screen size passed to the native batch.
func (b *Batch2D[T]) SetScreenSize(screen image.Point) {
	b.screen = screen
}

// ScreenSize returns the screen size passed to the native batch.
func (b *Batch2D[T]) ScreenSize() image.Point {
	return b.screen
}

// Stats returns statistics about the last flush.
func (b *Batch2D[T]) Stats() Stats {
	return b.stats
}

// Capacity returns the current quad capacity of the internal batch.
func (b *Batch2D[T]) Capacity() uint32 {
	return b.batch.Capacity()
}

// ActiveBlendState returns the blend state used by the next draw.
func (b *Batch2D[T]) ActiveBlendState() BlendState {
	return b.batch.ActiveBlendState()
}

// InBegin reports whether a begin/end block is active.
func (b *Batch2D[T]) InBegin() bool {
	return b.inBegin
}

// Begin starts a begin/end block with the default blend state.
func (b *Batch2D[T]) Begin() error {
	return b.BeginWith(b.defaultBlend, false)
}

// BeginWith starts a begin/end block with the given blend state. When
// restoreState is true the native batch is asked to restore the render state
// it found once it ends.
func (b *Batch2D[T]) BeginWith(blend BlendState, restoreState bool) error {
	if b.native == nil {
		return ErrNilNative
	}
	if b.inBegin {
		return ErrAlreadyBegun
	}
	b.inBegin = true
	b.batch.SetBlendState(blend)
	b.restoreState = restoreState
	return nil
}

// ChangeTo switches the blend state for the following draws. Outside a
// begin/end block the call is ignored.
func (b *Batch2D[T]) ChangeTo(blend BlendState) {
	if !b.inBegin {
		Logger().Warn("batch2d: ChangeTo called outside begin/end block, call ignored",
			"blend", blend)
		return
	}
	if blend != b.batch.ActiveBlendState() {
		b.batch.SetBlendState(blend)
	}
}

// End flushes all pending quads to the native batch and ends the block.
// The block is ended even when the flush fails.
func (b *Batch2D[T]) End() error {
	if !b.inBegin {
		return ErrNotBegun
	}
	err := b.flush()
	b.inBegin = false
	return err
}

// prepare performs the checks shared by all draw calls and reserves room for
// quads. It reports false when the draw should be skipped.
func (b *Batch2D[T]) prepare(texture T, quads int) (bool, error) {
	if !b.inBegin {
		return false, fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if !texture.Valid() {
		return false, nil
	}
	if err := b.batch.EnsureCapacityFor(quads); err != nil {
		return false, err
	}
	b.batch.SetTexture(texture)
	return true, nil
}

// Draw draws the src area of texture into dst.
func (b *Batch2D[T]) Draw(texture T, src TextureArea, dst AreaRect, c Color) error {
	ok, err := b.prepare(texture, 1)
	if ok {
		b.batch.AddRect(dst, src, c)
	}
	return err
}

// DrawCoords draws texture into dst using explicit corner coordinates.
func (b *Batch2D[T]) DrawCoords(texture T, src QuadTexCoords, dst AreaRect, c Color) error {
	ok, err := b.prepare(texture, 1)
	if ok {
		b.batch.AddRectCoords(dst, src, c)
	}
	return err
}

// DrawClipped is Draw with dst and src clipped to clip.
func (b *Batch2D[T]) DrawClipped(texture T, src TextureArea, dst AreaRect, c Color, clip ClipRect) error {
	if !b.inBegin {
		return fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if !texture.Valid() || !Clip(&dst, &src, clip) {
		return nil
	}
	return b.Draw(texture, src, dst, c)
}

// DrawCoordsClipped is DrawCoords with dst and src clipped to clip.
func (b *Batch2D[T]) DrawCoordsClipped(texture T, src QuadTexCoords, dst AreaRect, c Color, clip ClipRect) error {
	if !b.inBegin {
		return fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if !texture.Valid() || !ClipCoords(&dst, &src, clip) {
		return nil
	}
	return b.DrawCoords(texture, src, dst, c)
}

// DrawAt draws the whole texture at its pixel size with its top-left corner
// at pos.
func (b *Batch2D[T]) DrawAt(texture T, pos Vec2, c Color) error {
	ok, err := b.prepare(texture, 1)
	if ok {
		size := texture.Size()
		b.batch.AddRect(AreaRectXYWH(pos.X, pos.Y, float32(size.X), float32(size.Y)), FullTextureArea, c)
	}
	return err
}

// DrawSource draws the pixel rectangle src of texture into dst. src is
// clipped to the texture bounds; an empty result draws nothing.
func (b *Batch2D[T]) DrawSource(texture T, dst AreaRect, src image.Rectangle, c Color) error {
	if !b.inBegin {
		return fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if !texture.Valid() {
		return nil
	}
	size := texture.Size()
	src = src.Intersect(image.Rectangle{Max: size})
	if src.Empty() {
		return nil
	}
	return b.Draw(texture, TextureAreaFromPixels(src, size), dst, c)
}

// DrawTransformed draws the pixel rectangle src of texture at pos, rotated by
// rotation radians around origin (in source pixels) and scaled by scale.
// Non-positive scales draw nothing.
func (b *Batch2D[T]) DrawTransformed(texture T, pos Vec2, src image.Rectangle, c Color, rotation float32, origin, scale Vec2) error {
	if !b.inBegin {
		return fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if !texture.Valid() || scale.X <= 0 || scale.Y <= 0 {
		return nil
	}
	size := texture.Size()
	src = src.Intersect(image.Rectangle{Max: size})
	if src.Empty() {
		return nil
	}
	ok, err := b.prepare(texture, 1)
	if !ok {
		return err
	}

	w := float32(src.Dx()) * scale.X
	h := float32(src.Dy()) * scale.Y
	o := Vec2{-origin.X * scale.X, -origin.Y * scale.Y}
	p0, p1, p2, p3 := o, Vec2{o.X + w, o.Y}, Vec2{o.X, o.Y + h}, Vec2{o.X + w, o.Y + h}
	if rotation != 0 {
		p0, p1, p2, p3 = p0.Rotate(rotation), p1.Rotate(rotation), p2.Rotate(rotation), p3.Rotate(rotation)
	}

	area := TextureAreaFromPixels(src, size)
	b.batch.AddQuad(p0.Add(pos), p1.Add(pos), p2.Add(pos), p3.Add(pos),
		Vec2{area.X0, area.Y0}, Vec2{area.X1, area.Y1}, c)
	return nil
}

// DrawQuad draws texture onto an arbitrary quad given its top-left,
// top-right, bottom-left and bottom-right corners.
func (b *Batch2D[T]) DrawQuad(texture T, v0, v1, v2, v3 Vec2, src QuadTexCoords, c Color) error {
	ok, err := b.prepare(texture, 1)
	if ok {
		b.batch.AddQuadCoords(v0, v1, v2, v3, src, c)
	}
	return err
}

// DrawQuadPx is DrawQuad with integer pixel corners.
func (b *Batch2D[T]) DrawQuadPx(texture T, v0, v1, v2, v3 PxVec2, src QuadTexCoords, c Color) error {
	ok, err := b.prepare(texture, 1)
	if ok {
		b.batch.AddQuadPxCoords(v0, v1, v2, v3, src, c)
	}
	return err
}

// DrawGlyphs draws laid out glyphs from the atlas texture with their pen
// origin at pos, scaled by scale. When the active blend state is
// BlendStateSdf, sdf becomes the active SDF render config.
func (b *Batch2D[T]) DrawGlyphs(texture T, glyphs []GlyphQuad, pos, scale Vec2, c Color, sdf SdfRenderConfig) error {
	if !b.inBegin {
		return fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if len(glyphs) == 0 || scale.X <= 0 || scale.Y <= 0 {
		return nil
	}
	ok, err := b.prepare(texture, len(glyphs))
	if !ok {
		return err
	}
	if b.batch.ActiveBlendState() == BlendStateSdf {
		b.batch.SetSdfRenderConfig(sdf)
	}
	for _, g := range glyphs {
		if !g.Visible() {
			continue
		}
		dst := AreaRect{
			Left:   pos.X + g.Dst.Left*scale.X,
			Top:    pos.Y + g.Dst.Top*scale.Y,
			Right:  pos.X + g.Dst.Right*scale.X,
			Bottom: pos.Y + g.Dst.Bottom*scale.Y,
		}
		b.batch.AddRect(dst, g.Area, c)
	}
	return nil
}

// DebugDrawLine draws a one pixel wide line from one point to another using
// the center pixel of fill.
func (b *Batch2D[T]) DebugDrawLine(fill T, from, to Vec2, c Color) error {
	if !b.inBegin {
		return fmt.Errorf("%w: draw can only occur inside a begin/end block", ErrNotBegun)
	}
	if !fill.Valid() {
		return nil
	}
	size := fill.Size()
	center := image.Rect(size.X/2, size.Y/2, size.X/2+1, size.Y/2+1)
	d := to.Sub(from)
	length := float32(math.Hypot(float64(d.X), float64(d.Y)))
	if length == 0 {
		return nil
	}
	angle := float32(math.Atan2(float64(d.Y), float64(d.X)))
	return b.DrawTransformed(fill, from, center, c, angle, Vec2{}, Vec2{length, 1})
}

// flush sends all pending segments to the native batch and clears the
// internal batch. A new native batch is started whenever the blend state,
// or the SDF config while in SDF mode, changes between segments.
func (b *Batch2D[T]) flush() error {
	defer b.batch.Clear()

	n := b.batch.SegmentCount()
	b.stats = Stats{Quads: b.batch.QuadCount(), Segments: n}
	if n == 0 {
		return nil
	}

	vertices := b.batch.Vertices()
	first := b.batch.Segment(0)
	blend, sdf := first.ActiveBlendState, first.SdfRenderConfig
	if err := b.native.Begin(b.screen, blend, sdf, b.restoreState); err != nil {
		return fmt.Errorf("batch2d: begin native batch: %w", err)
	}
	b.stats.NativeBatches = 1

	offset := 0
	for i, seg := range b.batch.Segments() {
		if seg.ActiveBlendState != blend || (seg.ActiveBlendState == BlendStateSdf && seg.SdfRenderConfig != sdf) {
			blend, sdf = seg.ActiveBlendState, seg.SdfRenderConfig
			if err := b.native.End(); err != nil {
				return fmt.Errorf("batch2d: end native batch: %w", err)
			}
			if err := b.native.Begin(b.screen, blend, sdf, b.restoreState); err != nil {
				return fmt.Errorf("batch2d: begin native batch: %w", err)
			}
			b.stats.NativeBatches++
		}
		end := offset + int(seg.VertexCount)
		if err := b.native.DrawQuads(vertices[offset:end:end], seg.TextureInfo); err != nil {
			_ = b.native.End()
			return fmt.Errorf("batch2d: draw segment %d: %w", i, err)
		}
		offset = end
	}
	if err := b.native.End(); err != nil {
		return fmt.Errorf("batch2d: end native batch: %w", err)
	}

	Logger().Debug("batch2d: flushed",
		"quads", b.stats.Quads, "segments", b.stats.Segments, "native_batches", b.stats.NativeBatches)
	return nil
}
