package software

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/batch2d"
	"github.com/gogpu/batch2d/internal/blend"
)

// Renderer draws batched quads onto an *image.RGBA.
//
// Renderer implements batch2d.NativeBatch[*Texture].
type Renderer struct {
	dst    *image.RGBA
	spread float32

	active bool
	clip   image.Rectangle
	blend  batch2d.BlendState
	sdf    batch2d.SdfRenderConfig

	ras  vector.Rasterizer
	mask []byte

	passes    int
	drawCalls int
}

var _ batch2d.NativeBatch[*Texture] = (*Renderer)(nil)

// NewRenderer creates a renderer that draws onto dst.
func NewRenderer(dst *image.RGBA, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{dst: dst, spread: o.sdfSpread}
}

// Target returns the image the renderer draws onto.
func (r *Renderer) Target() *image.RGBA {
	return r.dst
}

// SetTarget changes the image the renderer draws onto. It must not be called
// while a batch is active.
func (r *Renderer) SetTarget(dst *image.RGBA) {
	r.dst = dst
}

// Passes returns the number of batches begun since the last ResetStats.
func (r *Renderer) Passes() int {
	return r.passes
}

// DrawCalls returns the number of DrawQuads calls since the last ResetStats.
func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

// ResetStats zeroes the pass and draw call counters.
func (r *Renderer) ResetStats() {
	r.passes, r.drawCalls = 0, 0
}

// Begin starts a batch. Drawing is clipped to the intersection of the
// target bounds and the screen rectangle. The CPU target has no pipeline
// state, so restoreState has no effect.
func (r *Renderer) Begin(screen image.Point, mode batch2d.BlendState, sdf batch2d.SdfRenderConfig, _ bool) error {
	if r.dst == nil {
		return ErrNilTarget
	}
	if r.active {
		return ErrBatchActive
	}
	r.active = true
	r.clip = r.dst.Rect.Intersect(image.Rectangle{Max: screen})
	r.blend = mode
	r.sdf = sdf
	r.passes++
	return nil
}

// DrawQuads draws len(vertices)/4 quads with texture.
func (r *Renderer) DrawQuads(vertices []batch2d.Vertex, texture *Texture) error {
	if !r.active {
		return ErrBatchInactive
	}
	if len(vertices)%4 != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidVertexCount, len(vertices))
	}
	if !texture.Valid() {
		return ErrInvalidTexture
	}
	r.drawCalls++
	for i := 0; i+4 <= len(vertices); i += 4 {
		r.drawQuad((*[4]batch2d.Vertex)(vertices[i:i+4]), texture)
	}
	return nil
}

// End finishes the batch.
func (r *Renderer) End() error {
	if !r.active {
		return ErrBatchInactive
	}
	r.active = false
	return nil
}

// drawQuad rasterizes one quad. Corners are top-left, top-right,
// bottom-left, bottom-right.
func (r *Renderer) drawQuad(q *[4]batch2d.Vertex, tex *Texture) {
	minX, minY := q[0].Position.X, q[0].Position.Y
	maxX, maxY := minX, minY
	for i := 1; i < 4; i++ {
		p := q[i].Position
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	bounds := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	).Intersect(r.clip)
	if bounds.Empty() {
		return
	}

	mask := r.coverage(q, bounds)
	w := bounds.Dx()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < w; x++ {
			cov := mask.Pix[y*mask.Stride+x]
			if cov == 0 {
				continue
			}
			px, py := bounds.Min.X+x, bounds.Min.Y+y
			uv, c := interpolate(q, batch2d.Vec2{X: float32(px) + 0.5, Y: float32(py) + 0.5})
			src, mode := r.shade(tex.sample(uv.X, uv.Y), c)
			i := r.dst.PixOffset(px, py)
			d := (*[4]byte)(r.dst.Pix[i : i+4])
			*d = blend.Apply(mode, src, *d, cov)
		}
	}
}

// coverage rasterizes the quad outline into an alpha mask covering bounds.
func (r *Renderer) coverage(q *[4]batch2d.Vertex, bounds image.Rectangle) *image.Alpha {
	w, h := bounds.Dx(), bounds.Dy()
	if cap(r.mask) < w*h {
		r.mask = make([]byte, w*h)
	}
	mask := &image.Alpha{Pix: r.mask[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}

	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	r.ras.Reset(w, h)
	r.ras.DrawOp = draw.Src
	r.ras.MoveTo(q[0].Position.X-ox, q[0].Position.Y-oy)
	r.ras.LineTo(q[1].Position.X-ox, q[1].Position.Y-oy)
	r.ras.LineTo(q[3].Position.X-ox, q[3].Position.Y-oy)
	r.ras.LineTo(q[2].Position.X-ox, q[2].Position.Y-oy)
	r.ras.ClosePath()
	r.ras.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	return mask
}

// shade computes the premultiplied source pixel for a texel and vertex
// color under the active blend state.
func (r *Renderer) shade(texel [4]byte, c batch2d.Color) ([4]byte, blend.Mode) {
	tr, tg, tb, ta := unit8(texel[0]), unit8(texel[1]), unit8(texel[2]), unit8(texel[3])
	switch r.blend {
	case batch2d.BlendStateOpaque:
		return pixel(tr*c.R, tg*c.G, tb*c.B, 1), blend.Source
	case batch2d.BlendStateAdditive:
		return pixel(tr*c.R*c.A, tg*c.G*c.A, tb*c.B*c.A, ta*c.A), blend.Plus
	case batch2d.BlendStateNonPremultiplied:
		return pixel(tr*c.R*c.A, tg*c.G*c.A, tb*c.B*c.A, ta*c.A), blend.SourceOver
	case batch2d.BlendStateSdf:
		a := c.A * r.sdfAlpha(ta)
		return pixel(c.R*a, c.G*a, c.B*a, a), blend.SourceOver
	default:
		return pixel(tr*c.R, tg*c.G, tb*c.B, ta*c.A), blend.SourceOver
	}
}

// sdfAlpha maps a distance field sample to coverage. The edge is at 0.5 and
// the transition is one screen pixel wide.
func (r *Renderer) sdfAlpha(d float32) float32 {
	scale := r.sdf.Scale
	if scale <= 0 {
		scale = 1
	}
	w := 0.5 / (r.spread * scale)
	return smoothstep(0.5-w, 0.5+w, d)
}

// interpolate returns the texture coordinate and color at p using
// barycentric weights over the triangle of the quad that contains p.
func interpolate(q *[4]batch2d.Vertex, p batch2d.Vec2) (batch2d.Vec2, batch2d.Color) {
	a, b, c := &q[0], &q[1], &q[2]
	w0, w1, w2, ok := barycentric(p, a.Position, b.Position, c.Position)
	if !ok || w0 < 0 || w1 < 0 || w2 < 0 {
		a, b, c = &q[1], &q[3], &q[2]
		w0, w1, w2, ok = barycentric(p, a.Position, b.Position, c.Position)
		if !ok {
			return q[0].TexCoord, q[0].Color
		}
	}
	uv := batch2d.Vec2{
		X: w0*a.TexCoord.X + w1*b.TexCoord.X + w2*c.TexCoord.X,
		Y: w0*a.TexCoord.Y + w1*b.TexCoord.Y + w2*c.TexCoord.Y,
	}
	col := batch2d.Color{
		R: w0*a.Color.R + w1*b.Color.R + w2*c.Color.R,
		G: w0*a.Color.G + w1*b.Color.G + w2*c.Color.G,
		B: w0*a.Color.B + w1*b.Color.B + w2*c.Color.B,
		A: w0*a.Color.A + w1*b.Color.A + w2*c.Color.A,
	}
	return uv, col
}

func barycentric(p, a, b, c batch2d.Vec2) (w0, w1, w2 float32, ok bool) {
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det == 0 {
		return 0, 0, 0, false
	}
	w0 = ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / det
	w1 = ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / det
	return w0, w1, 1 - w0 - w1, true
}

func smoothstep(e0, e1, x float32) float32 {
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func unit8(v byte) float32 {
	return float32(v) / 255
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// pixel converts premultiplied float components to bytes. Color channels
// are clamped to alpha to keep the pixel valid.
func pixel(r, g, b, a float32) [4]byte {
	a = clamp01(a)
	return [4]byte{
		byte(min(clamp01(r), a)*255 + 0.5),
		byte(min(clamp01(g), a)*255 + 0.5),
		byte(min(clamp01(b), a)*255 + 0.5),
		byte(a*255 + 0.5),
	}
}
