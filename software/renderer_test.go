package software

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gogpu/batch2d"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func newTarget(w, h int, fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if fill != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}
	return img
}

func rectQuad(l, t, r, b float32, c batch2d.Color) []batch2d.Vertex {
	return []batch2d.Vertex{
		{Position: batch2d.V2(l, t), TexCoord: batch2d.V2(0, 0), Color: c},
		{Position: batch2d.V2(r, t), TexCoord: batch2d.V2(1, 0), Color: c},
		{Position: batch2d.V2(l, b), TexCoord: batch2d.V2(0, 1), Color: c},
		{Position: batch2d.V2(r, b), TexCoord: batch2d.V2(1, 1), Color: c},
	}
}

func drawOne(t *testing.T, r *Renderer, mode batch2d.BlendState, tex *Texture, quad []batch2d.Vertex) {
	t.Helper()
	size := r.Target().Bounds().Size()
	if err := r.Begin(size, mode, batch2d.DefaultSdfRenderConfig(), false); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := r.DrawQuads(quad, tex); err != nil {
		t.Fatalf("DrawQuads() error = %v", err)
	}
	if err := r.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
}

func checkPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.RGBAAt(x, y); got != want {
		t.Errorf("pixel(%d, %d) = %v, want %v", x, y, got, want)
	}
}

func TestRendererOpaqueRect(t *testing.T) {
	dst := newTarget(8, 8, nil)
	r := NewRenderer(dst)
	drawOne(t, r, batch2d.BlendStateOpaque, NewSolidTexture(4, 4, red), rectQuad(2, 2, 6, 6, batch2d.White))

	checkPixel(t, dst, 2, 2, red)
	checkPixel(t, dst, 5, 5, red)
	checkPixel(t, dst, 1, 1, color.RGBA{})
	checkPixel(t, dst, 6, 6, color.RGBA{})
	checkPixel(t, dst, 6, 3, color.RGBA{})
}

func TestRendererBlendStates(t *testing.T) {
	tests := []struct {
		name  string
		mode  batch2d.BlendState
		bg    color.RGBA
		tex   color.Color
		color batch2d.Color
		want  color.RGBA
	}{
		{
			name:  "alpha blend premultiplied tint",
			mode:  batch2d.BlendStateAlphaBlend,
			bg:    white,
			tex:   white,
			color: batch2d.RGBA(0.5, 0, 0, 0.5),
			want:  color.RGBA{255, 127, 127, 255},
		},
		{
			name:  "non premultiplied tint",
			mode:  batch2d.BlendStateNonPremultiplied,
			bg:    white,
			tex:   white,
			color: batch2d.RGBA(1, 0, 0, 0.5),
			want:  color.RGBA{255, 127, 127, 255},
		},
		{
			name:  "additive",
			mode:  batch2d.BlendStateAdditive,
			bg:    color.RGBA{100, 0, 0, 255},
			tex:   white,
			color: batch2d.RGB(0.5, 0.5, 0.5),
			want:  color.RGBA{228, 128, 128, 255},
		},
		{
			name:  "additive clamps",
			mode:  batch2d.BlendStateAdditive,
			bg:    color.RGBA{200, 0, 0, 255},
			tex:   white,
			color: batch2d.White,
			want:  color.RGBA{255, 255, 255, 255},
		},
		{
			name:  "opaque ignores texture alpha",
			mode:  batch2d.BlendStateOpaque,
			bg:    white,
			tex:   color.RGBA{0, 0, 0, 0},
			color: batch2d.White,
			want:  color.RGBA{0, 0, 0, 255},
		},
		{
			name:  "sdf inside",
			mode:  batch2d.BlendStateSdf,
			bg:    white,
			tex:   white,
			color: batch2d.Blue,
			want:  color.RGBA{0, 0, 255, 255},
		},
		{
			name:  "sdf outside",
			mode:  batch2d.BlendStateSdf,
			bg:    white,
			tex:   color.RGBA{0, 0, 0, 0},
			color: batch2d.Blue,
			want:  white,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := newTarget(4, 4, tt.bg)
			r := NewRenderer(dst)
			drawOne(t, r, tt.mode, NewSolidTexture(2, 2, tt.tex), rectQuad(0, 0, 4, 4, tt.color))
			checkPixel(t, dst, 1, 1, tt.want)
		})
	}
}

func TestRendererSdfEdge(t *testing.T) {
	dst := newTarget(4, 4, nil)
	r := NewRenderer(dst, WithSdfSpread(4))
	edge := NewSolidTexture(1, 1, color.Alpha{A: 128})
	drawOne(t, r, batch2d.BlendStateSdf, edge, rectQuad(0, 0, 4, 4, batch2d.White))

	a := dst.RGBAAt(1, 1).A
	if a < 120 || a > 135 {
		t.Errorf("edge alpha = %d, want about half coverage", a)
	}
}

func TestRendererSampling(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, color.RGBA{0, 0, 255, 255})
	tex := NewTexture(src)

	dst := newTarget(4, 2, nil)
	r := NewRenderer(dst)
	drawOne(t, r, batch2d.BlendStateOpaque, tex, rectQuad(0, 0, 4, 2, batch2d.White))

	for y := 0; y < 2; y++ {
		checkPixel(t, dst, 0, y, red)
		checkPixel(t, dst, 1, y, red)
		checkPixel(t, dst, 2, y, color.RGBA{0, 0, 255, 255})
		checkPixel(t, dst, 3, y, color.RGBA{0, 0, 255, 255})
	}
}

func TestRendererClipsToScreen(t *testing.T) {
	dst := newTarget(8, 8, nil)
	r := NewRenderer(dst)
	if err := r.Begin(image.Pt(4, 4), batch2d.BlendStateOpaque, batch2d.SdfRenderConfig{}, false); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawQuads(rectQuad(-10, -10, 20, 20, batch2d.White), NewSolidTexture(1, 1, red)); err != nil {
		t.Fatal(err)
	}
	if err := r.End(); err != nil {
		t.Fatal(err)
	}
	checkPixel(t, dst, 3, 3, red)
	checkPixel(t, dst, 4, 4, color.RGBA{})
	checkPixel(t, dst, 7, 0, color.RGBA{})
}

func TestRendererErrors(t *testing.T) {
	r := NewRenderer(nil)
	if err := r.Begin(image.Pt(1, 1), batch2d.BlendStateAlphaBlend, batch2d.SdfRenderConfig{}, false); !errors.Is(err, ErrNilTarget) {
		t.Errorf("Begin(nil target) error = %v, want ErrNilTarget", err)
	}

	r.SetTarget(newTarget(2, 2, nil))
	tex := NewSolidTexture(1, 1, red)
	if err := r.DrawQuads(rectQuad(0, 0, 1, 1, batch2d.White), tex); !errors.Is(err, ErrBatchInactive) {
		t.Errorf("DrawQuads() outside batch error = %v, want ErrBatchInactive", err)
	}
	if err := r.End(); !errors.Is(err, ErrBatchInactive) {
		t.Errorf("End() outside batch error = %v, want ErrBatchInactive", err)
	}

	if err := r.Begin(image.Pt(2, 2), batch2d.BlendStateAlphaBlend, batch2d.SdfRenderConfig{}, false); err != nil {
		t.Fatal(err)
	}
	if err := r.Begin(image.Pt(2, 2), batch2d.BlendStateAlphaBlend, batch2d.SdfRenderConfig{}, false); !errors.Is(err, ErrBatchActive) {
		t.Errorf("second Begin() error = %v, want ErrBatchActive", err)
	}
	if err := r.DrawQuads(rectQuad(0, 0, 1, 1, batch2d.White)[:3], tex); !errors.Is(err, ErrInvalidVertexCount) {
		t.Errorf("DrawQuads(3 vertices) error = %v, want ErrInvalidVertexCount", err)
	}
	if err := r.DrawQuads(rectQuad(0, 0, 1, 1, batch2d.White), nil); !errors.Is(err, ErrInvalidTexture) {
		t.Errorf("DrawQuads(nil texture) error = %v, want ErrInvalidTexture", err)
	}
	if err := r.End(); err != nil {
		t.Errorf("End() error = %v", err)
	}
	if r.Passes() != 1 || r.DrawCalls() != 0 {
		t.Errorf("stats = %d passes, %d draws, want 1, 0", r.Passes(), r.DrawCalls())
	}
	r.ResetStats()
	if r.Passes() != 0 {
		t.Errorf("Passes() after reset = %d, want 0", r.Passes())
	}
}

func TestRendererWithBatch2D(t *testing.T) {
	dst := newTarget(16, 16, nil)
	r := NewRenderer(dst)
	b := batch2d.New[*Texture](r, dst.Bounds().Size())

	redTex := NewSolidTexture(4, 4, red)
	greenTex := NewSolidTexture(4, 4, color.RGBA{0, 255, 0, 255})

	if err := b.Begin(); err != nil {
		t.Fatal(err)
	}
	for _, d := range []struct {
		tex *Texture
		pos batch2d.Vec2
	}{
		{redTex, batch2d.V2(0, 0)},
		{redTex, batch2d.V2(4, 0)},
		{greenTex, batch2d.V2(8, 0)},
	} {
		if err := b.DrawAt(d.tex, d.pos, batch2d.White); err != nil {
			t.Fatal(err)
		}
	}
	b.ChangeTo(batch2d.BlendStateAdditive)
	if err := b.DrawAt(redTex, batch2d.V2(8, 0), batch2d.White); err != nil {
		t.Fatal(err)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}

	if r.Passes() != 2 {
		t.Errorf("Passes() = %d, want 2", r.Passes())
	}
	if r.DrawCalls() != 3 {
		t.Errorf("DrawCalls() = %d, want 3", r.DrawCalls())
	}
	checkPixel(t, dst, 1, 1, red)
	checkPixel(t, dst, 5, 1, red)
	checkPixel(t, dst, 9, 1, color.RGBA{255, 255, 0, 255})
	checkPixel(t, dst, 13, 1, color.RGBA{})
}

func BenchmarkRendererDrawQuads(b *testing.B) {
	dst := newTarget(256, 256, nil)
	r := NewRenderer(dst)
	tex := NewSolidTexture(16, 16, red)
	quads := make([]batch2d.Vertex, 0, 64*4)
	for i := range 64 {
		x := float32(i%8) * 32
		y := float32(i/8) * 32
		quads = append(quads, rectQuad(x, y, x+16, y+16, batch2d.White)...)
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Begin(dst.Bounds().Size(), batch2d.BlendStateAlphaBlend, batch2d.SdfRenderConfig{}, false)
		_ = r.DrawQuads(quads, tex)
		_ = r.End()
	}
}
