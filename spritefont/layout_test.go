package spritefont

import (
	"math"
	"testing"

	"github.com/go-text/typesetting/di"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/batch2d"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestLayout(t *testing.T) {
	f := newTestFont(t, DefaultOptions())
	a, _ := f.Glyph('A')

	quads := f.Layout("AB", batch2d.V2(10, 20), 1)
	if len(quads) != 2 {
		t.Fatalf("Layout(AB) = %d quads, want 2", len(quads))
	}
	first := quads[0]
	if !approx(first.Dst.Left, 10+a.Offset.X, 0.01) {
		t.Errorf("A left = %v, want %v", first.Dst.Left, 10+a.Offset.X)
	}
	if !approx(first.Dst.Top, 20+f.Ascent()+a.Offset.Y, 0.01) {
		t.Errorf("A top = %v, want %v", first.Dst.Top, 20+f.Ascent()+a.Offset.Y)
	}
	if !approx(first.Dst.Width(), float32(a.Bounds.Dx()), 0.01) {
		t.Errorf("A width = %v, want %d", first.Dst.Width(), a.Bounds.Dx())
	}
	if quads[1].Dst.Left <= first.Dst.Left {
		t.Errorf("B left %v not after A left %v", quads[1].Dst.Left, first.Dst.Left)
	}
	want := batch2d.TextureAreaFromPixels(a.Bounds, f.Atlas().Rect.Size())
	if first.Area != want {
		t.Errorf("A area = %+v, want %+v", first.Area, want)
	}
}

func TestLayoutScale(t *testing.T) {
	f := newTestFont(t, DefaultOptions())
	one := f.Layout("W", batch2d.Vec2{}, 1)
	two := f.Layout("W", batch2d.Vec2{}, 2)
	if len(one) != 1 || len(two) != 1 {
		t.Fatalf("quads = %d, %d; want 1, 1", len(one), len(two))
	}
	if !approx(two[0].Dst.Width(), 2*one[0].Dst.Width(), 0.01) {
		t.Errorf("scaled width = %v, want %v", two[0].Dst.Width(), 2*one[0].Dst.Width())
	}
	if two[0].Area != one[0].Area {
		t.Error("scale changed the texture area")
	}
	if got := f.Layout("W", batch2d.Vec2{}, 0); got != nil {
		t.Errorf("Layout at scale 0 = %v, want nil", got)
	}
}

func TestLayoutSkipsBlankGlyphs(t *testing.T) {
	f := newTestFont(t, DefaultOptions())
	if got := len(f.Layout("A A", batch2d.Vec2{}, 1)); got != 2 {
		t.Errorf("Layout(A A) = %d quads, want 2", got)
	}
	if got := f.Layout("", batch2d.Vec2{}, 1); len(got) != 0 {
		t.Errorf("Layout(\"\") = %v", got)
	}
	// Glyphs outside the charset advance the pen without a quad.
	if got := len(f.Layout("A€A", batch2d.Vec2{}, 1)); got != 2 {
		t.Errorf("Layout(A€A) = %d quads, want 2", got)
	}
}

func TestLayoutLines(t *testing.T) {
	f := newTestFont(t, DefaultOptions())
	quads := f.Layout("A\nA", batch2d.Vec2{}, 1)
	if len(quads) != 2 {
		t.Fatalf("quads = %d, want 2", len(quads))
	}
	if !approx(quads[1].Dst.Top-quads[0].Dst.Top, f.LineHeight(), 0.01) {
		t.Errorf("line step = %v, want %v", quads[1].Dst.Top-quads[0].Dst.Top, f.LineHeight())
	}
	if !approx(quads[1].Dst.Left, quads[0].Dst.Left, 0.01) {
		t.Errorf("second line left = %v, want %v", quads[1].Dst.Left, quads[0].Dst.Left)
	}
}

func TestLayoutNormalizes(t *testing.T) {
	opts := DefaultOptions()
	opts.Charset = ASCII + "é"
	f := newTestFont(t, opts)

	composed := f.Layout("é", batch2d.Vec2{}, 1)
	decomposed := f.Layout("e\u0301", batch2d.Vec2{}, 1)
	if len(composed) != 1 || len(decomposed) != 1 {
		t.Fatalf("quads = %d, %d; want 1, 1", len(composed), len(decomposed))
	}
	if composed[0] != decomposed[0] {
		t.Errorf("decomposed = %+v, want %+v", decomposed[0], composed[0])
	}
}

func TestMeasure(t *testing.T) {
	f := newTestFont(t, DefaultOptions())
	if got := f.Measure(""); got != (batch2d.Vec2{}) {
		t.Errorf("Measure(\"\") = %v", got)
	}

	h, _ := f.Glyph('H')
	i, _ := f.Glyph('i')
	got := f.Measure("Hi")
	if !approx(got.X, h.Advance+i.Advance, 1) {
		t.Errorf("Measure(Hi).X = %v, want ~%v", got.X, h.Advance+i.Advance)
	}
	if !approx(got.Y, f.LineHeight(), 0.01) {
		t.Errorf("Measure(Hi).Y = %v, want %v", got.Y, f.LineHeight())
	}

	two := f.Measure("Hi\nHello")
	if two.X <= got.X || !approx(two.Y, 2*f.LineHeight(), 0.01) {
		t.Errorf("Measure(two lines) = %v", two)
	}
}

func TestVisualRuns(t *testing.T) {
	runs := visualRuns("abc")
	if len(runs) != 1 || runs[0].dir != di.DirectionLTR || string(runs[0].text) != "abc" {
		t.Errorf("visualRuns(abc) = %+v", runs)
	}
	if runs := visualRuns(""); runs != nil {
		t.Errorf("visualRuns(\"\") = %+v", runs)
	}

	runs = visualRuns("abc אבג")
	var rtl bool
	for _, r := range runs {
		if r.dir == di.DirectionRTL {
			rtl = true
		}
	}
	if !rtl {
		t.Errorf("visualRuns(mixed) = %+v, want a right-to-left run", runs)
	}
}

func BenchmarkLayout(b *testing.B) {
	f, err := New(goregular.TTF, DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = f.Layout("The quick brown fox jumps over the lazy dog", batch2d.Vec2{}, 1)
	}
}

func TestLayoutCachesShapedLines(t *testing.T) {
	f := newTestFont(t, DefaultOptions())
	first := f.Layout("cached\ncached", batch2d.Vec2{}, 1)
	second := f.Layout("cached", batch2d.Vec2{}, 1)

	stats := f.lines.Stats()
	if stats.Len != 1 {
		t.Errorf("cached lines = %d, want 1", stats.Len)
	}
	if stats.Misses != 1 || stats.Hits != 2 {
		t.Errorf("cache stats = %+v, want 1 miss and 2 hits", stats)
	}
	for i := range second {
		if first[i] != second[i] {
			t.Errorf("quad %d differs between cached layouts", i)
		}
	}
}
