package spritefont

import (
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/batch2d"
)

// Layout lays out text with the top-left corner of its first line at
// origin, scaled by scale. Lines are separated by '\n'.
//
// Text is NFC normalized and shaped one bidi run at a time. Shaped glyphs
// that are not in the atlas still advance the pen but produce no quad.
func (f *Font) Layout(text string, origin batch2d.Vec2, scale float32) []batch2d.GlyphQuad {
	if scale <= 0 {
		return nil
	}
	size := f.atlas.Rect.Size()
	quads := make([]batch2d.GlyphQuad, 0, len(text))
	f.walk(text, func(g *Glyph, pen batch2d.Vec2) {
		if g.Bounds.Empty() {
			return
		}
		x, y := pen.X+g.Offset.X, pen.Y+g.Offset.Y
		w, h := float32(g.Bounds.Dx()), float32(g.Bounds.Dy())
		quads = append(quads, batch2d.GlyphQuad{
			Dst: batch2d.AreaRect{
				Left:   origin.X + x*scale,
				Top:    origin.Y + y*scale,
				Right:  origin.X + (x+w)*scale,
				Bottom: origin.Y + (y+h)*scale,
			},
			Area: batch2d.TextureAreaFromPixels(g.Bounds, size),
		})
	})
	return quads
}

// Measure returns the size of the laid out text at scale 1: the widest
// line's advance by the number of lines times the line height.
func (f *Font) Measure(text string) batch2d.Vec2 {
	width, lines := f.walk(text, nil)
	return batch2d.V2(width, float32(lines)*f.lineHeight)
}

// placedGlyph is an atlas glyph with its pen position on a line.
type placedGlyph struct {
	glyph *Glyph
	pen   batch2d.Vec2
}

// shapedLine is one shaped line, positions relative to its baseline start.
type shapedLine struct {
	glyphs []placedGlyph
	width  float32
}

// walk shapes text line by line and calls yield with every atlas glyph and
// its pen position, relative to the top-left of the first line. It returns
// the widest line advance and the number of lines.
func (f *Font) walk(text string, yield func(g *Glyph, pen batch2d.Vec2)) (width float32, lines int) {
	if text == "" {
		return 0, 0
	}
	text = norm.NFC.String(text)

	for i, line := range strings.Split(text, "\n") {
		sl := f.lines.GetOrCreate(line, func() shapedLine { return f.shapeLine(line) })
		if yield != nil {
			baseline := f.ascent + float32(i)*f.lineHeight
			for _, pg := range sl.glyphs {
				yield(pg.glyph, batch2d.V2(pg.pen.X, baseline+pg.pen.Y))
			}
		}
		width = max(width, sl.width)
		lines++
	}
	return width, lines
}

// shapeLine shapes one line run by run in visual order.
func (f *Font) shapeLine(line string) shapedLine {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sl shapedLine
	x := float32(0)
	for _, run := range visualRuns(line) {
		for _, sg := range f.shape(run.text, run.dir) {
			if g := f.byIndex[uint32(sg.GlyphID)]; g != nil {
				sl.glyphs = append(sl.glyphs, placedGlyph{
					glyph: g,
					pen:   batch2d.V2(x+fixedToFloat(sg.XOffset), -fixedToFloat(sg.YOffset)),
				})
			}
			x += fixedToFloat(sg.Advance)
		}
	}
	sl.width = x
	return sl
}

// shape runs the HarfBuzz shaper over one directional run. f.mu must be
// held.
func (f *Font) shape(runes []rune, dir di.Direction) []shaping.Glyph {
	if len(runes) == 0 {
		return nil
	}
	out := f.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      f.face,
		Size:      fixed.Int26_6(f.opts.Size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
	return out.Glyphs
}

// run is a directional run of a line in visual order.
type run struct {
	text []rune
	dir  di.Direction
}

// visualRuns splits line into bidi runs in visual order. Lines without
// right-to-left text are returned as a single run.
func visualRuns(line string) []run {
	runes := []rune(line)
	if len(runes) == 0 {
		return nil
	}

	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return []run{{text: runes, dir: di.DirectionLTR}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []run{{text: runes, dir: di.DirectionLTR}}
	}
	if ordering.NumRuns() == 1 && ordering.Direction() == bidi.LeftToRight {
		return []run{{text: runes, dir: di.DirectionLTR}}
	}

	runs := make([]run, 0, ordering.NumRuns())
	for i := range ordering.NumRuns() {
		r := ordering.Run(i)
		start, end := r.Pos()
		if start < 0 || end >= len(runes) || start > end {
			continue
		}
		dir := di.DirectionLTR
		if r.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		runs = append(runs, run{text: runes[start : end+1], dir: dir})
	}
	if len(runs) == 0 {
		return []run{{text: runes, dir: di.DirectionLTR}}
	}
	return runs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
