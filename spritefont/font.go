package spritefont

import (
	"bytes"
	"cmp"
	"fmt"
	"image"
	"image/draw"
	"math"
	"math/bits"
	"slices"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/batch2d"
	"github.com/gogpu/batch2d/internal/cache"
)

// layoutCacheSize is the number of shaped lines kept per font.
const layoutCacheSize = 512

// Glyph is one rasterized glyph of a Font.
type Glyph struct {
	// Rune is the character the glyph was rasterized for.
	Rune rune

	// Index is the glyph index in the font.
	Index uint32

	// Bounds is the glyph location in the atlas, in pixels. It is empty
	// for glyphs without ink, such as space.
	Bounds image.Rectangle

	// Offset is the top-left corner of Bounds relative to the pen
	// position on the baseline.
	Offset batch2d.Vec2

	// Advance is the horizontal pen advance in pixels.
	Advance float32
}

// Font is a rasterized font atlas.
//
// Layout and Measure are safe for concurrent use. The atlas image must not
// be modified.
type Font struct {
	opts    Options
	glyphs  map[rune]*Glyph
	byIndex map[uint32]*Glyph
	atlas   *image.RGBA

	ascent     float32
	descent    float32
	lineHeight float32

	// lines caches shaped lines by their normalized text.
	lines *cache.Cache[string, shapedLine]

	// mu guards the shaping face and shaper, neither is safe for
	// concurrent use.
	mu     sync.Mutex
	face   *gotext.Face
	shaper shaping.HarfbuzzShaper
}

// New parses a TrueType or OpenType font and rasterizes the runes of
// opts.Charset into an atlas. Runes missing from the font are skipped.
func New(ttf []byte, opts Options) (*Font, error) {
	if len(ttf) == 0 {
		return nil, ErrEmptyFontData
	}
	opts = opts.withDefaults()
	if opts.Size <= 0 || math.IsNaN(opts.Size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, opts.Size)
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("spritefont: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("spritefont: failed to create face: %w", err)
	}
	defer face.Close()

	shapeFace, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("spritefont: failed to parse font for shaping: %w", err)
	}

	m := face.Metrics()
	f := &Font{
		opts:       opts,
		glyphs:     make(map[rune]*Glyph),
		byIndex:    make(map[uint32]*Glyph),
		ascent:     fixedToFloat(m.Ascent),
		descent:    fixedToFloat(m.Descent),
		lineHeight: fixedToFloat(m.Height),
		lines:      cache.New[string, shapedLine](layoutCacheSize),
		face:       shapeFace,
	}

	var (
		buf     sfnt.Buffer
		bitmaps []bitmap
	)
	for _, r := range opts.Charset {
		if _, dup := f.glyphs[r]; dup {
			continue
		}
		idx, err := parsed.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			continue
		}
		mask, offset, advance, ok := rasterize(face, r, opts.pad())
		if !ok {
			continue
		}
		g := &Glyph{
			Rune:    r,
			Index:   uint32(idx),
			Offset:  batch2d.V2(float32(offset.X), float32(offset.Y)),
			Advance: fixedToFloat(advance),
		}
		f.glyphs[r] = g
		if _, seen := f.byIndex[g.Index]; !seen {
			f.byIndex[g.Index] = g
		}
		if mask == nil {
			continue
		}
		if opts.SDF {
			mask = distanceField(mask, opts.Spread)
		}
		bitmaps = append(bitmaps, bitmap{glyph: g, mask: mask})
	}
	if len(f.glyphs) == 0 {
		return nil, ErrEmptyCharset
	}

	f.atlas = pack(bitmaps)
	batch2d.Logger().Debug("spritefont: atlas built",
		"glyphs", len(f.glyphs),
		"size", f.atlas.Rect.Size(),
		"sdf", opts.SDF)
	return f, nil
}

// Atlas returns the atlas image. Coverage atlases hold premultiplied white
// glyphs; SDF atlases hold the distance field in every channel.
func (f *Font) Atlas() *image.RGBA {
	return f.atlas
}

// Glyph returns the rasterized glyph for r.
func (f *Font) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	if !ok {
		return Glyph{}, false
	}
	return *g, true
}

// Options returns the options the font was built with.
func (f *Font) Options() Options {
	return f.opts
}

// IsSDF reports whether the atlas holds a signed distance field.
func (f *Font) IsSDF() bool {
	return f.opts.SDF
}

// SdfRenderConfig returns the config for drawing the font at scale.
func (f *Font) SdfRenderConfig(scale float32) batch2d.SdfRenderConfig {
	return batch2d.SdfRenderConfig{Scale: scale}
}

// Ascent returns the distance from the top of a line to the baseline.
func (f *Font) Ascent() float32 {
	return f.ascent
}

// Descent returns the distance from the baseline to the bottom of a line.
func (f *Font) Descent() float32 {
	return f.descent
}

// LineHeight returns the recommended distance between two baselines.
func (f *Font) LineHeight() float32 {
	return f.lineHeight
}

// bitmap is a glyph mask waiting to be packed.
type bitmap struct {
	glyph *Glyph
	mask  *image.Alpha
}

// rasterize draws r into a new alpha mask with pad empty pixels on every
// side. It returns the mask and its top-left relative to the pen position
// on the baseline. mask is nil for glyphs without ink.
func rasterize(face font.Face, r rune, pad int) (mask *image.Alpha, offset image.Point, advance fixed.Int26_6, ok bool) {
	bounds, advance, ok := face.GlyphBounds(r)
	if !ok {
		return nil, image.Point{}, 0, false
	}
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	if maxX <= minX || maxY <= minY {
		return nil, image.Point{}, advance, true
	}

	mask = image.NewAlpha(image.Rect(0, 0, maxX-minX+2*pad, maxY-minY+2*pad))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(pad-minX, pad-minY),
	}
	d.DrawString(string(r))
	return mask, image.Pt(minX-pad, minY-pad), advance, true
}

// atlasGap is the number of empty pixels between packed glyphs.
const atlasGap = 1

// pack places the bitmaps on shelves of a power of two wide atlas, tallest
// first, and sets each glyph's Bounds.
func pack(bitmaps []bitmap) *image.RGBA {
	slices.SortStableFunc(bitmaps, func(a, b bitmap) int {
		if c := cmp.Compare(b.mask.Rect.Dy(), a.mask.Rect.Dy()); c != 0 {
			return c
		}
		return cmp.Compare(a.glyph.Rune, b.glyph.Rune)
	})

	area, widest := 0, 0
	for _, bm := range bitmaps {
		w, h := bm.mask.Rect.Dx()+atlasGap, bm.mask.Rect.Dy()+atlasGap
		area += w * h
		widest = max(widest, w)
	}
	width := max(64, nextPow2(int(math.Ceil(math.Sqrt(float64(area))))), nextPow2(widest))

	x, y, shelf := 0, 0, 0
	for _, bm := range bitmaps {
		w, h := bm.mask.Rect.Dx(), bm.mask.Rect.Dy()
		if x+w > width {
			x = 0
			y += shelf + atlasGap
			shelf = 0
		}
		bm.glyph.Bounds = image.Rect(x, y, x+w, y+h)
		x += w + atlasGap
		shelf = max(shelf, h)
	}

	atlas := image.NewRGBA(image.Rect(0, 0, width, max(y+shelf, 1)))
	for _, bm := range bitmaps {
		draw.DrawMask(atlas, bm.glyph.Bounds, image.White, image.Point{}, bm.mask, bm.mask.Rect.Min, draw.Src)
	}
	return atlas
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// fixedToFloat converts a fixed.Int26_6 value to float32.
func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
