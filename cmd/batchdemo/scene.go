package main

import (
	"image"
	stdcolor "image/color"
	"image/draw"
	"math"

	"github.com/gogpu/batch2d"
	"github.com/gogpu/batch2d/software"
	"github.com/gogpu/batch2d/spritefont"
)

// frameStats summarizes one rendered frame.
type frameStats struct {
	batch2d.Stats
	Passes    int
	DrawCalls int
}

// newTextures builds the textures a scene can reference by name.
func newTextures() map[string]*software.Texture {
	return map[string]*software.Texture{
		"checker":  software.NewTexture(checkerImage(8, 8)),
		"gradient": software.NewTextureScaled(gradientImage(), image.Pt(64, 64)),
		"ring":     software.NewTexture(ringImage(64, 6)),
		"white":    software.NewSolidTexture(4, 4, stdcolor.White),
	}
}

// render draws s onto dst with text from font.
func render(dst *image.RGBA, s scene, font *spritefont.Font) (frameStats, error) {
	bg := parseColor(s.Background)
	if s.Background == "" {
		bg = batch2d.Black
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)

	r := software.NewRenderer(dst, software.WithSdfSpread(float32(font.Options().Spread)))
	b := batch2d.New[*software.Texture](r, dst.Rect.Size())
	textures := newTextures()
	atlas := software.NewTexture(font.Atlas())

	if err := b.Begin(); err != nil {
		return frameStats{}, err
	}
	for _, sp := range s.Sprites {
		if err := drawSprite(b, textures[sp.Texture], sp); err != nil {
			return frameStats{}, err
		}
	}

	if font.IsSDF() {
		b.ChangeTo(batch2d.BlendStateSdf)
	} else {
		b.ChangeTo(batch2d.BlendStateAlphaBlend)
	}
	for _, t := range s.Texts {
		scale := t.Scale
		if scale == 0 {
			scale = 1
		}
		c := parseColor(t.Color)
		if !font.IsSDF() {
			c = c.Premultiplied()
		}
		if err := spritefont.Draw(b, atlas, font, t.Text, batch2d.V2(t.X, t.Y), c, scale); err != nil {
			return frameStats{}, err
		}
	}

	b.ChangeTo(batch2d.BlendStateAlphaBlend)
	for _, l := range s.Lines {
		from, to := batch2d.V2(l.From[0], l.From[1]), batch2d.V2(l.To[0], l.To[1])
		if err := b.DebugDrawLine(textures["white"], from, to, parseColor(l.Color).Premultiplied()); err != nil {
			return frameStats{}, err
		}
	}

	if err := b.End(); err != nil {
		return frameStats{}, err
	}
	return frameStats{Stats: b.Stats(), Passes: r.Passes(), DrawCalls: r.DrawCalls()}, nil
}

// drawSprite draws one sprite, rotated around its center or clipped when
// the sprite asks for it.
func drawSprite(b *batch2d.Batch2D[*software.Texture], tex *software.Texture, sp spriteItem) error {
	b.ChangeTo(sp.Blend)
	c := parseColor(sp.Color)
	if sp.Blend == batch2d.BlendStateAlphaBlend {
		c = c.Premultiplied()
	}
	dst := batch2d.AreaRectXYWH(sp.X, sp.Y, sp.W, sp.H)

	switch {
	case sp.Rotation != 0:
		size := tex.Size()
		src := image.Rectangle{Max: size}
		scale := batch2d.V2(sp.W/float32(size.X), sp.H/float32(size.Y))
		center := batch2d.V2(sp.X+sp.W/2, sp.Y+sp.H/2)
		origin := batch2d.V2(float32(size.X)/2, float32(size.Y)/2)
		return b.DrawTransformed(tex, center, src, c, sp.Rotation*math.Pi/180, origin, scale)
	case len(sp.Clip) == 4:
		clip := batch2d.ClipRect{Left: sp.Clip[0], Top: sp.Clip[1], Right: sp.Clip[2], Bottom: sp.Clip[3]}
		return b.DrawClipped(tex, batch2d.FullTextureArea, dst, c, clip)
	default:
		return b.Draw(tex, batch2d.FullTextureArea, dst, c)
	}
}

// checkerImage returns a cells x cells checkerboard of size x size pixel
// squares.
func checkerImage(cells, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cells*size, cells*size))
	light := stdcolor.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	dark := stdcolor.RGBA{0x60, 0x60, 0x60, 0xff}
	for y := range cells {
		for x := range cells {
			c := light
			if (x+y)%2 == 1 {
				c = dark
			}
			r := image.Rect(x*size, y*size, (x+1)*size, (y+1)*size)
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return img
}

// gradientImage returns a 2x2 image with a color in each corner, scaled
// up bilinearly into a gradient.
func gradientImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, stdcolor.RGBA{0xff, 0x40, 0x40, 0xff})
	img.SetRGBA(1, 0, stdcolor.RGBA{0x40, 0xff, 0x40, 0xff})
	img.SetRGBA(0, 1, stdcolor.RGBA{0x40, 0x40, 0xff, 0xff})
	img.SetRGBA(1, 1, stdcolor.RGBA{0xff, 0xff, 0x40, 0xff})
	return img
}

// ringImage returns an antialiased white ring of the given thickness.
func ringImage(size int, thickness float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	radius := center - thickness/2 - 1
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
			edge := thickness/2 - math.Abs(d-radius)
			a := uint8(math.Round(math.Max(0, math.Min(1, edge+0.5)) * 255))
			img.SetRGBA(x, y, stdcolor.RGBA{a, a, a, a})
		}
	}
	return img
}
