package software

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Texture is a CPU texture with premultiplied RGBA pixels.
//
// A *Texture satisfies batch2d.Texture. A nil *Texture is invalid and is
// skipped by batch2d.Batch2D.
type Texture struct {
	img *image.RGBA
}

// NewTexture copies src into a new texture. The texture origin is the
// top-left corner of src.Bounds().
func NewTexture(src image.Image) *Texture {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(img, image.Point{}, src, b, xdraw.Src, nil)
	return &Texture{img: img}
}

// NewTextureScaled creates a texture of the given size from src, resampled
// with bilinear filtering.
func NewTextureScaled(src image.Image, size image.Point) *Texture {
	img := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.BiLinear.Scale(img, img.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return &Texture{img: img}
}

// NewSolidTexture creates a w x h texture filled with c.
func NewSolidTexture(w, h int, c color.Color) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return &Texture{img: img}
}

// Valid reports whether the texture has pixels.
func (t *Texture) Valid() bool {
	return t != nil && t.img != nil && !t.img.Rect.Empty()
}

// Size returns the texture size in pixels.
func (t *Texture) Size() image.Point {
	if t == nil || t.img == nil {
		return image.Point{}
	}
	return t.img.Rect.Size()
}

// Image returns the texture pixels. The image is shared with the texture.
func (t *Texture) Image() *image.RGBA {
	return t.img
}

// sample returns the premultiplied texel nearest to the normalized
// coordinate (u, v). Coordinates outside [0, 1] are clamped to the edge.
func (t *Texture) sample(u, v float32) [4]byte {
	w, h := t.img.Rect.Dx(), t.img.Rect.Dy()
	x := clampInt(int(u*float32(w)), w-1)
	y := clampInt(int(v*float32(h)), h-1)
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	return [4]byte{p[0], p[1], p[2], p[3]}
}

func clampInt(v, maxValue int) int {
	if v < 0 {
		return 0
	}
	if v > maxValue {
		return maxValue
	}
	return v
}
