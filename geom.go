package batch2d

import (
	"image"
	"math"
)

// Vec2 is a 2D vector of float32 components.
type Vec2 struct {
	X, Y float32
}

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rotate returns v rotated by angle radians around the origin.
func (v Vec2) Rotate(angle float32) Vec2 {
	sin, cos := math.Sincos(float64(angle))
	s, c := float32(sin), float32(cos)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// PxVec2 is an integer pixel position.
type PxVec2 struct {
	X, Y int32
}

// Vec2 converts the pixel position to a float vector.
func (p PxVec2) Vec2() Vec2 { return Vec2{float32(p.X), float32(p.Y)} }

// PxFromPoint converts an image.Point to a PxVec2.
func PxFromPoint(p image.Point) PxVec2 { return PxVec2{int32(p.X), int32(p.Y)} }

// AreaRect is an axis aligned destination rectangle in screen space.
type AreaRect struct {
	Left, Top, Right, Bottom float32
}

// AreaRectXYWH builds an AreaRect from a position and size.
func AreaRectXYWH(x, y, w, h float32) AreaRect {
	return AreaRect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns Right-Left.
func (r AreaRect) Width() float32 { return r.Right - r.Left }

// Height returns Bottom-Top.
func (r AreaRect) Height() float32 { return r.Bottom - r.Top }

// Location returns the top-left corner.
func (r AreaRect) Location() Vec2 { return Vec2{r.Left, r.Top} }

// Empty reports whether the rectangle covers no area.
func (r AreaRect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// ClipRect is a clipping rectangle in screen space.
type ClipRect struct {
	Left, Top, Right, Bottom float32
}

// ClipRectFromImage converts an image.Rectangle into a ClipRect.
func ClipRectFromImage(r image.Rectangle) ClipRect {
	return ClipRect{float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y)}
}

// TextureArea is a normalized texture region, (X0,Y0) top-left and (X1,Y1)
// bottom-right.
type TextureArea struct {
	X0, Y0, X1, Y1 float32
}

// FullTextureArea covers the whole texture.
var FullTextureArea = TextureArea{0, 0, 1, 1}

// TextureAreaFromPixels converts a pixel rectangle of a texture with the given
// size into a normalized TextureArea.
func TextureAreaFromPixels(src image.Rectangle, size image.Point) TextureArea {
	if size.X <= 0 || size.Y <= 0 {
		return TextureArea{}
	}
	w, h := float32(size.X), float32(size.Y)
	return TextureArea{
		X0: float32(src.Min.X) / w,
		Y0: float32(src.Min.Y) / h,
		X1: float32(src.Max.X) / w,
		Y1: float32(src.Max.Y) / h,
	}
}

// QuadTexCoords holds an explicit texture coordinate per quad corner.
type QuadTexCoords struct {
	TopLeft, TopRight, BottomLeft, BottomRight Vec2
}

// TextureAreaToCoords expands a TextureArea into per-corner coordinates.
func TextureAreaToCoords(a TextureArea) QuadTexCoords {
	return QuadTexCoords{
		TopLeft:     Vec2{a.X0, a.Y0},
		TopRight:    Vec2{a.X1, a.Y0},
		BottomLeft:  Vec2{a.X0, a.Y1},
		BottomRight: Vec2{a.X1, a.Y1},
	}
}
