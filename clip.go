package batch2d

// Clip clips dst against clip and shrinks src by the same proportion.
// It returns false when nothing is left to draw; dst and src are then left
// in an unspecified state.
func Clip(dst *AreaRect, src *TextureArea, clip ClipRect) bool {
	if dst.Empty() {
		return false
	}
	w, h := dst.Width(), dst.Height()
	du, dv := src.X1-src.X0, src.Y1-src.Y0

	if dst.Left < clip.Left {
		src.X0 += du * (clip.Left - dst.Left) / w
		dst.Left = clip.Left
	}
	if dst.Right > clip.Right {
		src.X1 -= du * (dst.Right - clip.Right) / w
		dst.Right = clip.Right
	}
	if dst.Top < clip.Top {
		src.Y0 += dv * (clip.Top - dst.Top) / h
		dst.Top = clip.Top
	}
	if dst.Bottom > clip.Bottom {
		src.Y1 -= dv * (dst.Bottom - clip.Bottom) / h
		dst.Bottom = clip.Bottom
	}
	return !dst.Empty()
}

// ClipCoords is Clip for explicit per-corner texture coordinates. The new
// corner coordinates are bilinearly interpolated from the original ones.
func ClipCoords(dst *AreaRect, src *QuadTexCoords, clip ClipRect) bool {
	if dst.Empty() {
		return false
	}
	orig := *dst
	clipped := AreaRect{
		Left:   max(dst.Left, clip.Left),
		Top:    max(dst.Top, clip.Top),
		Right:  min(dst.Right, clip.Right),
		Bottom: min(dst.Bottom, clip.Bottom),
	}
	if clipped.Empty() {
		return false
	}
	if clipped == orig {
		return true
	}

	w, h := orig.Width(), orig.Height()
	u0 := (clipped.Left - orig.Left) / w
	u1 := (clipped.Right - orig.Left) / w
	v0 := (clipped.Top - orig.Top) / h
	v1 := (clipped.Bottom - orig.Top) / h

	q := *src
	*src = QuadTexCoords{
		TopLeft:     bilerp(q, u0, v0),
		TopRight:    bilerp(q, u1, v0),
		BottomLeft:  bilerp(q, u0, v1),
		BottomRight: bilerp(q, u1, v1),
	}
	*dst = clipped
	return true
}

func bilerp(q QuadTexCoords, u, v float32) Vec2 {
	top := lerpVec(q.TopLeft, q.TopRight, u)
	bottom := lerpVec(q.BottomLeft, q.BottomRight, u)
	return lerpVec(top, bottom, v)
}

func lerpVec(a, b Vec2, t float32) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}
