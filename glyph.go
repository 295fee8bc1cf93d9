package batch2d

// GlyphQuad is one positioned glyph of a laid out string.
type GlyphQuad struct {
	// Dst is the glyph rectangle relative to the pen origin of the string.
	Dst AreaRect
	// Area is the glyph location in the font atlas texture.
	Area TextureArea
}

// Visible reports whether the glyph has any atlas area to draw.
func (g GlyphQuad) Visible() bool {
	return g.Area.X1 > g.Area.X0 && !g.Dst.Empty()
}
