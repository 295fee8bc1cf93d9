package spritefont

import "github.com/gogpu/batch2d"

// Draw lays out text and draws it through b from atlas, the texture created
// from f.Atlas(), with the top-left corner of the first line at pos.
//
// For SDF fonts the caller selects batch2d.BlendStateSdf with ChangeTo
// first; the font's SDF config for scale is applied while in that mode.
func Draw[T batch2d.Texture](b *batch2d.Batch2D[T], atlas T, f *Font, text string, pos batch2d.Vec2, c batch2d.Color, scale float32) error {
	glyphs := f.Layout(text, batch2d.Vec2{}, 1)
	return b.DrawGlyphs(atlas, glyphs, pos, batch2d.V2(scale, scale), c, f.SdfRenderConfig(scale))
}
