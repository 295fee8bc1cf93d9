// Package spritefont rasterizes TrueType and OpenType fonts into a sprite
// atlas and lays out text as batch2d glyph quads.
//
// Glyphs of a fixed character set are rendered once with
// golang.org/x/image/font/opentype and packed into a single RGBA texture.
// Text is shaped with the go-text HarfBuzz shaper, so kerning and
// ligatures present in the atlas are honored.
//
// A font can be built as a plain coverage atlas, drawn with any
// premultiplied blend state, or as a signed distance field atlas drawn with
// batch2d.BlendStateSdf, which stays sharp when scaled:
//
//	f, err := spritefont.New(goregular.TTF, spritefont.Options{Size: 32, SDF: true})
//	atlas := software.NewTexture(f.Atlas())
//
//	b.ChangeTo(batch2d.BlendStateSdf)
//	spritefont.Draw(b, atlas, f, "Hello", batch2d.V2(10, 10), batch2d.White, 2)
package spritefont
