package spritefont

import "errors"

// Sentinel errors for the spritefont package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("spritefont: empty font data")

	// ErrInvalidSize is returned when the font size is not positive.
	ErrInvalidSize = errors.New("spritefont: font size must be positive")

	// ErrEmptyCharset is returned when no glyph of the charset exists in
	// the font.
	ErrEmptyCharset = errors.New("spritefont: no glyphs to rasterize")
)
