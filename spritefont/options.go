package spritefont

// ASCII is the printable ASCII character set.
const ASCII = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// Options configures font rasterization.
type Options struct {
	// Size is the font size in pixels.
	Size float64

	// Charset lists the runes rendered into the atlas. Duplicates are
	// ignored. Empty means ASCII.
	Charset string

	// SDF stores a signed distance field in the atlas instead of coverage.
	SDF bool

	// Spread is the distance in atlas pixels covered by the distance
	// field on each side of a glyph edge. Only used with SDF. It should
	// match the spread the renderer decodes with.
	Spread int

	// Padding is the number of empty pixels around each glyph.
	Padding int
}

// DefaultOptions returns options for a 32 pixel coverage atlas of ASCII.
func DefaultOptions() Options {
	return Options{
		Size:    32,
		Charset: ASCII,
		Spread:  4,
		Padding: 1,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size == 0 {
		o.Size = d.Size
	}
	if o.Charset == "" {
		o.Charset = d.Charset
	}
	if o.Spread <= 0 {
		o.Spread = d.Spread
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o
}

// pad returns the border kept around each glyph bitmap.
func (o Options) pad() int {
	if o.SDF {
		return o.Padding + o.Spread
	}
	return o.Padding
}
