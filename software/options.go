package software

// DefaultSdfSpread is the distance in atlas pixels encoded between the glyph
// edge and the ends of the distance field range.
const DefaultSdfSpread = 4

// Option configures a Renderer.
type Option func(*options)

type options struct {
	sdfSpread float32
}

func defaultOptions() options {
	return options{sdfSpread: DefaultSdfSpread}
}

// WithSdfSpread sets the distance field spread used to anti-alias SDF
// glyphs. It must match the spread the atlas was generated with.
// Non-positive values are ignored.
func WithSdfSpread(spread float32) Option {
	return func(o *options) {
		if spread > 0 {
			o.sdfSpread = spread
		}
	}
}
