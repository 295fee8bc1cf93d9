package batch2d

// Option configures a Batch2D during creation.
//
// Example:
//
//	b := batch2d.New(renderer, image.Pt(800, 600),
//	    batch2d.WithQuadCapacity(8192),
//	    batch2d.WithDefaultBlendState(batch2d.BlendStateNonPremultiplied))
type Option func(*options)

// options holds optional configuration for Batch2D creation.
type options struct {
	quadCapacity int
	defaultBlend BlendState
}

// defaultOptions returns the default Batch2D options.
func defaultOptions() options {
	return options{
		quadCapacity: DefaultQuadCapacity,
		defaultBlend: BlendStateAlphaBlend,
	}
}

// WithQuadCapacity sets the initial quad capacity of the internal batch.
// The batch still grows on demand; a good initial value avoids growth
// during the first frames.
func WithQuadCapacity(quads int) Option {
	return func(o *options) {
		o.quadCapacity = quads
	}
}

// WithDefaultBlendState sets the blend state used by Begin.
func WithDefaultBlendState(blend BlendState) Option {
	return func(o *options) {
		o.defaultBlend = blend
	}
}
