package batch2d

import (
	"fmt"
	"strings"
)

// BlendState selects how a batch of quads is composited onto the target.
type BlendState uint8

const (
	// BlendStateAlphaBlend composites premultiplied colors (src + dst*(1-srcA)).
	BlendStateAlphaBlend BlendState = iota
	// BlendStateAdditive adds premultiplied source onto the destination.
	BlendStateAdditive
	// BlendStateNonPremultiplied composites straight-alpha colors
	// (src*srcA + dst*(1-srcA)).
	BlendStateNonPremultiplied
	// BlendStateOpaque replaces the destination.
	BlendStateOpaque
	// BlendStateSdf renders signed distance field textures. It is the only
	// state for which SdfRenderConfig takes part in segment comparison.
	BlendStateSdf
)

var blendStateNames = [...]string{
	BlendStateAlphaBlend:       "AlphaBlend",
	BlendStateAdditive:         "Additive",
	BlendStateNonPremultiplied: "NonPremultiplied",
	BlendStateOpaque:           "Opaque",
	BlendStateSdf:              "Sdf",
}

// String returns the name of the blend state.
func (b BlendState) String() string {
	if int(b) < len(blendStateNames) {
		return blendStateNames[b]
	}
	return fmt.Sprintf("BlendState(%d)", uint8(b))
}

// Valid reports whether b is one of the defined blend states.
func (b BlendState) Valid() bool {
	return int(b) < len(blendStateNames)
}

// ParseBlendState converts a blend state name (case-insensitive) into a
// BlendState.
func ParseBlendState(s string) (BlendState, error) {
	for i, name := range blendStateNames {
		if strings.EqualFold(s, name) {
			return BlendState(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlendState, s)
}

// MarshalText implements encoding.TextMarshaler.
func (b BlendState) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBlendState, uint8(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BlendState) UnmarshalText(text []byte) error {
	v, err := ParseBlendState(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// SdfRenderConfig holds the parameters used when rendering signed distance
// field glyphs. It only matters while the blend state is BlendStateSdf.
type SdfRenderConfig struct {
	// Scale is the ratio between the rendered size and the size the
	// distance field was generated at. It controls edge sharpness.
	Scale float32
}

// DefaultSdfRenderConfig returns a config with a scale of 1.
func DefaultSdfRenderConfig() SdfRenderConfig {
	return SdfRenderConfig{Scale: 1}
}

// renderState is the triple that decides whether two segments can share a
// draw call.
type renderState[T comparable] struct {
	texture T
	blend   BlendState
	sdf     SdfRenderConfig
}

// equal compares textures and blend states, and the SDF config only when the
// blend state is BlendStateSdf.
func (s renderState[T]) equal(seg *Segment[T]) bool {
	if s.texture != seg.TextureInfo || s.blend != seg.ActiveBlendState {
		return false
	}
	return s.blend != BlendStateSdf || s.sdf == seg.SdfRenderConfig
}
