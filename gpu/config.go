//go:build !nogpu

package gpu

import "github.com/gogpu/gputypes"

// Config holds configuration for a Renderer.
type Config struct {
	// TargetFormat is the color format of the render pass the renderer
	// records into.
	// Default: BGRA8Unorm
	TargetFormat gputypes.TextureFormat

	// SampleCount is the sample count of the color target.
	// Default: 1
	SampleCount uint32

	// InitialQuadCapacity sizes the first vertex and index buffers.
	// Default: 1024
	InitialQuadCapacity int

	// SdfSpread is the distance field spread in atlas pixels used for SDF
	// glyph anti-aliasing.
	// Default: 4
	SdfSpread float32

	// NearestFiltering selects nearest texture sampling instead of linear.
	NearestFiltering bool

	// CompileSPIRV compiles the quad shader to SPIR-V with naga instead of
	// handing WGSL to the device.
	CompileSPIRV bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		TargetFormat:        gputypes.TextureFormatBGRA8Unorm,
		SampleCount:         1,
		InitialQuadCapacity: 1024,
		SdfSpread:           4,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TargetFormat == gputypes.TextureFormatUndefined {
		c.TargetFormat = def.TargetFormat
	}
	if c.SampleCount == 0 {
		c.SampleCount = def.SampleCount
	}
	if c.InitialQuadCapacity <= 0 {
		c.InitialQuadCapacity = def.InitialQuadCapacity
	}
	if c.SdfSpread <= 0 {
		c.SdfSpread = def.SdfSpread
	}
	return c
}
