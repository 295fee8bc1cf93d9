//go:build !nogpu

// Package gpu implements batch2d.NativeBatch on gogpu/wgpu HAL devices.
//
// The Renderer records the quads flushed by batch2d.Batch2D on the CPU and
// replays them into a render pass with one indexed draw per segment and one
// render pipeline per blend state. All segments of a frame share a single
// vertex buffer and a single quad index buffer.
//
// The renderer can use its own HAL device or a shared one from an external
// provider (e.g., gogpu):
//
//	r, err := gpu.NewRendererFromProvider(provider, gpu.DefaultConfig())
//	b := batch2d.New[*gpu.Texture](r, screen)
//
//	b.Begin()
//	b.DrawAt(sprite, batch2d.V2(10, 10), batch2d.White)
//	b.End()
//
//	r.Prepare()
//	r.Record(renderPass)
//	r.Reset()
//
// Build with the nogpu tag to exclude the package.
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by device providers that expose their HAL
// device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewRendererFromProvider creates a renderer on the shared GPU device of an
// external provider. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. When the provider has
// a surface, its format overrides config.TargetFormat.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, config Config) (*Renderer, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		config.TargetFormat = f
	}
	return NewRenderer(device, queue, config)
}

// halFromProvider extracts the HAL device and queue from provider.
func halFromProvider(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrProviderNotHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, ErrProviderNotHAL
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, ErrProviderNotHAL
	}
	return device, queue, nil
}
