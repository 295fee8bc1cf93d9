//go:build !nogpu

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureFormat is the format of all sampled textures. Pixels are
// premultiplied RGBA, matching image.RGBA.
const textureFormat = gputypes.TextureFormatRGBA8Unorm

// Texture is a sampled GPU texture usable with a Renderer.
//
// A *Texture satisfies batch2d.Texture. A nil or destroyed texture is
// invalid and is skipped by batch2d.Batch2D.
type Texture struct {
	device hal.Device
	tex    hal.Texture
	view   hal.TextureView
	size   image.Point
}

// NewTexture creates a texture from img and uploads its pixels with
// Queue.WriteTexture.
func NewTexture(device hal.Device, queue hal.Queue, img *image.RGBA, label string) (*Texture, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	size := img.Rect.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: empty image %v", ErrInvalidTexture, img.Rect)
	}
	w, h := uint32(size.X), uint32(size.Y) //nolint:gosec // image size is positive

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        textureFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", label, err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        textureFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w", label, err)
	}

	err = queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex},
		packedPixels(img),
		&hal.ImageDataLayout{BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("upload texture %q: %w", label, err)
	}

	return &Texture{device: device, tex: tex, view: view, size: size}, nil
}

// Valid reports whether the texture can be drawn.
func (t *Texture) Valid() bool {
	return t != nil && t.view != nil
}

// Size returns the texture size in pixels.
func (t *Texture) Size() image.Point {
	if t == nil {
		return image.Point{}
	}
	return t.size
}

// View returns the texture view bound when drawing.
func (t *Texture) View() hal.TextureView {
	return t.view
}

// Destroy releases the texture. Safe to call multiple times.
func (t *Texture) Destroy() {
	if t == nil || t.device == nil {
		return
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// packedPixels returns the pixels of img as tightly packed rows.
func packedPixels(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	rowBytes := w * 4
	if img.Stride == rowBytes {
		start := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y)
		return img.Pix[start : start+rowBytes*h]
	}
	data := make([]byte, rowBytes*h)
	for y := 0; y < h; y++ {
		start := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(data[y*rowBytes:], img.Pix[start:start+rowBytes])
	}
	return data
}
