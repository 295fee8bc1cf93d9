//go:build !nogpu

package gpu

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func TestNewTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tex, err := NewTexture(device, queue, image.NewRGBA(image.Rect(0, 0, 16, 8)), "atlas")
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	if !tex.Valid() {
		t.Error("Valid() = false for new texture")
	}
	if got := tex.Size(); got != image.Pt(16, 8) {
		t.Errorf("Size() = %v, want (16,8)", got)
	}
	if tex.View() == nil {
		t.Error("View() = nil")
	}

	tex.Destroy()
	if tex.Valid() {
		t.Error("Valid() = true after Destroy")
	}
	tex.Destroy()
}

func TestNewTextureErrors(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewTexture(nil, queue, image.NewRGBA(image.Rect(0, 0, 1, 1)), ""); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device error = %v, want ErrNilDevice", err)
	}
	if _, err := NewTexture(device, queue, image.NewRGBA(image.Rect(0, 0, 0, 4)), ""); !errors.Is(err, ErrInvalidTexture) {
		t.Errorf("empty image error = %v, want ErrInvalidTexture", err)
	}
}

func TestNilTexture(t *testing.T) {
	var tex *Texture
	if tex.Valid() {
		t.Error("nil Valid() = true")
	}
	if tex.Size() != (image.Point{}) {
		t.Errorf("nil Size() = %v", tex.Size())
	}
	tex.Destroy()
}

func TestPackedPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	if got := packedPixels(img); !bytes.Equal(got, img.Pix) {
		t.Error("packedPixels of a tight image differs from Pix")
	}

	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	got := packedPixels(sub)
	if len(got) != 2*2*4 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	for y := range 2 {
		start := img.PixOffset(1, 1+y)
		if want := img.Pix[start : start+8]; !bytes.Equal(got[y*8:y*8+8], want) {
			t.Errorf("row %d = %v, want %v", y, got[y*8:y*8+8], want)
		}
	}
}
