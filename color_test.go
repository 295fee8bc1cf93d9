package batch2d

import (
	"image/color"
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func colorApprox(a, b Color) bool {
	return approx(a.R, b.R) && approx(a.G, b.G) && approx(a.B, b.B) && approx(a.A, b.A)
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#fff", White},
		{"000", Black},
		{"#f00f", Red},
		{"00ff00", Green},
		{"#0000ff80", RGBA(0, 0, 1, 128.0/255)},
		{"#FFFFFF", White},
		{"", Black},
		{"12345", Black},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in); !colorApprox(got, tt.want) {
				t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	tests := []color.NRGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 128},
		{10, 20, 30, 0},
	}
	for _, in := range tests {
		got := FromColor(in).NRGBA()
		if in.A == 0 {
			// NRGBA of a fully transparent color loses the RGB channels.
			if got.A != 0 {
				t.Errorf("FromColor(%v).NRGBA().A = %d, want 0", in, got.A)
			}
			continue
		}
		if got != in {
			t.Errorf("FromColor(%v).NRGBA() = %v", in, got)
		}
	}
}

func TestNRGBAClamps(t *testing.T) {
	got := RGBA(2, -1, 0.5, 1).NRGBA()
	want := color.NRGBA{R: 255, G: 0, B: 128, A: 255}
	if got != want {
		t.Errorf("NRGBA() = %v, want %v", got, want)
	}
}

func TestPremultiplied(t *testing.T) {
	got := RGBA(1, 0.5, 0.25, 0.5).Premultiplied()
	want := RGBA(0.5, 0.25, 0.125, 0.5)
	if !colorApprox(got, want) {
		t.Errorf("Premultiplied() = %+v, want %+v", got, want)
	}
	if got := Transparent.Premultiplied(); got != Transparent {
		t.Errorf("Transparent.Premultiplied() = %+v", got)
	}
}

func TestScale(t *testing.T) {
	if got := White.Scale(0.5); !colorApprox(got, RGBA(0.5, 0.5, 0.5, 0.5)) {
		t.Errorf("White.Scale(0.5) = %+v", got)
	}
}
