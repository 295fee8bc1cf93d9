package spritefont

import (
	"image"
	"math"
)

// distanceField converts a coverage mask into a signed distance field of
// the same size. A pixel is inside when its coverage is at least one half.
// The output encodes 0.5 on the edge, growing by 0.5/spread per pixel
// towards the inside and shrinking the same way towards the outside,
// clamped to [0, 1].
//
// Distances are searched within spread pixels only, which is all the
// encoding can represent.
func distanceField(mask *image.Alpha, spread int) *image.Alpha {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	inside := make([]bool, w*h)
	for y := range h {
		for x := range w {
			inside[y*w+x] = mask.AlphaAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).A >= 128
		}
	}

	out := image.NewAlpha(image.Rect(0, 0, w, h))
	limit := float64(spread)
	for y := range h {
		for x := range w {
			in := inside[y*w+x]
			best := limit * limit
			for dy := -spread; dy <= spread; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				for dx := -spread; dx <= spread; dx++ {
					sx := x + dx
					if sx < 0 || sx >= w || inside[sy*w+sx] == in {
						continue
					}
					if d := float64(dx*dx + dy*dy); d < best {
						best = d
					}
				}
			}
			// The edge lies halfway between a pixel and its nearest
			// opposite neighbor.
			dist := min(math.Sqrt(best), limit) - 0.5
			if !in {
				dist = -dist
			}
			v := 0.5 + dist/(2*limit)
			out.Pix[y*out.Stride+x] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
		}
	}
	return out
}
