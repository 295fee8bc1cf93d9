// Package blend provides byte-level compositing for premultiplied RGBA
// pixels as used by the software quad renderer.
package blend

// div255Exact divides x by 255 exactly (Alvy Ray Smith's formula).
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255.
func mulDiv255(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}

// MulDiv255 is the exported form of mulDiv255 for callers that scale a
// premultiplied pixel by a coverage or alpha value.
func MulDiv255(a, b byte) byte {
	return mulDiv255(a, b)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// lerpByte interpolates from a to b by t/255.
func lerpByte(a, b, t byte) byte {
	return byte(div255Exact(uint16(a)*uint16(255-t) + uint16(b)*uint16(t)))
}
