package blend

// Mode is a Porter-Duff compositing operation.
type Mode uint8

const (
	// SourceOver composites source over destination: S + D*(1-Sa).
	SourceOver Mode = iota
	// Source replaces the destination: S.
	Source
	// Plus adds source and destination, clamped: min(S+D, 1).
	Plus
)

// Func is the signature of a compositing operation on premultiplied 8-bit
// pixels.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// Get returns the compositing function for mode. Unknown modes fall back to
// SourceOver.
func Get(mode Mode) Func {
	switch mode {
	case Source:
		return blendSource
	case Plus:
		return blendPlus
	default:
		return blendSourceOver
	}
}

// Apply composites src onto dst with the given coverage (0-255) and
// returns the new destination pixel. Both pixels are premultiplied RGBA.
//
// For Source the coverage interpolates between dst and src; for the other
// modes it scales the source before compositing.
func Apply(mode Mode, src, dst [4]byte, coverage byte) [4]byte {
	if coverage == 0 {
		return dst
	}
	if mode == Source {
		if coverage == 255 {
			return src
		}
		return [4]byte{
			lerpByte(dst[0], src[0], coverage),
			lerpByte(dst[1], src[1], coverage),
			lerpByte(dst[2], src[2], coverage),
			lerpByte(dst[3], src[3], coverage),
		}
	}
	if coverage != 255 {
		src = [4]byte{
			mulDiv255(src[0], coverage),
			mulDiv255(src[1], coverage),
			mulDiv255(src[2], coverage),
			mulDiv255(src[3], coverage),
		}
	}
	r, g, b, a := Get(mode)(src[0], src[1], src[2], src[3], dst[0], dst[1], dst[2], dst[3])
	return [4]byte{r, g, b, a}
}

// blendSource replaces destination with source.
func blendSource(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// blendPlus adds source and destination colors.
// Formula: min(S + D, 255)
func blendPlus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
}
