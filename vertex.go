package batch2d

import (
	"encoding/binary"
	"math"
)

// Vertex is a single quad corner: position, texture coordinate and color.
type Vertex struct {
	Position Vec2
	TexCoord Vec2
	Color    Color
}

// VertexStride is the size of an encoded Vertex in bytes:
// position (8) + texcoord (8) + color (16).
const VertexStride = 32

// Vertex attribute byte offsets within the encoded layout.
const (
	VertexPositionOffset = 0
	VertexTexCoordOffset = 8
	VertexColorOffset    = 16
)

// AppendVertexBytes appends the little-endian float32 encoding of vertices
// to dst and returns the extended slice.
func AppendVertexBytes(dst []byte, vertices []Vertex) []byte {
	for i := range vertices {
		v := &vertices[i]
		dst = appendF32(dst, v.Position.X)
		dst = appendF32(dst, v.Position.Y)
		dst = appendF32(dst, v.TexCoord.X)
		dst = appendF32(dst, v.TexCoord.Y)
		dst = appendF32(dst, v.Color.R)
		dst = appendF32(dst, v.Color.G)
		dst = appendF32(dst, v.Color.B)
		dst = appendF32(dst, v.Color.A)
	}
	return dst
}

func appendF32(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
}
