package batch2d

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestAppendVertexBytes(t *testing.T) {
	verts := []Vertex{
		{Position: V2(1, 2), TexCoord: V2(0.25, 0.75), Color: RGBA(0.1, 0.2, 0.3, 0.4)},
		{Position: V2(-3, 4), TexCoord: V2(1, 0), Color: White},
	}
	prefix := []byte{0xAA}
	got := AppendVertexBytes(prefix, verts)

	if len(got) != 1+len(verts)*VertexStride {
		t.Fatalf("len = %d, want %d", len(got), 1+len(verts)*VertexStride)
	}
	if got[0] != 0xAA {
		t.Error("prefix was overwritten")
	}

	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(got[1+off:]))
	}
	want := []float32{1, 2, 0.25, 0.75, 0.1, 0.2, 0.3, 0.4, -3, 4, 1, 0, 1, 1, 1, 1}
	for i, w := range want {
		if g := readF32(i * 4); g != w {
			t.Errorf("float %d = %v, want %v", i, g, w)
		}
	}

	if g := readF32(VertexStride + VertexTexCoordOffset); g != 1 {
		t.Errorf("second vertex texcoord.x = %v, want 1", g)
	}
	if g := readF32(VertexColorOffset + 12); g != 0.4 {
		t.Errorf("first vertex alpha = %v, want 0.4", g)
	}
}

func TestAppendVertexBytesEmpty(t *testing.T) {
	if got := AppendVertexBytes(nil, nil); len(got) != 0 {
		t.Errorf("AppendVertexBytes(nil, nil) = %v, want empty", got)
	}
}
