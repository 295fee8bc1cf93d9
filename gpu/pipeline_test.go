//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/batch2d"
)

func TestShaderMode(t *testing.T) {
	tests := []struct {
		blend batch2d.BlendState
		want  uint32
	}{
		{batch2d.BlendStateAlphaBlend, modePremultiplied},
		{batch2d.BlendStateAdditive, modeStraight},
		{batch2d.BlendStateNonPremultiplied, modeStraight},
		{batch2d.BlendStateOpaque, modeOpaque},
		{batch2d.BlendStateSdf, modeSdf},
	}
	for _, tt := range tests {
		t.Run(tt.blend.String(), func(t *testing.T) {
			if got := shaderMode(tt.blend); got != tt.want {
				t.Errorf("shaderMode(%v) = %d, want %d", tt.blend, got, tt.want)
			}
		})
	}
}

func TestGPUBlend(t *testing.T) {
	if got := gpuBlend(batch2d.BlendStateOpaque); got != nil {
		t.Errorf("gpuBlend(Opaque) = %+v, want nil", got)
	}

	add := gpuBlend(batch2d.BlendStateAdditive)
	if add == nil || add.Color.SrcFactor != gputypes.BlendFactorOne || add.Color.DstFactor != gputypes.BlendFactorOne {
		t.Errorf("gpuBlend(Additive) = %+v, want One/One", add)
	}

	premul := gputypes.BlendStatePremultiplied()
	for _, b := range []batch2d.BlendState{
		batch2d.BlendStateAlphaBlend,
		batch2d.BlendStateNonPremultiplied,
		batch2d.BlendStateSdf,
	} {
		got := gpuBlend(b)
		if got == nil || *got != premul {
			t.Errorf("gpuBlend(%v) = %+v, want premultiplied source-over", b, got)
		}
	}
}

func TestQuadVertexLayout(t *testing.T) {
	layout := quadVertexLayout()
	if len(layout) != 1 {
		t.Fatalf("len(layout) = %d, want 1", len(layout))
	}
	if layout[0].ArrayStride != batch2d.VertexStride {
		t.Errorf("ArrayStride = %d, want %d", layout[0].ArrayStride, batch2d.VertexStride)
	}
	for i, attr := range layout[0].Attributes {
		if attr.ShaderLocation != uint32(i) {
			t.Errorf("attribute %d location = %d", i, attr.ShaderLocation)
		}
	}
}

func TestCompileQuadShader(t *testing.T) {
	words, err := compileSPIRV(quadShaderSource)
	if err != nil {
		t.Fatalf("compileSPIRV() error = %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("SPIR-V too short: %d words", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", words[0])
	}
}

func TestCompileInvalidShader(t *testing.T) {
	if _, err := compileSPIRV("fn broken( {"); err == nil {
		t.Error("compileSPIRV(invalid) error = nil, want error")
	}
}

func TestQuadPipelineCache(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	config := DefaultConfig()
	config.CompileSPIRV = true
	config.NearestFiltering = true
	p, err := newQuadPipeline(device, config)
	if err != nil {
		t.Fatalf("newQuadPipeline() error = %v", err)
	}
	defer p.destroy()

	first, err := p.pipeline(batch2d.BlendStateAdditive)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.pipeline(batch2d.BlendStateAdditive)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("pipeline(Additive) created twice")
	}
	if p.pipelines[batch2d.BlendStateAlphaBlend] != nil {
		t.Error("unused pipeline was created eagerly")
	}

	if _, err := p.pipeline(batch2d.BlendState(99)); !errors.Is(err, batch2d.ErrUnknownBlendState) {
		t.Errorf("pipeline(99) error = %v, want ErrUnknownBlendState", err)
	}

	p.destroy()
	for i, rp := range p.pipelines {
		if rp != nil {
			t.Errorf("pipeline %d not released", i)
		}
	}
}
