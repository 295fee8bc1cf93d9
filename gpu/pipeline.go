//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/batch2d"
)

// Embedded quad shader source.
//
//go:embed shaders/quad.wgsl
var quadShaderSource string

// blendStateCount is the number of batch2d blend states, one pipeline each.
const blendStateCount = int(batch2d.BlendStateSdf) + 1

// Fragment shader modes. Must match Uniforms.mode in quad.wgsl.
const (
	modePremultiplied uint32 = 0
	modeStraight      uint32 = 1
	modeOpaque        uint32 = 2
	modeSdf           uint32 = 3
)

// shaderMode returns the fragment shader mode for a blend state.
func shaderMode(b batch2d.BlendState) uint32 {
	switch b {
	case batch2d.BlendStateAdditive, batch2d.BlendStateNonPremultiplied:
		return modeStraight
	case batch2d.BlendStateOpaque:
		return modeOpaque
	case batch2d.BlendStateSdf:
		return modeSdf
	default:
		return modePremultiplied
	}
}

// gpuBlend returns the color target blend for a blend state. The fragment
// shader always outputs premultiplied color, so every state except Opaque
// and Additive uses premultiplied source-over. A nil result disables
// blending.
func gpuBlend(b batch2d.BlendState) *gputypes.BlendState {
	switch b {
	case batch2d.BlendStateOpaque:
		return nil
	case batch2d.BlendStateAdditive:
		add := gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		}
		return &gputypes.BlendState{Color: add, Alpha: add}
	default:
		premul := gputypes.BlendStatePremultiplied()
		return &premul
	}
}

// quadVertexLayout returns the vertex buffer layout matching VertexInput in
// quad.wgsl and batch2d.AppendVertexBytes:
//
//	location 0: position  (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: color     (vec4<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: batch2d.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: batch2d.VertexPositionOffset, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: batch2d.VertexTexCoordOffset, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: batch2d.VertexColorOffset, ShaderLocation: 2},
			},
		},
	}
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// quadPipeline owns the shader, layouts, sampler and the lazily created
// render pipelines of a Renderer.
type quadPipeline struct {
	device hal.Device
	config Config

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler

	pipelines [blendStateCount]hal.RenderPipeline
}

// newQuadPipeline compiles the quad shader and creates the shared layouts
// and sampler. Render pipelines are created on first use.
func newQuadPipeline(device hal.Device, config Config) (*quadPipeline, error) {
	p := &quadPipeline{device: device, config: config}
	if err := p.init(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *quadPipeline) init() error {
	source := hal.ShaderSource{WGSL: quadShaderSource}
	if p.config.CompileSPIRV {
		words, err := compileSPIRV(quadShaderSource)
		if err != nil {
			return err
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "batch2d_quad_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("create quad shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: Uniforms (uniform buffer, vertex+fragment)
	//   Binding 1: texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "batch2d_quad_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create quad bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "batch2d_quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	filter := gputypes.FilterModeLinear
	if p.config.NearestFiltering {
		filter = gputypes.FilterModeNearest
	}
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "batch2d_quad_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		return fmt.Errorf("create quad sampler: %w", err)
	}
	p.sampler = sampler
	return nil
}

// pipeline returns the render pipeline for blend, creating it on first use.
func (p *quadPipeline) pipeline(blend batch2d.BlendState) (hal.RenderPipeline, error) {
	if !blend.Valid() {
		return nil, fmt.Errorf("quad pipeline: %w", batch2d.ErrUnknownBlendState)
	}
	if rp := p.pipelines[blend]; rp != nil {
		return rp, nil
	}
	rp, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "batch2d_quad_pipeline_" + blend.String(),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.TargetFormat,
					Blend:     gpuBlend(blend),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.config.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create quad pipeline %s: %w", blend, err)
	}
	p.pipelines[blend] = rp
	batch2d.Logger().Debug("gpu: created quad pipeline", "blend", blend)
	return rp, nil
}

// destroy releases all pipeline resources in reverse creation order.
func (p *quadPipeline) destroy() {
	for i, rp := range p.pipelines {
		if rp != nil {
			p.device.DestroyRenderPipeline(rp)
			p.pipelines[i] = nil
		}
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
