//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/batch2d"
)

// uniformSize is the byte size of Uniforms in quad.wgsl:
// screen (vec2<f32>) + sdf_scale + sdf_spread + mode + 3 x padding.
const uniformSize = 32

// indexStride is the size of one uint32 index in bytes.
const indexStride = 4

// passCmd is one recorded native batch: everything between Begin and End.
type passCmd struct {
	blend     batch2d.BlendState
	sdf       batch2d.SdfRenderConfig
	screen    image.Point
	firstDraw int
}

// drawCmd is one recorded DrawQuads call.
type drawCmd struct {
	pass      int
	texture   *Texture
	firstQuad uint32
	quads     uint32
}

// Renderer records batched quads on the CPU and replays them into a HAL
// render pass.
//
// Renderer implements batch2d.NativeBatch[*Texture]. A frame is recorded
// with any number of Begin/DrawQuads/End sequences, uploaded with Prepare,
// drawn into a render pass owned by the caller with Record, and released
// with Reset:
//
//	b.Begin() ... b.End()        // batch2d.Batch2D drives the renderer
//	r.Prepare()
//	r.Record(renderPass)
//	r.Reset()
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	config Config
	quad   *quadPipeline

	// Recording state.
	active   bool
	vertices []byte
	quads    uint32
	passes   []passCmd
	draws    []drawCmd

	// Persistent buffers, grown on demand.
	vertBuf      hal.Buffer
	vertCapacity uint64
	idxBuf       hal.Buffer
	idxQuads     uint32

	// Per-frame resources released by Reset.
	uniformBufs []hal.Buffer
	bindGroups  []hal.BindGroup
	pipelines   []hal.RenderPipeline
	prepared    bool
}

var _ batch2d.NativeBatch[*Texture] = (*Renderer)(nil)

// NewRenderer creates a renderer for the given HAL device and queue. Zero
// fields of config are taken from DefaultConfig.
func NewRenderer(device hal.Device, queue hal.Queue, config Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	config = config.withDefaults()
	quad, err := newQuadPipeline(device, config)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		device:   device,
		queue:    queue,
		config:   config,
		quad:     quad,
		vertices: make([]byte, 0, config.InitialQuadCapacity*4*batch2d.VertexStride),
	}, nil
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Passes returns the number of native batches recorded in the current frame.
func (r *Renderer) Passes() int {
	return len(r.passes)
}

// DrawCalls returns the number of draws recorded in the current frame.
func (r *Renderer) DrawCalls() int {
	return len(r.draws)
}

// QuadCount returns the number of quads recorded in the current frame.
func (r *Renderer) QuadCount() uint32 {
	return r.quads
}

// Begin starts recording a native batch.
func (r *Renderer) Begin(screen image.Point, blend batch2d.BlendState, sdf batch2d.SdfRenderConfig, _ bool) error {
	if r.active {
		return ErrBatchActive
	}
	if !blend.Valid() {
		return fmt.Errorf("gpu: begin: %w", batch2d.ErrUnknownBlendState)
	}
	r.active = true
	r.prepared = false
	r.passes = append(r.passes, passCmd{
		blend:     blend,
		sdf:       sdf,
		screen:    screen,
		firstDraw: len(r.draws),
	})
	return nil
}

// DrawQuads records len(vertices)/4 quads with texture.
func (r *Renderer) DrawQuads(vertices []batch2d.Vertex, texture *Texture) error {
	if !r.active {
		return ErrBatchInactive
	}
	if len(vertices)%4 != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidVertexCount, len(vertices))
	}
	if !texture.Valid() {
		return ErrInvalidTexture
	}
	if len(vertices) == 0 {
		return nil
	}
	n := uint32(len(vertices) / 4) //nolint:gosec // bounded by batch2d.MaxQuadCapacity
	r.vertices = batch2d.AppendVertexBytes(r.vertices, vertices)
	r.draws = append(r.draws, drawCmd{
		pass:      len(r.passes) - 1,
		texture:   texture,
		firstQuad: r.quads,
		quads:     n,
	})
	r.quads += n
	return nil
}

// End finishes recording the native batch.
func (r *Renderer) End() error {
	if !r.active {
		return ErrBatchInactive
	}
	r.active = false
	return nil
}

// Prepare uploads the recorded frame: vertex and index buffers, one
// uniform buffer per pass and one bind group per draw. It also creates the
// pipelines the frame needs. Calling Prepare again without new draws is a
// no-op.
func (r *Renderer) Prepare() error {
	if r.active {
		return ErrBatchActive
	}
	if r.prepared || len(r.draws) == 0 {
		r.prepared = true
		return nil
	}
	r.releaseFrame()

	if err := r.ensureVertexBuffer(uint64(len(r.vertices))); err != nil {
		return err
	}
	if err := r.queue.WriteBuffer(r.vertBuf, 0, r.vertices); err != nil {
		return fmt.Errorf("upload vertices: %w", err)
	}
	if err := r.ensureIndexBuffer(r.quads); err != nil {
		return err
	}

	r.pipelines = make([]hal.RenderPipeline, len(r.passes))
	r.uniformBufs = make([]hal.Buffer, len(r.passes))
	for i, p := range r.passes {
		rp, err := r.quad.pipeline(p.blend)
		if err != nil {
			return err
		}
		r.pipelines[i] = rp

		buf, err := r.createBuffer("batch2d_uniform", makeUniform(p, r.config.SdfSpread),
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		r.uniformBufs[i] = buf
	}

	r.bindGroups = make([]hal.BindGroup, len(r.draws))
	for i, d := range r.draws {
		if !d.texture.Valid() {
			return fmt.Errorf("draw %d: %w", i, ErrInvalidTexture)
		}
		bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "batch2d_quad_bind",
			Layout: r.quad.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: r.uniformBufs[d.pass].NativeHandle(), Offset: 0, Size: uniformSize,
				}},
				{Binding: 1, Resource: gputypes.TextureViewBinding{
					TextureView: d.texture.view.NativeHandle(),
				}},
				{Binding: 2, Resource: gputypes.SamplerBinding{
					Sampler: r.quad.sampler.NativeHandle(),
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("create bind group for draw %d: %w", i, err)
		}
		r.bindGroups[i] = bg
	}

	r.prepared = true
	return nil
}

// Record issues the prepared draws into rp: one pipeline change per pass
// and one DrawIndexed per draw.
func (r *Renderer) Record(rp hal.RenderPassEncoder) error {
	if len(r.draws) == 0 {
		return nil
	}
	if !r.prepared || r.active {
		return ErrNotPrepared
	}
	rp.SetVertexBuffer(0, r.vertBuf, 0)
	rp.SetIndexBuffer(r.idxBuf, gputypes.IndexFormatUint32, 0)
	pass := -1
	for i, d := range r.draws {
		if d.pass != pass {
			pass = d.pass
			screen := r.passes[pass].screen
			rp.SetPipeline(r.pipelines[pass])
			rp.SetViewport(0, 0, float32(screen.X), float32(screen.Y), 0, 1)
		}
		rp.SetBindGroup(0, r.bindGroups[i], nil)
		rp.DrawIndexed(d.quads*6, 1, d.firstQuad*6, 0, 0)
	}
	return nil
}

// Submit prepares the frame, records it into a render pass on target,
// submits it and waits for the device to finish. When clear is non-nil the
// target is cleared to it first. Submit does not Reset the frame.
func (r *Renderer) Submit(target hal.TextureView, clear *gputypes.Color) error {
	if err := r.Prepare(); err != nil {
		return err
	}
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "batch2d_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("batch2d_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	att := hal.RenderPassColorAttachment{
		View:    target,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if clear != nil {
		att.LoadOp = gputypes.LoadOpClear
		att.ClearValue = *clear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "batch2d_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{att},
	})
	if err := r.Record(rp); err != nil {
		rp.End()
		encoder.DiscardEncoding()
		return err
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	if _, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := r.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

// Reset discards the recorded frame and releases its per-frame resources.
// Vertex and index buffers are kept for the next frame.
func (r *Renderer) Reset() error {
	if r.active {
		return ErrBatchActive
	}
	r.releaseFrame()
	r.vertices = r.vertices[:0]
	r.quads = 0
	r.passes = r.passes[:0]
	r.draws = r.draws[:0]
	r.prepared = false
	return nil
}

// Destroy releases all GPU resources held by the renderer. Textures are
// owned by the caller and are not destroyed.
func (r *Renderer) Destroy() {
	if r.active {
		batch2d.Logger().Warn("gpu: renderer destroyed with an active batch")
		r.active = false
	}
	_ = r.Reset()
	if r.vertBuf != nil {
		r.device.DestroyBuffer(r.vertBuf)
		r.vertBuf, r.vertCapacity = nil, 0
	}
	if r.idxBuf != nil {
		r.device.DestroyBuffer(r.idxBuf)
		r.idxBuf, r.idxQuads = nil, 0
	}
	if r.quad != nil {
		r.quad.destroy()
		r.quad = nil
	}
}

// releaseFrame destroys bind groups and uniform buffers of the last
// prepared frame.
func (r *Renderer) releaseFrame() {
	for _, bg := range r.bindGroups {
		if bg != nil {
			r.device.DestroyBindGroup(bg)
		}
	}
	for _, buf := range r.uniformBufs {
		if buf != nil {
			r.device.DestroyBuffer(buf)
		}
	}
	r.bindGroups = nil
	r.uniformBufs = nil
	r.pipelines = nil
}

// ensureVertexBuffer grows the vertex buffer to hold size bytes.
func (r *Renderer) ensureVertexBuffer(size uint64) error {
	if r.vertBuf != nil && r.vertCapacity >= size {
		return nil
	}
	newCap := max(size, r.vertCapacity+r.vertCapacity/2,
		uint64(r.config.InitialQuadCapacity)*4*batch2d.VertexStride) //nolint:gosec // positive config value
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "batch2d_vertices",
		Size:  newCap,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	if r.vertBuf != nil {
		r.device.DestroyBuffer(r.vertBuf)
	}
	batch2d.Logger().Debug("gpu: vertex buffer grown", "from", r.vertCapacity, "to", newCap)
	r.vertBuf, r.vertCapacity = buf, newCap
	return nil
}

// ensureIndexBuffer grows the shared quad index buffer to cover quads.
func (r *Renderer) ensureIndexBuffer(quads uint32) error {
	if r.idxBuf != nil && r.idxQuads >= quads {
		return nil
	}
	newQuads := max(quads, r.idxQuads+r.idxQuads/2,
		uint32(r.config.InitialQuadCapacity)) //nolint:gosec // positive config value
	buf, err := r.createBuffer("batch2d_indices", buildQuadIndices(newQuads),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	if r.idxBuf != nil {
		r.device.DestroyBuffer(r.idxBuf)
	}
	r.idxBuf, r.idxQuads = buf, newQuads
	return nil
}

// createBuffer creates a GPU buffer and uploads data.
func (r *Renderer) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

// buildQuadIndices returns index data for quads whose corners are stored
// top-left, top-right, bottom-left, bottom-right: triangles (0,1,2) and
// (2,1,3) per quad.
func buildQuadIndices(quads uint32) []byte {
	data := make([]byte, 0, int(quads)*6*indexStride)
	for i := range quads {
		v := i * 4
		for _, idx := range [6]uint32{v, v + 1, v + 2, v + 2, v + 1, v + 3} {
			data = binary.LittleEndian.AppendUint32(data, idx)
		}
	}
	return data
}

// makeUniform encodes the Uniforms block for a pass.
func makeUniform(p passCmd, spread float32) []byte {
	buf := make([]byte, 0, uniformSize)
	put := func(f float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	put(float32(max(p.screen.X, 1)))
	put(float32(max(p.screen.Y, 1)))
	put(p.sdf.Scale)
	put(spread)
	buf = binary.LittleEndian.AppendUint32(buf, shaderMode(p.blend))
	return append(buf, make([]byte, uniformSize-len(buf))...)
}
