//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNilDevice is returned when a renderer or texture is created
	// without a HAL device or queue.
	ErrNilDevice = errors.New("gpu: nil HAL device or queue")

	// ErrProviderNotHAL is returned by NewRendererFromProvider when the
	// provider does not expose HAL types.
	ErrProviderNotHAL = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrNotPrepared is returned by Record when recorded draws have not
	// been uploaded with Prepare.
	ErrNotPrepared = errors.New("gpu: frame not prepared")

	// ErrBatchActive is returned when Begin, Prepare or Reset are called
	// while a batch is active.
	ErrBatchActive = errors.New("gpu: batch already active")

	// ErrBatchInactive is returned by DrawQuads and End outside Begin/End.
	ErrBatchInactive = errors.New("gpu: no active batch")

	// ErrInvalidVertexCount is returned when the vertex count is not a
	// multiple of four.
	ErrInvalidVertexCount = errors.New("gpu: vertex count is not a multiple of 4")

	// ErrInvalidTexture is returned for nil, destroyed or empty textures.
	ErrInvalidTexture = errors.New("gpu: invalid texture")
)
