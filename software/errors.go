package software

import "errors"

var (
	// ErrNilTarget is returned by Begin when the renderer has no target image.
	ErrNilTarget = errors.New("software: nil target image")

	// ErrBatchActive is returned by Begin when a batch is already active.
	ErrBatchActive = errors.New("software: batch already active")

	// ErrBatchInactive is returned by DrawQuads and End outside Begin/End.
	ErrBatchInactive = errors.New("software: no active batch")

	// ErrInvalidVertexCount is returned when the vertex count is not a
	// multiple of four.
	ErrInvalidVertexCount = errors.New("software: vertex count is not a multiple of 4")

	// ErrInvalidTexture is returned by DrawQuads for a nil or empty texture.
	ErrInvalidTexture = errors.New("software: invalid texture")
)
