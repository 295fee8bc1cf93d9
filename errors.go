package batch2d

import "errors"

// Sentinel errors.
var (
	// ErrCapacityExceeded is raised (as a panic value wrapping it) when a quad
	// is appended without room in the vertex or segment arena. Callers are
	// expected to call EnsureCapacityFor before appending.
	ErrCapacityExceeded = errors.New("batch2d: quad capacity exceeded")

	// ErrSegmentOutOfRange is raised (as a panic value wrapping it) when a
	// segment index is not below SegmentCount.
	ErrSegmentOutOfRange = errors.New("batch2d: segment index out of range")

	// ErrInvalidCapacity is returned for negative capacity requests or
	// requests above MaxQuadCapacity.
	ErrInvalidCapacity = errors.New("batch2d: invalid capacity")

	// ErrAlreadyBegun is returned by Begin when a begin/end block is active.
	ErrAlreadyBegun = errors.New("batch2d: already inside a begin/end block")

	// ErrNotBegun is returned by End and the draw calls outside a
	// begin/end block.
	ErrNotBegun = errors.New("batch2d: not inside a begin/end block")

	// ErrUnknownBlendState is returned when parsing an unknown blend state name.
	ErrUnknownBlendState = errors.New("batch2d: unknown blend state")

	// ErrNilNative is returned by Batch2D when constructed without a native batch.
	ErrNilNative = errors.New("batch2d: nil native batch")
)
