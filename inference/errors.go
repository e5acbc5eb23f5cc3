package inference

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrPoolClosed indicates an Acquire on a closed pool.
	ErrPoolClosed = errors.New("inference: pool closed")

	// ErrSessionClosed indicates a Predict on a closed session.
	ErrSessionClosed = errors.New("inference: session closed")

	// ErrBadImage indicates image dimensions inconsistent with the
	// pixel buffer.
	ErrBadImage = errors.New("inference: bad image dimensions")
)
