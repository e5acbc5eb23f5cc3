package metrics

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShapeMismatch indicates prediction and ground truth differ in
	// shape. Samples are rejected, never reshaped.
	ErrShapeMismatch = errors.New("metrics: prediction and ground truth shapes differ")

	// ErrNotBinary indicates a mask holds class indices outside {0,1}
	// where a binary mask is required.
	ErrNotBinary = errors.New("metrics: mask is not binary")

	// ErrNoSamples indicates an empty sample batch.
	ErrNoSamples = errors.New("metrics: no samples")

	// ErrLengthMismatch indicates parallel slices of different lengths.
	ErrLengthMismatch = errors.New("metrics: input lengths differ")

	// ErrClassOutOfRange indicates a label outside [0, numClasses).
	ErrClassOutOfRange = errors.New("metrics: class index out of range")

	// ErrSingleClass indicates ROC computation over ground truth that
	// contains only positives or only negatives.
	ErrSingleClass = errors.New("metrics: ground truth contains a single class")
)
