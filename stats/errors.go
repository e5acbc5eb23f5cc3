package stats

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrEmptySample indicates a test invoked with no observations.
	ErrEmptySample = errors.New("stats: empty sample")

	// ErrSampleTooSmall indicates fewer observations than the test needs.
	ErrSampleTooSmall = errors.New("stats: sample too small")

	// ErrMismatchedSamples indicates paired samples of unequal length.
	ErrMismatchedSamples = errors.New("stats: mismatched sample lengths")

	// ErrInvalidAlpha indicates a significance level outside (0, 1).
	ErrInvalidAlpha = errors.New("stats: invalid significance level")
)
