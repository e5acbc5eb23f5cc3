package segeval

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNoPairs indicates an evaluation invoked with an empty batch.
	ErrNoPairs = errors.New("segeval: no prediction/truth pairs")

	// ErrAllPairsFailed indicates every pair in the batch was rejected
	// during canonicalization or scoring.
	ErrAllPairsFailed = errors.New("segeval: all pairs failed")
)
