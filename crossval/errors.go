package crossval

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInvalidFoldCount indicates k outside [2, n].
	ErrInvalidFoldCount = errors.New("crossval: invalid fold count")

	// ErrBrokenPartition indicates a constructed fold set violated
	// disjointness or coverage. Seeing it means a bug in this package.
	ErrBrokenPartition = errors.New("crossval: broken partition")

	// ErrNoCandidates indicates a model comparison with nothing to compare.
	ErrNoCandidates = errors.New("crossval: no candidates")
)
