package label

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrEmptyInput indicates a zero-sized grid.
	ErrEmptyInput = errors.New("label: empty input grid")

	// ErrUnsupportedRepresentation indicates a grid representation the
	// requested canonicalization mode cannot handle.
	ErrUnsupportedRepresentation = errors.New("label: unsupported grid representation")

	// ErrAmbiguousCategoryCount indicates a category table incompatible
	// with the requested binary or multi-class mode.
	ErrAmbiguousCategoryCount = errors.New("label: ambiguous category count")

	// ErrUnknownPositive indicates the declared positive label is absent
	// from the grid's category table.
	ErrUnknownPositive = errors.New("label: unknown positive label")

	// ErrMalformedGrid indicates shape and cell data disagree.
	ErrMalformedGrid = errors.New("label: malformed grid")
)
