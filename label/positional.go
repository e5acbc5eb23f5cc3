package label

import "fmt"

// PositionalBinary converts a two-category grid assuming category index 1
// is positive, regardless of category names. This is the historically
// buggy strategy: it exists only so a validator can cross-check it
// against the name-based conversion and flag disagreement. Do not use it
// to produce masks for metric computation.
func PositionalBinary(g Grid) (Mask, error) {
	if err := g.check(); err != nil {
		return Mask{}, err
	}
	if g.k != kindCategorical {
		return Mask{}, fmt.Errorf("%w: positional conversion requires a categorical grid, have %s",
			ErrUnsupportedRepresentation, g.k)
	}
	if len(g.categories) != 2 {
		return Mask{}, fmt.Errorf("%w: positional conversion requires 2 categories, have %d",
			ErrAmbiguousCategoryCount, len(g.categories))
	}

	data := make([]int, len(g.cells))
	for i, cell := range g.cells {
		if cell < 0 || cell >= len(g.categories) {
			return Mask{}, fmt.Errorf("%w: cell %d holds category index %d out of range",
				ErrMalformedGrid, i, cell)
		}
		if cell == 1 {
			data[i] = 1
		}
	}

	shape := make([]int, len(g.shape))
	copy(shape, g.shape)
	return Mask{Shape: shape, Data: data}, nil
}
