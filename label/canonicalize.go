package label

import "fmt"

// Option configures a Canonicalizer.
type Option func(*config)

type config struct {
	threshold float64
}

func defaultConfig() config {
	return config{
		threshold: 0.5,
	}
}

// WithThreshold sets the decision boundary for normalized-float grids
// (default: 0.5). Cells strictly above the boundary are positive.
func WithThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// Canonicalizer converts label grids into canonical masks. The zero
// value is not usable; construct with New. It is safe for concurrent use.
type Canonicalizer struct {
	threshold float64
}

// New creates a Canonicalizer.
func New(opts ...Option) *Canonicalizer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Canonicalizer{threshold: cfg.threshold}
}

// Threshold returns the decision boundary for float grids.
func (c *Canonicalizer) Threshold() float64 { return c.threshold }

// Binary canonicalizes a grid into a 0/1 mask. The positive argument
// names the positive class and is matched against categorical grids by
// name identity only. Positivity is never inferred from numeric ordering
// or from the category table's index assignment order.
func (c *Canonicalizer) Binary(g Grid, positive string) (Mask, error) {
	if err := g.check(); err != nil {
		return Mask{}, err
	}

	n := g.Len()
	data := make([]int, n)

	switch g.k {
	case kindBool:
		for i, v := range g.bools {
			if v {
				data[i] = 1
			}
		}

	case kindInt:
		for i, v := range g.ints {
			if v != 0 {
				data[i] = 1
			}
		}

	case kindFloat:
		for i, v := range g.floats {
			if v > c.threshold {
				data[i] = 1
			}
		}

	case kindCategorical:
		if len(g.categories) != 2 {
			return Mask{}, fmt.Errorf("%w: binary mode requires 2 categories, have %d",
				ErrAmbiguousCategoryCount, len(g.categories))
		}
		posIdx := -1
		for i, cat := range g.categories {
			if cat == positive {
				posIdx = i
				break
			}
		}
		if posIdx < 0 {
			return Mask{}, fmt.Errorf("%w: %q not in categories %v",
				ErrUnknownPositive, positive, g.categories)
		}
		for i, cell := range g.cells {
			if cell < 0 || cell >= len(g.categories) {
				return Mask{}, fmt.Errorf("%w: cell %d holds category index %d out of range",
					ErrMalformedGrid, i, cell)
			}
			if cell == posIdx {
				data[i] = 1
			}
		}

	default:
		return Mask{}, ErrUnsupportedRepresentation
	}

	shape := make([]int, len(g.shape))
	copy(shape, g.shape)
	return Mask{Shape: shape, Data: data}, nil
}

// MultiClass canonicalizes a categorical grid into a class-index mask,
// taking indices directly from the category table with no binary
// collapsing. Only categorical grids carry enough structure for this.
func (c *Canonicalizer) MultiClass(g Grid) (Mask, error) {
	if err := g.check(); err != nil {
		return Mask{}, err
	}

	if g.k != kindCategorical {
		return Mask{}, fmt.Errorf("%w: multi-class mode requires a categorical grid, have %s",
			ErrUnsupportedRepresentation, g.k)
	}
	if len(g.categories) < 2 {
		return Mask{}, fmt.Errorf("%w: multi-class mode requires at least 2 categories, have %d",
			ErrAmbiguousCategoryCount, len(g.categories))
	}

	data := make([]int, len(g.cells))
	for i, cell := range g.cells {
		if cell < 0 || cell >= len(g.categories) {
			return Mask{}, fmt.Errorf("%w: cell %d holds category index %d out of range",
				ErrMalformedGrid, i, cell)
		}
		data[i] = cell
	}

	shape := make([]int, len(g.shape))
	copy(shape, g.shape)
	return Mask{Shape: shape, Data: data}, nil
}
