// Package label canonicalizes prediction and ground-truth label grids into
// class-index masks. The positive class is always named explicitly and
// matched by category name, never by storage position.
package label

import "fmt"

type kind int

const (
	kindNone kind = iota
	kindBool
	kindInt
	kindFloat
	kindCategorical
)

func (k kind) String() string {
	switch k {
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindFloat:
		return "float"
	case kindCategorical:
		return "categorical"
	default:
		return "none"
	}
}

// Grid is an N-dimensional label grid in one of the supported
// representations: boolean, small-integer, normalized-float, or
// categorical with a named category table. Grids carry no ordinal
// meaning; use a Canonicalizer to obtain a Mask.
type Grid struct {
	shape      []int
	bools      []bool
	ints       []int
	floats     []float64
	cells      []int
	categories []string
	k          kind
}

// FromBool builds a boolean grid. True cells are positive.
func FromBool(shape []int, cells []bool) Grid {
	return Grid{shape: shape, bools: cells, k: kindBool}
}

// FromInt builds an integer grid. Non-zero cells are positive under
// binary canonicalization.
func FromInt(shape []int, cells []int) Grid {
	return Grid{shape: shape, ints: cells, k: kindInt}
}

// FromFloat builds a normalized-float grid, thresholded against the
// canonicalizer's decision boundary.
func FromFloat(shape []int, cells []float64) Grid {
	return Grid{shape: shape, floats: cells, k: kindFloat}
}

// FromCategorical builds a symbolic grid. Each cell is an index into
// categories; the index assignment order carries no meaning.
func FromCategorical(shape []int, cells []int, categories []string) Grid {
	cats := make([]string, len(categories))
	copy(cats, categories)
	return Grid{shape: shape, cells: cells, categories: cats, k: kindCategorical}
}

// Shape returns the grid dimensions.
func (g Grid) Shape() []int { return g.shape }

// Len returns the number of cells implied by the shape.
func (g Grid) Len() int {
	if len(g.shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range g.shape {
		n *= d
	}
	return n
}

// IsCategorical reports whether the grid carries a category table.
func (g Grid) IsCategorical() bool { return g.k == kindCategorical }

// Categories returns a copy of the category table, or nil for
// non-categorical grids.
func (g Grid) Categories() []string {
	if g.k != kindCategorical {
		return nil
	}
	cats := make([]string, len(g.categories))
	copy(cats, g.categories)
	return cats
}

// cellCount returns the length of whichever cell slice is populated.
func (g Grid) cellCount() int {
	switch g.k {
	case kindBool:
		return len(g.bools)
	case kindInt:
		return len(g.ints)
	case kindFloat:
		return len(g.floats)
	case kindCategorical:
		return len(g.cells)
	default:
		return 0
	}
}

// check validates shape/cell consistency before canonicalization.
func (g Grid) check() error {
	if g.k == kindNone {
		return fmt.Errorf("%w: grid has no representation", ErrUnsupportedRepresentation)
	}
	n := g.Len()
	if n == 0 {
		return ErrEmptyInput
	}
	if got := g.cellCount(); got != n {
		return fmt.Errorf("%w: shape %v implies %d cells, have %d", ErrMalformedGrid, g.shape, n, got)
	}
	return nil
}

// Mask is a canonical label grid: each cell holds a zero-based class
// index. For binary tasks, 1 is the declared positive class.
type Mask struct {
	Shape []int
	Data  []int
}

// Len returns the number of cells.
func (m Mask) Len() int { return len(m.Data) }

// SameShape reports whether two masks have identical dimensions.
func (m Mask) SameShape(other Mask) bool {
	if len(m.Shape) != len(other.Shape) {
		return false
	}
	for i, d := range m.Shape {
		if other.Shape[i] != d {
			return false
		}
	}
	return true
}

// Equal reports whether two masks are bit-identical.
func (m Mask) Equal(other Mask) bool {
	if !m.SameShape(other) || len(m.Data) != len(other.Data) {
		return false
	}
	for i, v := range m.Data {
		if other.Data[i] != v {
			return false
		}
	}
	return true
}
