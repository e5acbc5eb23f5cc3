package validate

import (
	"fmt"

	"github.com/jamesainslie/go-segeval/label"
)

// standardTwoClass lists category tables widely used for binary
// segmentation. Anything else is flagged for review, not rejected.
var standardTwoClass = [][2]string{
	{"background", "foreground"},
	{"negative", "positive"},
	{"0", "1"},
	{"false", "true"},
}

// CheckEncoding structurally audits a category table: is this a
// standard two-class encoding, a non-standard pair, or a multi-class
// table being forced through a binary path?
func CheckEncoding(categories []string) []Issue {
	var issues []Issue

	switch {
	case len(categories) == 0:
		issues = append(issues, Issue{
			Metric:   "encoding",
			Severity: SeverityError,
			Message:  "empty category table",
		})

	case len(categories) == 1:
		issues = append(issues, Issue{
			Metric:   "encoding",
			Severity: SeverityError,
			Message:  fmt.Sprintf("single category %q cannot express a binary task", categories[0]),
		})

	case len(categories) == 2:
		if !isStandardPair(categories) {
			issues = append(issues, Issue{
				Metric:   "encoding",
				Severity: SeverityWarning,
				Message: fmt.Sprintf("non-standard two-class encoding %v: confirm which category is positive",
					categories),
			})
		}

	default:
		issues = append(issues, Issue{
			Metric:   "encoding",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%d categories in a binary context: multi-class table may be misused",
				len(categories)),
		})
	}

	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if seen[cat] {
			issues = append(issues, Issue{
				Metric:   "encoding",
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate category %q", cat),
			})
		}
		seen[cat] = true
	}

	return issues
}

func isStandardPair(categories []string) bool {
	for _, pair := range standardTwoClass {
		if (categories[0] == pair[0] && categories[1] == pair[1]) ||
			(categories[0] == pair[1] && categories[1] == pair[0]) {
			return true
		}
	}
	return false
}

// CompareConversions canonicalizes a categorical grid with the
// name-based strategy and with the legacy positional strategy, and
// surfaces any disagreement. A mismatch means positional conversion
// would have silently flipped labels; the name-based mask is still the
// correct one, so the finding is a warning for audit trails rather
// than an error. Non-categorical grids have a single conversion path
// and produce no findings.
func CompareConversions(c *label.Canonicalizer, g label.Grid, positive string) []Issue {
	if !g.IsCategorical() {
		return nil
	}

	byName, err := c.Binary(g, positive)
	if err != nil {
		return []Issue{{
			Metric:   "encoding",
			Severity: SeverityError,
			Message:  fmt.Sprintf("name-based conversion failed: %v", err),
		}}
	}

	byPosition, err := label.PositionalBinary(g)
	if err != nil {
		return []Issue{{
			Metric:   "encoding",
			Severity: SeverityError,
			Message:  fmt.Sprintf("positional conversion failed: %v", err),
		}}
	}

	if byName.Equal(byPosition) {
		return nil
	}

	var flipped int
	for i, v := range byName.Data {
		if byPosition.Data[i] != v {
			flipped++
		}
	}
	return []Issue{{
		Metric:   "encoding",
		Severity: SeverityWarning,
		Message: fmt.Sprintf("name-based and positional conversions disagree on %d of %d cells "+
			"(positive=%q, categories=%v): positional decoding of this grid would corrupt metrics",
			flipped, len(byName.Data), positive, g.Categories()),
	}}
}
