package validate

import "errors"

// Sentinel errors for malformed input. Quality anomalies are never
// hard errors; they are reported through Report instead.
var (
	// ErrEmptySet indicates a metric set with no metrics.
	ErrEmptySet = errors.New("validate: empty metric set")

	// ErrMalformedSet indicates per-metric value counts disagree.
	ErrMalformedSet = errors.New("validate: malformed metric set")
)
