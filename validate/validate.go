// Package validate audits computed metric sets for statistical
// implausibility. A metric distribution with mean at its theoretical
// maximum and near-zero variance is the fingerprint of a label
// canonicalization bug, not evidence of model quality; this package
// exists so that pattern can never pass silently again.
package validate

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/jamesainslie/go-segeval/metrics"
)

// Severity grades an Issue.
type Severity int

const (
	// SeverityWarning marks a suspicious but possibly legitimate result.
	SeverityWarning Severity = iota
	// SeverityError marks a result that should not be trusted.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one finding from a validation pass.
type Issue struct {
	Metric   string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Metric, i.Message)
}

// Report is the outcome of validating a metric set. Quality anomalies
// never raise a hard error; they populate Errors and clear Valid, and
// the caller decides whether to halt or proceed.
type Report struct {
	Valid    bool
	Warnings []Issue
	Errors   []Issue
}

func (r *Report) add(issues ...Issue) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// Band is the empirically plausible range for a metric's mean.
type Band struct {
	Low  float64
	High float64
}

// Config holds validation thresholds. These are tunable expectations,
// not business constants: adjust the bands to the task's difficulty.
type Config struct {
	// MinSamples is the minimum batch size before degenerate-variance
	// findings escalate to errors.
	MinSamples int
	// PerfectTolerance bounds |mean - 1.0| for the perfect-mean check.
	PerfectTolerance float64
	// StdTolerance bounds "near-zero" standard deviation.
	StdTolerance float64
	// Bands maps metric name to its plausibility band. Metrics without
	// a band skip the band check.
	Bands map[string]Band
}

// DefaultConfig returns validation thresholds tuned for binary
// segmentation work.
func DefaultConfig() Config {
	return Config{
		MinSamples:       5,
		PerfectTolerance: 1e-9,
		StdTolerance:     1e-6,
		Bands: map[string]Band{
			metrics.MetricIoU:      {Low: 0.2, High: 0.97},
			metrics.MetricDice:     {Low: 0.3, High: 0.98},
			metrics.MetricAccuracy: {Low: 0.5, High: 0.999},
		},
	}
}

// Validator audits metric sets against a Config.
type Validator struct {
	cfg Config
}

// New creates a Validator. Zero-valued config fields fall back to
// defaults.
func New(cfg Config) *Validator {
	def := DefaultConfig()
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = def.MinSamples
	}
	if cfg.PerfectTolerance <= 0 {
		cfg.PerfectTolerance = def.PerfectTolerance
	}
	if cfg.StdTolerance <= 0 {
		cfg.StdTolerance = def.StdTolerance
	}
	if cfg.Bands == nil {
		cfg.Bands = def.Bands
	}
	return &Validator{cfg: cfg}
}

// Validate audits a metric set and reports findings. Malformed input
// (empty set, mismatched per-metric value counts) is a hard error;
// quality anomalies are returned in the Report.
func (v *Validator) Validate(set metrics.Set) (Report, error) {
	if len(set) == 0 {
		return Report{}, ErrEmptySet
	}

	n := -1
	for name, summary := range set {
		if len(summary.Values) == 0 {
			return Report{}, fmt.Errorf("%w: metric %q has no values", ErrMalformedSet, name)
		}
		if n < 0 {
			n = len(summary.Values)
		} else if len(summary.Values) != n {
			return Report{}, fmt.Errorf("%w: metric %q has %d values, others have %d",
				ErrMalformedSet, name, len(summary.Values), n)
		}
	}

	report := Report{Valid: true}
	for name, summary := range set {
		report.add(v.CheckPerfect(name, summary.Values)...)
		report.add(v.checkBand(name, summary.Values)...)
	}

	report.Valid = len(report.Errors) == 0
	return report, nil
}

// CheckPerfect inspects per-sample values for the perfect-metric
// fingerprint: mean at the theoretical maximum, near-zero spread, or
// all values identical. The full fingerprint over enough samples is an
// error; each partial signal is a warning.
func (v *Validator) CheckPerfect(name string, values []float64) []Issue {
	if len(values) == 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	std := 0.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	atMax := mean >= 1.0-v.cfg.PerfectTolerance
	nearZeroStd := std <= v.cfg.StdTolerance
	identical := allIdentical(values)

	var issues []Issue
	if atMax {
		issues = append(issues, Issue{
			Metric:   name,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("mean %.6f is at the theoretical maximum", mean),
		})
	}
	if nearZeroStd && len(values) > 1 {
		issues = append(issues, Issue{
			Metric:   name,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("standard deviation %.2e is near zero across %d samples", std, len(values)),
		})
	}
	if identical && len(values) > 1 {
		issues = append(issues, Issue{
			Metric:   name,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("all %d per-sample values are identical (%.6f)", len(values), values[0]),
		})
	}

	if atMax && nearZeroStd && len(values) >= v.cfg.MinSamples {
		issues = append(issues, Issue{
			Metric:   name,
			Severity: SeverityError,
			Message: fmt.Sprintf("mean exactly 1.0 with zero spread across %d samples: "+
				"this is the fingerprint of a label conversion defect, not model quality", len(values)),
		})
	}

	return issues
}

// checkBand flags metric means outside the configured plausibility band.
func (v *Validator) checkBand(name string, values []float64) []Issue {
	band, ok := v.cfg.Bands[name]
	if !ok {
		return nil
	}

	mean := stat.Mean(values, nil)
	std := 0.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}

	var issues []Issue
	if mean < band.Low {
		issues = append(issues, Issue{
			Metric:   name,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("mean %.4f is below the plausibility band [%.2f, %.2f]", mean, band.Low, band.High),
		})
	}
	if mean > band.High && std <= v.cfg.StdTolerance {
		issues = append(issues, Issue{
			Metric:   name,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("mean %.4f is above the plausibility band [%.2f, %.2f] with near-zero spread",
				mean, band.Low, band.High),
		})
	}
	return issues
}

func allIdentical(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
