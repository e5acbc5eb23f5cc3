package segeval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jamesainslie/go-segeval/label"
	"github.com/jamesainslie/go-segeval/metrics"
	"github.com/jamesainslie/go-segeval/stats"
	"github.com/jamesainslie/go-segeval/validate"
)

// Pair is one prediction/ground-truth grid pair awaiting evaluation.
// Scores optionally carries per-cell continuous confidence values for
// ROC analysis; when present it must match the truth grid's cell count.
type Pair struct {
	Pred   label.Grid
	Truth  label.Grid
	Scores []float64
}

// Result is the outcome of evaluating a batch. Pairs that fail
// canonicalization or scoring are counted in Failed with their errors
// retained; one bad pair never poisons the aggregate.
type Result struct {
	Metrics metrics.Set
	Report  validate.Report

	// ROC is the pooled curve over every pair that supplied Scores,
	// nil when none did or the pooled cells held a single class.
	ROC *metrics.ROC

	// Audit holds encoding findings from comparing name-based against
	// positional label conversion on categorical truth grids.
	Audit []validate.Issue

	Samples   int
	Failed    int
	EmptyBoth int
	Errors    []error
}

// Evaluator runs the full pipeline: canonicalize label grids, compute
// overlap metrics, and validate the aggregate for statistical
// plausibility. It is safe for concurrent use.
type Evaluator struct {
	canon     *label.Canonicalizer
	validator *validate.Validator
	positive  string
	logger    *slog.Logger
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Evaluator{
		canon:     label.New(label.WithThreshold(cfg.threshold)),
		validator: validate.New(cfg.validator),
		positive:  cfg.positive,
		logger:    cfg.logger,
	}
}

// Evaluate scores every pair and validates the aggregate. Categorical
// grids on either side are additionally audited against the legacy
// positional conversion; disagreements land in Result.Audit, never in
// the metrics.
func (e *Evaluator) Evaluate(ctx context.Context, pairs []Pair) (Result, error) {
	if len(pairs) == 0 {
		return Result{}, ErrNoPairs
	}

	var res Result
	samples := make([]metrics.Sample, 0, len(pairs))
	var rocScores []float64
	var rocTruth []bool
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		// Both sides get the dual-conversion audit; a categorical
		// prediction grid can carry a reversed table just as easily.
		res.Audit = append(res.Audit, validate.CompareConversions(e.canon, p.Pred, e.positive)...)
		res.Audit = append(res.Audit, validate.CompareConversions(e.canon, p.Truth, e.positive)...)

		sample, err := e.canonicalize(p)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("pair %d: %w", i, err))
			continue
		}
		samples = append(samples, sample)

		if len(p.Scores) > 0 {
			if len(p.Scores) != sample.Truth.Len() {
				res.Errors = append(res.Errors, fmt.Errorf(
					"pair %d: %d scores for %d cells, skipped for ROC", i, len(p.Scores), sample.Truth.Len()))
				continue
			}
			rocScores = append(rocScores, p.Scores...)
			for _, v := range sample.Truth.Data {
				rocTruth = append(rocTruth, v == 1)
			}
		}
	}

	if len(samples) == 0 {
		return res, fmt.Errorf("%w: %d of %d rejected during canonicalization",
			ErrAllPairsFailed, res.Failed, len(pairs))
	}

	batch, err := metrics.ComputeBatch(samples)
	if err != nil {
		return res, err
	}
	res.Metrics = batch.Set
	res.Samples = batch.Samples
	res.Failed += batch.Failed
	res.EmptyBoth = batch.EmptyBoth
	res.Errors = append(res.Errors, batch.Errors...)

	if len(rocScores) > 0 {
		roc, err := metrics.ROCCurve(rocScores, rocTruth)
		if err != nil {
			// A degenerate score pool is a finding, not a batch failure.
			res.Errors = append(res.Errors, fmt.Errorf("roc: %w", err))
		} else {
			res.ROC = &roc
		}
	}

	report, err := e.validator.Validate(batch.Set)
	if err != nil {
		return res, fmt.Errorf("validating metrics: %w", err)
	}
	res.Report = report

	if !report.Valid {
		e.logger.Warn("metric validation failed",
			"errors", len(report.Errors), "warnings", len(report.Warnings))
	}
	e.logger.Debug("batch evaluated",
		"samples", res.Samples, "failed", res.Failed, "empty_both", res.EmptyBoth)

	return res, nil
}

// canonicalize converts one pair into a scorable sample.
func (e *Evaluator) canonicalize(p Pair) (metrics.Sample, error) {
	pred, err := e.canon.Binary(p.Pred, e.positive)
	if err != nil {
		return metrics.Sample{}, fmt.Errorf("prediction: %w", err)
	}
	truth, err := e.canon.Binary(p.Truth, e.positive)
	if err != nil {
		return metrics.Sample{}, fmt.Errorf("ground truth: %w", err)
	}
	return metrics.Sample{Pred: pred, Truth: truth}, nil
}

// Compare renders a statistical verdict between two evaluated models.
// It is a convenience over stats.Comparator for callers already holding
// Results.
func Compare(nameA, nameB string, a, b Result, opts ...stats.Option) (stats.Comparison, error) {
	return stats.NewComparator(opts...).CompareModels(nameA, nameB, a.Metrics, b.Metrics)
}
