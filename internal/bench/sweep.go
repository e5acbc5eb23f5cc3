package bench

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jamesainslie/go-segeval/label"
	"github.com/jamesainslie/go-segeval/metrics"
)

// ErrNoThresholds reports a sweep invoked over an empty threshold
// grid, typically a reversed range handed to SweepThresholds.
var ErrNoThresholds = errors.New("bench: no thresholds to sweep")

// SweepResult holds batch metrics for one decision threshold.
type SweepResult struct {
	Threshold float64
	MeanDice  float64
	MeanIoU   float64
	Set       metrics.Set
}

// SweepThresholds generates evenly spaced thresholds from min to max
// inclusive. Values come from the index, not accumulation, so the grid
// does not drift and the endpoint is always present. Returns nil for a
// reversed range or a non-positive step.
func SweepThresholds(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int((max-min)/step+1e-9) + 1
	thresholds := make([]float64, n)
	for i := range thresholds {
		thresholds[i] = min + float64(i)*step
	}
	return thresholds
}

// Sweep re-canonicalizes every case's probability grid at each
// threshold and scores the batch. Results come back sorted by mean
// Dice descending, so the best calibration is first.
func Sweep(ctx context.Context, cases []*Case, thresholds []float64) ([]SweepResult, error) {
	if len(thresholds) == 0 {
		return nil, ErrNoThresholds
	}

	var results []SweepResult

	for _, threshold := range thresholds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		canon := label.New(label.WithThreshold(threshold))

		samples := make([]metrics.Sample, 0, len(cases))
		for _, c := range cases {
			pred, err := canon.Binary(c.Pred, c.Positive)
			if err != nil {
				return nil, fmt.Errorf("case %s: prediction: %w", c.ID, err)
			}
			truth, err := canon.Binary(c.Truth, c.Positive)
			if err != nil {
				return nil, fmt.Errorf("case %s: ground truth: %w", c.ID, err)
			}
			samples = append(samples, metrics.Sample{Pred: pred, Truth: truth})
		}

		batch, err := metrics.ComputeBatch(samples)
		if err != nil {
			return nil, fmt.Errorf("threshold %.3f: %w", threshold, err)
		}

		results = append(results, SweepResult{
			Threshold: threshold,
			MeanDice:  batch.Set[metrics.MetricDice].Mean,
			MeanIoU:   batch.Set[metrics.MetricIoU].Mean,
			Set:       batch.Set,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].MeanDice > results[j].MeanDice
	})

	return results, nil
}
