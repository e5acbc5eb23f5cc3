package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the statistic bundle for one metric across a batch.
// Mean and Std are always recomputed from Values, never maintained
// separately.
type Summary struct {
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
	Values []float64
}

// Summarize computes a Summary from per-sample values. The input slice
// is copied; order is preserved in Values.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	vals := make([]float64, len(values))
	copy(vals, values)

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s := Summary{
		Mean:   stat.Mean(vals, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
		Values: vals,
	}
	if len(vals) > 1 {
		s.Std = stat.StdDev(vals, nil)
	}
	return s
}

// median of a sorted slice; averages the middle pair for even counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Set maps metric name to its summary over a batch.
type Set map[string]Summary

// Merge concatenates the per-sample values of several sets in argument
// order and re-summarizes. Metrics absent from any input set are
// dropped, so the value counts stay consistent across the result.
func Merge(sets ...Set) Set {
	if len(sets) == 0 {
		return Set{}
	}

	merged := make(map[string][]float64)
	for name := range sets[0] {
		present := true
		for _, s := range sets[1:] {
			if _, ok := s[name]; !ok {
				present = false
				break
			}
		}
		if present {
			merged[name] = nil
		}
	}

	for _, s := range sets {
		for name := range merged {
			merged[name] = append(merged[name], s[name].Values...)
		}
	}

	out := make(Set, len(merged))
	for name, vals := range merged {
		out[name] = Summarize(vals)
	}
	return out
}

// BatchResult aggregates per-sample scores over a batch. Invalid
// samples are excluded from the Set and counted in Failed with their
// errors retained; one bad sample never poisons the aggregate.
type BatchResult struct {
	Set       Set
	Samples   int // valid samples contributing to Set
	Failed    int
	EmptyBoth int // samples where both masks were all-background
	Errors    []error
}

// ComputeBatch evaluates each sample independently and aggregates the
// survivors. An empty batch is an error; a batch where every sample
// fails returns the per-sample errors joined into one.
func ComputeBatch(samples []Sample) (BatchResult, error) {
	if len(samples) == 0 {
		return BatchResult{}, ErrNoSamples
	}

	values := map[string][]float64{
		MetricIoU:       nil,
		MetricDice:      nil,
		MetricAccuracy:  nil,
		MetricPrecision: nil,
		MetricRecall:    nil,
		MetricF1:        nil,
	}

	var res BatchResult
	for i, s := range samples {
		m, err := Compute(s)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("sample %d: %w", i, err))
			continue
		}
		if bad := firstNonFinite(m); bad != "" {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("sample %d: non-finite %s", i, bad))
			continue
		}

		if emptyBoth(s) {
			res.EmptyBoth++
		}
		res.Samples++
		values[MetricIoU] = append(values[MetricIoU], m.IoU)
		values[MetricDice] = append(values[MetricDice], m.Dice)
		values[MetricAccuracy] = append(values[MetricAccuracy], m.Accuracy)
		values[MetricPrecision] = append(values[MetricPrecision], m.Precision)
		values[MetricRecall] = append(values[MetricRecall], m.Recall)
		values[MetricF1] = append(values[MetricF1], m.F1)
	}

	if res.Samples == 0 {
		return res, fmt.Errorf("%w: all %d samples failed", ErrNoSamples, res.Failed)
	}

	res.Set = make(Set, len(values))
	for name, vals := range values {
		res.Set[name] = Summarize(vals)
	}
	return res, nil
}

func firstNonFinite(m Scores) string {
	checks := []struct {
		name string
		v    float64
	}{
		{MetricIoU, m.IoU},
		{MetricDice, m.Dice},
		{MetricAccuracy, m.Accuracy},
		{MetricPrecision, m.Precision},
		{MetricRecall, m.Recall},
		{MetricF1, m.F1},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return c.name
		}
	}
	return ""
}
