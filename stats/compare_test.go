package stats

import (
	"errors"
	"testing"

	"github.com/jamesainslie/go-segeval/metrics"
)

func setOf(t *testing.T, values map[string][]float64) metrics.Set {
	t.Helper()
	set := make(metrics.Set, len(values))
	for name, vals := range values {
		set[name] = metrics.Summarize(vals)
	}
	return set
}

func TestCompareModels_ClearWinner(t *testing.T) {
	strong := setOf(t, map[string][]float64{
		metrics.MetricIoU:  {0.85, 0.88, 0.86, 0.87, 0.84},
		metrics.MetricDice: {0.91, 0.93, 0.92, 0.90, 0.92},
	})
	weak := setOf(t, map[string][]float64{
		metrics.MetricIoU:  {0.40, 0.42, 0.38, 0.41, 0.39},
		metrics.MetricDice: {0.55, 0.57, 0.54, 0.56, 0.53},
	})

	c := NewComparator()
	cmp, err := c.CompareModels("attention-unet", "baseline", strong, weak)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}

	if cmp.Winner != "attention-unet" {
		t.Errorf("Winner = %q, want attention-unet", cmp.Winner)
	}
	if cmp.Confidence <= 0.95 {
		t.Errorf("Confidence = %v, want > 0.95", cmp.Confidence)
	}
	if len(cmp.PerMetric) != 2 {
		t.Fatalf("PerMetric = %d entries, want 2", len(cmp.PerMetric))
	}
	for _, mc := range cmp.PerMetric {
		if !mc.Test.Significant {
			t.Errorf("%s: not significant despite clear separation", mc.Metric)
		}
		if mc.EffectD < 0.8 {
			t.Errorf("%s: EffectD = %v, want a large effect", mc.Metric, mc.EffectD)
		}
	}
}

func TestCompareModels_Tie(t *testing.T) {
	a := setOf(t, map[string][]float64{
		metrics.MetricIoU: {0.80, 0.82, 0.79, 0.81, 0.80},
	})
	b := setOf(t, map[string][]float64{
		metrics.MetricIoU: {0.81, 0.80, 0.80, 0.82, 0.79},
	})

	cmp, err := NewComparator().CompareModels("a", "b", a, b)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}

	if cmp.Winner != "tie" {
		t.Errorf("Winner = %q, want tie", cmp.Winner)
	}
	if cmp.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 for a tie", cmp.Confidence)
	}
}

func TestCompareModels_IdenticalSamples(t *testing.T) {
	same := setOf(t, map[string][]float64{
		metrics.MetricDice: {0.8, 0.8, 0.8, 0.8},
	})

	cmp, err := NewComparator().CompareModels("a", "b", same, same)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}
	if cmp.Winner != "tie" {
		t.Errorf("Winner = %q, want tie", cmp.Winner)
	}
	if got := cmp.PerMetric[0].Test.PValue; got != 1 {
		t.Errorf("PValue = %v for identical samples, want 1", got)
	}
}

func TestCompareModels_Paired(t *testing.T) {
	// Small consistent per-fold edge. Welch misses it; pairing finds it.
	a := setOf(t, map[string][]float64{
		metrics.MetricF1: {0.70, 0.81, 0.63, 0.77, 0.74},
	})
	b := setOf(t, map[string][]float64{
		metrics.MetricF1: {0.72, 0.83, 0.65, 0.79, 0.76},
	})

	welch, err := NewComparator().CompareModels("a", "b", a, b)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}
	if welch.Winner != "tie" {
		t.Errorf("unpaired Winner = %q, want tie", welch.Winner)
	}

	paired, err := NewComparator(WithPaired()).CompareModels("a", "b", a, b)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}
	if paired.Winner != "b" {
		t.Errorf("paired Winner = %q, want b", paired.Winner)
	}
}

func TestCompareModels_SkipsUnsharedMetrics(t *testing.T) {
	a := setOf(t, map[string][]float64{
		metrics.MetricIoU:      {0.8, 0.82, 0.81},
		metrics.MetricAccuracy: {0.9, 0.91, 0.92},
	})
	b := setOf(t, map[string][]float64{
		metrics.MetricIoU: {0.5, 0.52, 0.51},
	})

	cmp, err := NewComparator().CompareModels("a", "b", a, b)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}
	if len(cmp.PerMetric) != 1 || cmp.PerMetric[0].Metric != metrics.MetricIoU {
		t.Errorf("PerMetric = %+v, want only iou", cmp.PerMetric)
	}
}

func TestCompareModels_NoSharedMetrics(t *testing.T) {
	a := setOf(t, map[string][]float64{metrics.MetricIoU: {0.8, 0.9}})
	b := setOf(t, map[string][]float64{metrics.MetricDice: {0.8, 0.9}})

	if _, err := NewComparator().CompareModels("a", "b", a, b); !errors.Is(err, ErrEmptySample) {
		t.Errorf("CompareModels() error = %v, want ErrEmptySample", err)
	}
}

func TestCompareModels_CustomAlpha(t *testing.T) {
	a := setOf(t, map[string][]float64{
		metrics.MetricIoU: {0.70, 0.72, 0.71, 0.73, 0.69},
	})
	b := setOf(t, map[string][]float64{
		metrics.MetricIoU: {0.66, 0.68, 0.67, 0.69, 0.65},
	})

	strict, err := NewComparator(WithAlpha(0.0001)).CompareModels("a", "b", a, b)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}
	lenient, err := NewComparator(WithAlpha(0.1)).CompareModels("a", "b", a, b)
	if err != nil {
		t.Fatalf("CompareModels() error = %v", err)
	}

	if strict.Winner != "tie" {
		t.Errorf("strict alpha Winner = %q, want tie", strict.Winner)
	}
	if lenient.Winner != "a" {
		t.Errorf("lenient alpha Winner = %q, want a", lenient.Winner)
	}
}
