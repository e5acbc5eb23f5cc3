package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jamesainslie/go-segeval/metrics"
)

// MetricComparison is the per-metric outcome of a two-model comparison.
type MetricComparison struct {
	Metric    string
	MeanA     float64
	MeanB     float64
	Test      TTestResult
	EffectD   float64
	IntervalA Interval
	IntervalB Interval
}

// Comparison aggregates per-metric tests into a verdict. Winner is the
// name of the model with strictly higher means on a majority of the
// significant metrics, or "tie" when no majority exists. Confidence is
// the mean of 1-p over the significant metrics the winner took, 0 for
// a tie.
type Comparison struct {
	ModelA     string
	ModelB     string
	Alpha      float64
	PerMetric  []MetricComparison
	Winner     string
	Confidence float64
}

// Option configures a Comparator.
type Option func(*config)

type config struct {
	alpha  float64
	level  float64
	paired bool
}

func defaultConfig() config {
	return config{
		alpha: 0.05,
		level: 0.95,
	}
}

// WithAlpha sets the significance level (default: 0.05).
func WithAlpha(alpha float64) Option {
	return func(c *config) {
		c.alpha = alpha
	}
}

// WithConfidenceLevel sets the interval coverage (default: 0.95).
func WithConfidenceLevel(level float64) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithPaired switches from Welch's independent-samples test to the
// paired test. Use it when both models were scored on the same items in
// the same order, as shared-fold cross-validation guarantees.
func WithPaired() Option {
	return func(c *config) {
		c.paired = true
	}
}

// Comparator compares two models' metric sets.
type Comparator struct {
	cfg config
}

// NewComparator creates a Comparator.
func NewComparator(opts ...Option) *Comparator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Comparator{cfg: cfg}
}

// CompareModels tests every metric present in both sets and renders a
// verdict. Metrics appearing in only one set are skipped.
func (c *Comparator) CompareModels(nameA, nameB string, a, b metrics.Set) (Comparison, error) {
	shared := sharedMetrics(a, b)
	if len(shared) == 0 {
		return Comparison{}, fmt.Errorf("%w: no metric present in both sets", ErrEmptySample)
	}

	cmp := Comparison{
		ModelA:    nameA,
		ModelB:    nameB,
		Alpha:     c.cfg.alpha,
		PerMetric: make([]MetricComparison, 0, len(shared)),
	}

	for _, name := range shared {
		mc, err := c.compareMetric(name, a[name].Values, b[name].Values)
		if err != nil {
			return Comparison{}, fmt.Errorf("metric %q: %w", name, err)
		}
		cmp.PerMetric = append(cmp.PerMetric, mc)
	}

	cmp.Winner, cmp.Confidence = verdict(nameA, nameB, cmp.PerMetric)
	return cmp, nil
}

func (c *Comparator) compareMetric(name string, a, b []float64) (MetricComparison, error) {
	var (
		test TTestResult
		err  error
	)
	if c.cfg.paired {
		test, err = Paired(a, b, c.cfg.alpha)
	} else {
		test, err = Welch(a, b, c.cfg.alpha)
	}
	if err != nil {
		return MetricComparison{}, err
	}

	d, err := CohensD(a, b)
	if err != nil {
		return MetricComparison{}, err
	}
	ivA, err := NormalInterval(a, c.cfg.level)
	if err != nil {
		return MetricComparison{}, err
	}
	ivB, err := NormalInterval(b, c.cfg.level)
	if err != nil {
		return MetricComparison{}, err
	}

	return MetricComparison{
		Metric:    name,
		MeanA:     stat.Mean(a, nil),
		MeanB:     stat.Mean(b, nil),
		Test:      test,
		EffectD:   d,
		IntervalA: ivA,
		IntervalB: ivB,
	}, nil
}

// verdict counts significant metrics per side and picks the majority.
func verdict(nameA, nameB string, perMetric []MetricComparison) (string, float64) {
	var winsA, winsB int
	var confA, confB float64
	for _, mc := range perMetric {
		if !mc.Test.Significant {
			continue
		}
		switch {
		case mc.MeanA > mc.MeanB:
			winsA++
			confA += 1 - mc.Test.PValue
		case mc.MeanB > mc.MeanA:
			winsB++
			confB += 1 - mc.Test.PValue
		}
	}

	switch {
	case winsA > winsB:
		return nameA, confA / float64(winsA)
	case winsB > winsA:
		return nameB, confB / float64(winsB)
	default:
		return "tie", 0
	}
}

// sharedMetrics returns metric names present in both sets, sorted so
// the report order is stable.
func sharedMetrics(a, b metrics.Set) []string {
	names := make([]string, 0, len(a))
	for name := range a {
		if _, ok := b[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
