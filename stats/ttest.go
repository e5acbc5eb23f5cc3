// Package stats compares metric samples from two models: t-tests,
// effect sizes, confidence intervals, and an aggregate verdict across
// metrics.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is the outcome of a two-sample t-test at a fixed
// significance level.
type TTestResult struct {
	Statistic   float64
	DF          float64
	PValue      float64
	Alpha       float64
	Significant bool

	// MeanA - MeanB, the direction of the difference.
	MeanDiff float64
}

// Welch runs Welch's unequal-variance t-test on two independent
// samples. Degrees of freedom follow the Welch-Satterthwaite
// approximation.
func Welch(a, b []float64, alpha float64) (TTestResult, error) {
	if err := checkSamples(a, b, 2, false); err != nil {
		return TTestResult{}, err
	}
	if err := checkAlpha(alpha); err != nil {
		return TTestResult{}, err
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	diff := meanA - meanB
	se2 := varA/na + varB/nb

	if se2 == 0 {
		// Both samples are constant. With equal means there is no
		// evidence of a difference; with unequal means the difference
		// is exact.
		return degenerate(diff, na+nb-2, alpha), nil
	}

	t := diff / math.Sqrt(se2)
	df := se2 * se2 / (sq(varA/na)/(na-1) + sq(varB/nb)/(nb-1))
	p := twoSidedP(t, df)

	return TTestResult{
		Statistic:   t,
		DF:          df,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		MeanDiff:    diff,
	}, nil
}

// Paired runs a paired t-test on per-item differences a[i]-b[i]. Both
// samples must observe the same items in the same order, as fold-shared
// cross-validation produces.
func Paired(a, b []float64, alpha float64) (TTestResult, error) {
	if err := checkSamples(a, b, 2, true); err != nil {
		return TTestResult{}, err
	}
	if err := checkAlpha(alpha); err != nil {
		return TTestResult{}, err
	}

	diffs := make([]float64, len(a))
	for i := range a {
		diffs[i] = a[i] - b[i]
	}

	meanD, varD := stat.MeanVariance(diffs, nil)
	n := float64(len(diffs))
	df := n - 1

	if varD == 0 {
		return degenerate(meanD, df, alpha), nil
	}

	t := meanD / math.Sqrt(varD/n)
	p := twoSidedP(t, df)

	return TTestResult{
		Statistic:   t,
		DF:          df,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		MeanDiff:    meanD,
	}, nil
}

// CohensD returns the magnitude of the standardized mean difference
// between two samples, using the pooled standard deviation. Zero pooled
// variance with equal means yields 0; with unequal means, +Inf.
func CohensD(a, b []float64) (float64, error) {
	if err := checkSamples(a, b, 2, false); err != nil {
		return 0, err
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	pooled := ((na-1)*varA + (nb-1)*varB) / (na + nb - 2)
	diff := math.Abs(meanA - meanB)
	if pooled == 0 {
		if diff == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return diff / math.Sqrt(pooled), nil
}

// degenerate handles the zero-variance case without dividing by zero.
func degenerate(diff, df, alpha float64) TTestResult {
	res := TTestResult{DF: df, Alpha: alpha, MeanDiff: diff}
	if diff == 0 {
		res.Statistic = 0
		res.PValue = 1
		return res
	}
	res.Statistic = math.Copysign(math.Inf(1), diff)
	res.PValue = 0
	res.Significant = true
	return res
}

// twoSidedP converts a t statistic to a two-sided p-value.
func twoSidedP(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

func checkSamples(a, b []float64, minLen int, paired bool) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmptySample
	}
	if paired && len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d", ErrMismatchedSamples, len(a), len(b))
	}
	if len(a) < minLen || len(b) < minLen {
		return fmt.Errorf("%w: need at least %d observations per sample", ErrSampleTooSmall, minLen)
	}
	return nil
}

func checkAlpha(alpha float64) error {
	if alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidAlpha, alpha)
	}
	return nil
}

func sq(x float64) float64 { return x * x }
