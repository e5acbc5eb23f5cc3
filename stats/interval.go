package stats

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a two-sided confidence interval for a sample mean.
type Interval struct {
	Mean  float64
	Low   float64
	High  float64
	Level float64
}

// NormalInterval computes a confidence interval around the sample mean
// using the normal approximation. level is the coverage, e.g. 0.95.
func NormalInterval(sample []float64, level float64) (Interval, error) {
	if len(sample) == 0 {
		return Interval{}, ErrEmptySample
	}
	if err := checkAlpha(1 - level); err != nil {
		return Interval{}, err
	}

	mean, variance := stat.MeanVariance(sample, nil)
	if len(sample) == 1 {
		variance = 0
	}
	se := math.Sqrt(variance / float64(len(sample)))

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + level/2)
	return Interval{
		Mean:  mean,
		Low:   mean - z*se,
		High:  mean + z*se,
		Level: level,
	}, nil
}

// BootstrapInterval computes a percentile bootstrap confidence interval
// for the sample mean. The seed makes resampling reproducible.
func BootstrapInterval(sample []float64, level float64, resamples int, seed int64) (Interval, error) {
	if len(sample) == 0 {
		return Interval{}, ErrEmptySample
	}
	if err := checkAlpha(1 - level); err != nil {
		return Interval{}, err
	}
	if resamples < 1 {
		resamples = 1000
	}

	rng := rand.New(rand.NewSource(seed))
	n := len(sample)

	means := make([]float64, resamples)
	draw := make([]float64, n)
	for r := 0; r < resamples; r++ {
		for i := range draw {
			draw[i] = sample[rng.Intn(n)]
		}
		means[r] = stat.Mean(draw, nil)
	}
	sort.Float64s(means)

	tail := (1 - level) / 2
	return Interval{
		Mean:  stat.Mean(sample, nil),
		Low:   percentile(means, tail),
		High:  percentile(means, 1-tail),
		Level: level,
	}, nil
}

// percentile reads a quantile from an already sorted slice.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
