package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	segeval "github.com/jamesainslie/go-segeval"
	"github.com/jamesainslie/go-segeval/crossval"
	"github.com/jamesainslie/go-segeval/inference"
	"github.com/jamesainslie/go-segeval/internal/bench"
	"github.com/jamesainslie/go-segeval/metrics"
	"github.com/jamesainslie/go-segeval/stats"
)

func main() {
	var (
		corpusDir = flag.String("corpus", "testdata/cases", "Directory containing case files")
		threshold = flag.Float64("threshold", 0.5, "Decision threshold for probability grids")
		positive  = flag.String("positive", "foreground", "Positive class name for cases without one")
		sweep     = flag.Bool("sweep", false, "Run threshold sweep")
		sweepMin  = flag.Float64("sweep-min", 0.05, "Sweep minimum threshold")
		sweepMax  = flag.Float64("sweep-max", 0.95, "Sweep maximum threshold")
		sweepStep = flag.Float64("sweep-step", 0.05, "Sweep step size")
		compare   = flag.String("compare", "", "Second corpus directory for statistical comparison")
		alpha     = flag.Float64("alpha", 0.05, "Significance level for comparison")
		kfold     = flag.Int("kfold", 0, "Cross-validate threshold calibration with k folds")
		seed      = flag.Int64("seed", 1, "Fold partition seed")
		modelPath = flag.String("model", "", "ONNX model for inference timing")
		timing    = flag.Bool("timing", false, "Measure inference timing (requires -model)")
		imageSize = flag.Int("image-size", 256, "Square image size for inference timing")
		workers   = flag.Int("workers", 1, "Pooled sessions for inference timing")
	)
	flag.Parse()

	if *timing {
		if *modelPath == "" {
			fmt.Fprintln(os.Stderr, "error: -timing requires -model")
			os.Exit(1)
		}
		runTiming(context.Background(), *modelPath, *imageSize, *workers)
		return
	}

	cases, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}
	if len(cases) == 0 {
		fmt.Fprintf(os.Stderr, "error: no cases in %s\n", *corpusDir)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d cases from %s\n\n", len(cases), *corpusDir)

	ctx := context.Background()

	switch {
	case *compare != "":
		runComparison(ctx, cases, *compare, *threshold, *positive, *alpha)
	case *kfold > 1:
		runKFold(ctx, cases, *kfold, *seed, *sweepMin, *sweepMax, *sweepStep)
	case *sweep:
		runSweep(ctx, cases, *sweepMin, *sweepMax, *sweepStep)
	default:
		runSingle(ctx, cases, *threshold, *positive)
	}
}

func evaluate(ctx context.Context, cases []*bench.Case, threshold float64, fallback string) segeval.Result {
	// Case headers win over the flag, but the batch shares one positive
	// class; a corpus whose cases disagree is rejected up front.
	positive, err := bench.CorpusPositive(cases, fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	pairs := make([]segeval.Pair, len(cases))
	for i, c := range cases {
		pairs[i] = segeval.Pair{Pred: c.Pred, Truth: c.Truth}
	}

	eval := segeval.New(
		segeval.WithThreshold(threshold),
		segeval.WithPositiveLabel(positive),
	)
	result, err := eval.Evaluate(ctx, pairs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error evaluating: %v\n", err)
		os.Exit(1)
	}
	return result
}

func runSingle(ctx context.Context, cases []*bench.Case, threshold float64, positive string) {
	result := evaluate(ctx, cases, threshold, positive)

	fmt.Printf("Batch of %d samples (%d failed, %d empty-both)\n",
		result.Samples, result.Failed, result.EmptyBoth)
	fmt.Println(strings.Repeat("-", 58))
	fmt.Printf("%-10s %-8s %-8s %-8s %-8s %-8s\n", "Metric", "Mean", "Std", "Min", "Median", "Max")
	for _, name := range []string{
		metrics.MetricIoU, metrics.MetricDice, metrics.MetricAccuracy,
		metrics.MetricPrecision, metrics.MetricRecall, metrics.MetricF1,
	} {
		s := result.Metrics[name]
		fmt.Printf("%-10s %-8.4f %-8.4f %-8.4f %-8.4f %-8.4f\n",
			name, s.Mean, s.Std, s.Min, s.Median, s.Max)
	}

	printFindings(result)
}

func runSweep(ctx context.Context, cases []*bench.Case, min, max, step float64) {
	thresholds := bench.SweepThresholds(min, max, step)

	results, err := bench.Sweep(ctx, cases, thresholds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Threshold Sweep Results")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%-10s %-10s %-10s\n", "Thresh", "Dice", "IoU")

	// Print sorted by threshold for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Printf("%-10.3f %-10.4f %-10.4f\n", r.Threshold, r.MeanDice, r.MeanIoU)
				break
			}
		}
	}

	fmt.Println(strings.Repeat("-", 40))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: %.3f (mean dice %.4f)\n", best.Threshold, best.MeanDice)
	}
}

// runKFold estimates out-of-sample quality of threshold calibration:
// each fold picks the best threshold on its training cases and scores
// the held-out cases at that threshold.
func runKFold(ctx context.Context, cases []*bench.Case, k int, seed int64, min, max, step float64) {
	thresholds := bench.SweepThresholds(min, max, step)
	if len(thresholds) == 0 {
		fmt.Fprintf(os.Stderr, "error: empty sweep range [%g, %g] step %g\n", min, max, step)
		os.Exit(1)
	}

	train := func(ctx context.Context, trainIdx []int) (any, error) {
		subset := make([]*bench.Case, len(trainIdx))
		for i, idx := range trainIdx {
			subset[i] = cases[idx]
		}
		results, err := bench.Sweep(ctx, subset, thresholds)
		if err != nil {
			return nil, err
		}
		return results[0].Threshold, nil
	}

	eval := func(ctx context.Context, model any, testIdx []int) (metrics.Set, error) {
		threshold := model.(float64)
		subset := make([]*bench.Case, len(testIdx))
		for i, idx := range testIdx {
			subset[i] = cases[idx]
		}
		results, err := bench.Sweep(ctx, subset, []float64{threshold})
		if err != nil {
			return nil, err
		}
		return results[0].Set, nil
	}

	runner := crossval.NewRunner(crossval.WithSeed(seed))
	res, err := runner.Run(ctx, len(cases), k, train, eval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during cross-validation: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d-fold threshold calibration over %d cases (seed %d)\n", k, len(cases), seed)
	fmt.Println(strings.Repeat("-", 40))
	dice := res.Aggregated[metrics.MetricDice]
	iou := res.Aggregated[metrics.MetricIoU]
	fmt.Printf("held-out dice: mean %.4f std %.4f\n", dice.Mean, dice.Std)
	fmt.Printf("held-out iou:  mean %.4f std %.4f\n", iou.Mean, iou.Std)
}

// runComparison evaluates a second corpus holding another model's
// predictions over the same scenes and renders a statistical verdict.
func runComparison(ctx context.Context, cases []*bench.Case, otherDir string, threshold float64, positive string, alpha float64) {
	other, err := bench.LoadCorpus(otherDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading comparison corpus: %v\n", err)
		os.Exit(1)
	}

	a := evaluate(ctx, cases, threshold, positive)
	b := evaluate(ctx, other, threshold, positive)

	opts := []stats.Option{stats.WithAlpha(alpha)}
	if a.Samples == b.Samples {
		// Same scenes in the same order makes the comparison paired.
		opts = append(opts, stats.WithPaired())
	}

	cmp, err := segeval.Compare("corpus-a", "corpus-b", a, b, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error comparing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Comparison at alpha %.3f\n", alpha)
	fmt.Println(strings.Repeat("-", 66))
	fmt.Printf("%-10s %-9s %-9s %-10s %-8s %s\n", "Metric", "A mean", "B mean", "p-value", "Cohen d", "Sig")
	for _, mc := range cmp.PerMetric {
		sig := ""
		if mc.Test.Significant {
			sig = "*"
		}
		fmt.Printf("%-10s %-9.4f %-9.4f %-10.4g %-8.2f %s\n",
			mc.Metric, mc.MeanA, mc.MeanB, mc.Test.PValue, mc.EffectD, sig)
	}
	fmt.Println(strings.Repeat("-", 66))
	if cmp.Winner == "tie" {
		fmt.Println("Verdict: tie")
	} else {
		fmt.Printf("Verdict: %s (confidence %.3f)\n", cmp.Winner, cmp.Confidence)
	}
}

// runTiming measures inference latency over synthetic grayscale
// images, fanning a batch across pooled sessions. Each measured run is
// one batch of `workers` images.
func runTiming(ctx context.Context, modelPath string, size, workers int) {
	pool, err := inference.NewPool(modelPath, workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading model: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = pool.Close() }()

	image := make([]float32, size*size)
	for i := range image {
		image[i] = float32(i%251) / 251.0
	}
	batch := make([][]float32, pool.Size())
	for i := range batch {
		batch[i] = image
	}

	timing, err := metrics.MeasureInference(ctx, func(ctx context.Context) error {
		_, err := pool.PredictBatch(ctx, batch, size, size)
		return err
	}, metrics.DefaultTimingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error measuring inference: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Inference timing for %s (%dx%d, %d pooled sessions)\n",
		modelPath, size, size, pool.Size())
	fmt.Printf("  runs:        %d batches of %d\n", timing.Runs, len(batch))
	fmt.Printf("  mean:        %.2f ms/batch\n", timing.MeanMillis)
	fmt.Printf("  throughput:  %.1f images/sec\n", timing.PerSec*float64(len(batch)))
	fmt.Printf("  heap delta:  %d bytes\n", timing.HeapDelta)
}

func printFindings(result segeval.Result) {
	for _, issue := range result.Audit {
		fmt.Printf("Audit: %s\n", issue)
	}
	for _, issue := range result.Report.Warnings {
		fmt.Printf("Warning: %s\n", issue)
	}
	for _, issue := range result.Report.Errors {
		fmt.Printf("Error: %s\n", issue)
	}
	if !result.Report.Valid {
		fmt.Println("Validation: FAILED")
		os.Exit(2)
	}
}
