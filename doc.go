// Package segeval evaluates binary segmentation models: canonical label
// conversion, overlap metrics, plausibility validation, and statistical
// comparison between models.
//
// # Quick Start
//
//	eval := segeval.New(segeval.WithPositiveLabel("foreground"))
//
//	result, err := eval.Evaluate(ctx, pairs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Report.Valid {
//	    for _, issue := range result.Report.Errors {
//	        fmt.Println(issue)
//	    }
//	}
//	fmt.Printf("mean IoU: %.4f\n", result.Metrics[metrics.MetricIoU].Mean)
//
// # Thread Safety
//
// Evaluator is safe for concurrent use. Each Evaluate call works on its
// own state; the canonicalizer and validator it holds are immutable
// after construction.
//
// # Subpackages
//
// The root package is a facade. The underlying stages are importable
// directly: label (grid canonicalization), metrics (IoU, Dice, confusion
// matrices, ROC), validate (perfect-metric and encoding audits),
// crossval (k-fold orchestration), and stats (t-tests, effect sizes,
// confidence intervals, model verdicts).
package segeval
