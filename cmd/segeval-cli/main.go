package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	segeval "github.com/jamesainslie/go-segeval"
	"github.com/jamesainslie/go-segeval/internal/bench"
	"github.com/jamesainslie/go-segeval/metrics"
)

func main() {
	casePath := flag.String("case", "", "Path to a case file")
	threshold := flag.Float64("threshold", 0.5, "Decision threshold for probability grids")
	positive := flag.String("positive", "", "Positive class name (default: from the case header)")

	flag.Parse()

	if *casePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: segeval-cli -case FILE [OPTIONS]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	c, err := bench.LoadCase(*casePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading case: %v\n", err)
		os.Exit(1)
	}

	pos := c.Positive
	if *positive != "" {
		pos = *positive
	}

	eval := segeval.New(
		segeval.WithThreshold(*threshold),
		segeval.WithPositiveLabel(pos),
	)

	result, err := eval.Evaluate(context.Background(), []segeval.Pair{{Pred: c.Pred, Truth: c.Truth}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Case: %s (positive=%q, threshold=%.3f)\n", c.ID, pos, *threshold)
	for _, name := range []string{
		metrics.MetricIoU, metrics.MetricDice, metrics.MetricAccuracy,
		metrics.MetricPrecision, metrics.MetricRecall, metrics.MetricF1,
	} {
		fmt.Printf("  %-10s %.4f\n", name, result.Metrics[name].Mean)
	}

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
		os.Exit(2)
	}
}
