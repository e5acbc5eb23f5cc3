package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// TimingConfig holds inference measurement parameters.
type TimingConfig struct {
	Warmup int // calls excluded before timing starts
	Runs   int // timed calls
}

// DefaultTimingConfig returns default measurement configuration.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		Warmup: 3,
		Runs:   10,
	}
}

// Timing holds throughput characterization for one model. These are
// descriptive statistics, not correctness-critical values.
type Timing struct {
	Runs       int
	MeanMillis float64 // mean wall time per call
	PerSec     float64 // calls per second
	HeapDelta  uint64  // heap growth across the timed runs, bytes
}

// MeasureInference times fn over cfg.Runs calls after cfg.Warmup
// discarded warm-up calls. Timing is meaningless under concurrent
// contention, so callers must run this in isolation, one model at a
// time. fn errors abort the measurement.
func MeasureInference(ctx context.Context, fn func(context.Context) error, cfg TimingConfig) (Timing, error) {
	if fn == nil {
		return Timing{}, fmt.Errorf("metrics: nil inference function")
	}
	if cfg.Runs <= 0 {
		cfg.Runs = DefaultTimingConfig().Runs
	}
	if cfg.Warmup < 0 {
		cfg.Warmup = 0
	}

	for i := 0; i < cfg.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return Timing{}, err
		}
		if err := fn(ctx); err != nil {
			return Timing{}, fmt.Errorf("warm-up call %d: %w", i, err)
		}
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	for i := 0; i < cfg.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return Timing{}, err
		}
		if err := fn(ctx); err != nil {
			return Timing{}, fmt.Errorf("timed call %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)

	t := Timing{
		Runs:       cfg.Runs,
		MeanMillis: float64(elapsed.Microseconds()) / 1000 / float64(cfg.Runs),
	}
	if elapsed > 0 {
		t.PerSec = float64(cfg.Runs) / elapsed.Seconds()
	}
	if after.HeapAlloc > before.HeapAlloc {
		t.HeapDelta = after.HeapAlloc - before.HeapAlloc
	}
	return t, nil
}
