package metrics

import (
	"context"
	"errors"
	"testing"
)

func TestROCCurve_PerfectSeparation(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.2, 0.1}
	positive := []bool{true, true, false, false}

	roc, err := ROCCurve(scores, positive)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}
	if roc.AUC != 1.0 {
		t.Errorf("AUC = %v, want 1.0", roc.AUC)
	}
}

func TestROCCurve_ReversedScores(t *testing.T) {
	// Scores anti-correlated with labels: AUC 0.
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	positive := []bool{true, true, false, false}

	roc, err := ROCCurve(scores, positive)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}
	if roc.AUC != 0.0 {
		t.Errorf("AUC = %v, want 0.0", roc.AUC)
	}
}

func TestROCCurve_Shape(t *testing.T) {
	scores := []float64{0.9, 0.4, 0.6, 0.3, 0.7, 0.2}
	positive := []bool{true, false, true, true, false, false}

	roc, err := ROCCurve(scores, positive)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}

	if roc.FPR[0] != 0 || roc.TPR[0] != 0 {
		t.Errorf("curve starts at (%v,%v), want (0,0)", roc.FPR[0], roc.TPR[0])
	}
	for i := 1; i < len(roc.FPR); i++ {
		if roc.FPR[i] < roc.FPR[i-1] {
			t.Errorf("FPR not monotone at %d: %v < %v", i, roc.FPR[i], roc.FPR[i-1])
		}
		if roc.TPR[i] < roc.TPR[i-1] {
			t.Errorf("TPR not monotone at %d: %v < %v", i, roc.TPR[i], roc.TPR[i-1])
		}
	}

	last := len(roc.FPR) - 1
	if roc.FPR[last] != 1 || roc.TPR[last] != 1 {
		t.Errorf("curve ends at (%v,%v), want (1,1)", roc.FPR[last], roc.TPR[last])
	}
	if roc.AUC < 0 || roc.AUC > 1 {
		t.Errorf("AUC = %v, want within [0,1]", roc.AUC)
	}
}

func TestROCCurve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		positive []bool
		wantErr  error
	}{
		{"empty", nil, nil, ErrNoSamples},
		{"length mismatch", []float64{0.5}, []bool{true, false}, ErrLengthMismatch},
		{"all positive", []float64{0.5, 0.6}, []bool{true, true}, ErrSingleClass},
		{"all negative", []float64{0.5, 0.6}, []bool{false, false}, ErrSingleClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ROCCurve(tt.scores, tt.positive)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ROCCurve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestROCPerClass(t *testing.T) {
	// Three samples, two classes, cleanly separated per class.
	scores := [][]float64{
		{0.9, 0.1},
		{0.8, 0.2},
		{0.1, 0.9},
	}
	truth := []int{0, 0, 1}

	curves, err := ROCPerClass(scores, truth, 2)
	if err != nil {
		t.Fatalf("ROCPerClass() error = %v", err)
	}
	if len(curves) != 2 {
		t.Fatalf("len(curves) = %d, want 2", len(curves))
	}
	for c, roc := range curves {
		if roc.AUC != 1.0 {
			t.Errorf("class %d AUC = %v, want 1.0", c, roc.AUC)
		}
	}
}

func TestMeasureInference(t *testing.T) {
	var calls int
	fn := func(ctx context.Context) error {
		calls++
		return nil
	}

	cfg := TimingConfig{Warmup: 2, Runs: 5}
	timing, err := MeasureInference(context.Background(), fn, cfg)
	if err != nil {
		t.Fatalf("MeasureInference() error = %v", err)
	}

	if calls != cfg.Warmup+cfg.Runs {
		t.Errorf("calls = %d, want %d", calls, cfg.Warmup+cfg.Runs)
	}
	if timing.Runs != cfg.Runs {
		t.Errorf("Runs = %d, want %d", timing.Runs, cfg.Runs)
	}
	if timing.MeanMillis < 0 {
		t.Errorf("MeanMillis = %v, want >= 0", timing.MeanMillis)
	}
	if timing.PerSec <= 0 {
		t.Errorf("PerSec = %v, want > 0", timing.PerSec)
	}
}

func TestMeasureInference_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MeasureInference(ctx, func(context.Context) error { return nil }, DefaultTimingConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("MeasureInference() error = %v, want context.Canceled", err)
	}
}

func TestMeasureInference_PropagatesError(t *testing.T) {
	wantErr := errors.New("model exploded")
	_, err := MeasureInference(context.Background(), func(context.Context) error { return wantErr },
		TimingConfig{Warmup: 1, Runs: 1})
	if !errors.Is(err, wantErr) {
		t.Errorf("MeasureInference() error = %v, want wrapped %v", err, wantErr)
	}
}
