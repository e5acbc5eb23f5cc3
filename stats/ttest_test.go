package stats

import (
	"errors"
	"math"
	"testing"
)

func TestWelch_ClearDifference(t *testing.T) {
	// Dice scores from a weak and a strong model. The separation is
	// large relative to the spread, so the test must flag it.
	weak := []float64{0.12, 0.15, 0.18, 0.14, 0.16}
	strong := []float64{0.88, 0.91, 0.90, 0.92, 0.89}

	res, err := Welch(strong, weak, 0.05)
	if err != nil {
		t.Fatalf("Welch() error = %v", err)
	}
	if !res.Significant {
		t.Errorf("Significant = false, want true (p = %v)", res.PValue)
	}
	if res.PValue >= 0.05 {
		t.Errorf("PValue = %v, want < 0.05", res.PValue)
	}
	if res.MeanDiff <= 0 {
		t.Errorf("MeanDiff = %v, want > 0", res.MeanDiff)
	}
	if res.Statistic <= 0 {
		t.Errorf("Statistic = %v, want > 0", res.Statistic)
	}
}

func TestWelch_Overlapping(t *testing.T) {
	a := []float64{0.80, 0.85, 0.78, 0.83, 0.81}
	b := []float64{0.81, 0.84, 0.79, 0.82, 0.80}

	res, err := Welch(a, b, 0.05)
	if err != nil {
		t.Fatalf("Welch() error = %v", err)
	}
	if res.Significant {
		t.Errorf("Significant = true for overlapping samples (p = %v)", res.PValue)
	}
}

func TestWelch_DegenerateIdentical(t *testing.T) {
	a := []float64{0.8, 0.8, 0.8, 0.8}

	res, err := Welch(a, a, 0.05)
	if err != nil {
		t.Fatalf("Welch() error = %v", err)
	}
	if res.PValue != 1 {
		t.Errorf("PValue = %v, want 1 for identical constant samples", res.PValue)
	}
	if res.Statistic != 0 {
		t.Errorf("Statistic = %v, want 0", res.Statistic)
	}
	if res.Significant {
		t.Error("Significant = true, want false")
	}
}

func TestWelch_DegenerateSeparated(t *testing.T) {
	a := []float64{0.9, 0.9, 0.9}
	b := []float64{0.4, 0.4, 0.4}

	res, err := Welch(a, b, 0.05)
	if err != nil {
		t.Fatalf("Welch() error = %v", err)
	}
	if res.PValue != 0 {
		t.Errorf("PValue = %v, want 0 for disjoint constant samples", res.PValue)
	}
	if !res.Significant {
		t.Error("Significant = false, want true")
	}
}

func TestWelch_Symmetry(t *testing.T) {
	a := []float64{0.5, 0.6, 0.7, 0.55}
	b := []float64{0.45, 0.5, 0.65, 0.6}

	ab, err := Welch(a, b, 0.05)
	if err != nil {
		t.Fatalf("Welch(a, b) error = %v", err)
	}
	ba, err := Welch(b, a, 0.05)
	if err != nil {
		t.Fatalf("Welch(b, a) error = %v", err)
	}

	if math.Abs(ab.PValue-ba.PValue) > 1e-12 {
		t.Errorf("p-values differ under argument swap: %v vs %v", ab.PValue, ba.PValue)
	}
	if math.Abs(ab.Statistic+ba.Statistic) > 1e-12 {
		t.Errorf("statistics not negated under swap: %v vs %v", ab.Statistic, ba.Statistic)
	}
}

func TestPaired(t *testing.T) {
	// Model B beats model A by a small but consistent margin on every
	// fold. Paired testing should detect this.
	a := []float64{0.80, 0.75, 0.82, 0.78, 0.81}
	b := []float64{0.83, 0.78, 0.85, 0.80, 0.84}

	res, err := Paired(b, a, 0.05)
	if err != nil {
		t.Fatalf("Paired() error = %v", err)
	}
	if !res.Significant {
		t.Errorf("Significant = false, want true (p = %v)", res.PValue)
	}
	if res.DF != 4 {
		t.Errorf("DF = %v, want 4", res.DF)
	}
	if res.MeanDiff <= 0 {
		t.Errorf("MeanDiff = %v, want > 0", res.MeanDiff)
	}
}

func TestPaired_ZeroDifferences(t *testing.T) {
	a := []float64{0.7, 0.8, 0.9}

	res, err := Paired(a, a, 0.05)
	if err != nil {
		t.Fatalf("Paired() error = %v", err)
	}
	if res.PValue != 1 || res.Significant {
		t.Errorf("got p = %v significant = %v, want p = 1 not significant",
			res.PValue, res.Significant)
	}
}

func TestPaired_LengthMismatch(t *testing.T) {
	_, err := Paired([]float64{1, 2, 3}, []float64{1, 2}, 0.05)
	if !errors.Is(err, ErrMismatchedSamples) {
		t.Errorf("error = %v, want ErrMismatchedSamples", err)
	}
}

func TestTTest_InputErrors(t *testing.T) {
	valid := []float64{0.5, 0.6, 0.7}
	tests := []struct {
		name    string
		a, b    []float64
		alpha   float64
		wantErr error
	}{
		{"empty a", nil, valid, 0.05, ErrEmptySample},
		{"empty b", valid, nil, 0.05, ErrEmptySample},
		{"single element", []float64{0.5}, valid, 0.05, ErrSampleTooSmall},
		{"alpha zero", valid, valid, 0, ErrInvalidAlpha},
		{"alpha one", valid, valid, 1, ErrInvalidAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Welch(tt.a, tt.b, tt.alpha); !errors.Is(err, tt.wantErr) {
				t.Errorf("Welch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCohensD(t *testing.T) {
	a := []float64{0.9, 0.91, 0.89, 0.9}
	b := []float64{0.5, 0.51, 0.49, 0.5}

	d, err := CohensD(a, b)
	if err != nil {
		t.Fatalf("CohensD() error = %v", err)
	}
	if d < 2 {
		t.Errorf("CohensD = %v, want a large effect (> 2)", d)
	}

	// Magnitude, not direction: swapping arguments changes nothing.
	rev, err := CohensD(b, a)
	if err != nil {
		t.Fatalf("CohensD() error = %v", err)
	}
	if math.Abs(d-rev) > 1e-12 {
		t.Errorf("CohensD not symmetric: %v vs %v", d, rev)
	}
}

func TestCohensD_Degenerate(t *testing.T) {
	constant := []float64{0.8, 0.8, 0.8}

	d, err := CohensD(constant, constant)
	if err != nil {
		t.Fatalf("CohensD() error = %v", err)
	}
	if d != 0 {
		t.Errorf("CohensD = %v for identical constants, want 0", d)
	}

	other := []float64{0.3, 0.3, 0.3}
	d, err = CohensD(constant, other)
	if err != nil {
		t.Fatalf("CohensD() error = %v", err)
	}
	if !math.IsInf(d, 1) {
		t.Errorf("CohensD = %v for separated constants, want +Inf", d)
	}
}
