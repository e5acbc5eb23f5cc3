package metrics

import (
	"errors"
	"testing"
)

// fixture: 3 classes with 10 samples each.
// class 0: all 10 correct.
// class 1: 8 correct, 2 predicted as class 2.
// class 2: 7 correct, 2 predicted as class 1, 1 predicted as class 0.
func confusionFixture(t *testing.T) ConfusionMatrix {
	t.Helper()

	var truth, pred []int
	add := func(tc, pc, n int) {
		for i := 0; i < n; i++ {
			truth = append(truth, tc)
			pred = append(pred, pc)
		}
	}
	add(0, 0, 10)
	add(1, 1, 8)
	add(1, 2, 2)
	add(2, 2, 7)
	add(2, 1, 2)
	add(2, 0, 1)

	m, err := Confusion(truth, pred, 3)
	if err != nil {
		t.Fatalf("Confusion() error = %v", err)
	}
	return m
}

func TestConfusion_KnownMatrix(t *testing.T) {
	m := confusionFixture(t)

	want := [][]int{
		{10, 0, 0},
		{0, 8, 2},
		{1, 2, 7},
	}
	for i := range want {
		for j := range want[i] {
			if m.Counts[i][j] != want[i][j] {
				t.Errorf("Counts[%d][%d] = %d, want %d", i, j, m.Counts[i][j], want[i][j])
			}
		}
	}

	if want := 25.0 / 30.0; m.Accuracy() != want {
		t.Errorf("Accuracy() = %v, want %v", m.Accuracy(), want)
	}
}

func TestConfusion_Normalized(t *testing.T) {
	m := confusionFixture(t)
	norm := m.Normalized()

	if norm[0][0] != 1.0 {
		t.Errorf("norm[0][0] = %v, want 1.0", norm[0][0])
	}
	if norm[1][1] != 0.8 || norm[1][2] != 0.2 {
		t.Errorf("row 1 = %v, want [0 0.8 0.2]", norm[1])
	}
	if norm[2][2] != 0.7 {
		t.Errorf("norm[2][2] = %v, want 0.7", norm[2][2])
	}
}

func TestConfusion_ZeroSupportRowStaysZero(t *testing.T) {
	// Class 2 never appears in ground truth.
	m, err := Confusion([]int{0, 0, 1, 1}, []int{0, 1, 1, 0}, 3)
	if err != nil {
		t.Fatalf("Confusion() error = %v", err)
	}

	norm := m.Normalized()
	for j, v := range norm[2] {
		if v != 0 {
			t.Errorf("norm[2][%d] = %v, want 0 (not NaN)", j, v)
		}
	}
}

func TestConfusion_PerClass(t *testing.T) {
	m := confusionFixture(t)
	per := m.PerClass()

	if len(per) != 3 {
		t.Fatalf("len(PerClass()) = %d, want 3", len(per))
	}

	// class 0: TP=10, FP=1 (one class-2 sample), FN=0.
	if want := 10.0 / 11.0; !approxEqual(per[0].Precision, want) {
		t.Errorf("class 0 precision = %v, want %v", per[0].Precision, want)
	}
	if per[0].Recall != 1.0 {
		t.Errorf("class 0 recall = %v, want 1.0", per[0].Recall)
	}
	if per[0].Support != 10 {
		t.Errorf("class 0 support = %d, want 10", per[0].Support)
	}

	// class 1: TP=8, FP=2, FN=2.
	if want := 0.8; !approxEqual(per[1].Precision, want) {
		t.Errorf("class 1 precision = %v, want %v", per[1].Precision, want)
	}
	if want := 0.8; !approxEqual(per[1].Recall, want) {
		t.Errorf("class 1 recall = %v, want %v", per[1].Recall, want)
	}
}

func TestConfusion_MacroWeightedF1(t *testing.T) {
	m := confusionFixture(t)
	per := m.PerClass()

	var macro float64
	for _, s := range per {
		macro += s.F1
	}
	macro /= 3

	if got := m.MacroF1(); !approxEqual(got, macro) {
		t.Errorf("MacroF1() = %v, want %v", got, macro)
	}

	// Equal supports: weighted F1 equals macro F1 here.
	if got := m.WeightedF1(); !approxEqual(got, macro) {
		t.Errorf("WeightedF1() = %v, want %v", got, macro)
	}
}

func TestConfusion_Errors(t *testing.T) {
	tests := []struct {
		name       string
		truth      []int
		pred       []int
		numClasses int
		wantErr    error
	}{
		{"empty", nil, nil, 2, ErrNoSamples},
		{"length mismatch", []int{0, 1}, []int{0}, 2, ErrLengthMismatch},
		{"class out of range", []int{0, 5}, []int{0, 1}, 2, ErrClassOutOfRange},
		{"too few classes", []int{0}, []int{0}, 1, ErrClassOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Confusion(tt.truth, tt.pred, tt.numClasses)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Confusion() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
