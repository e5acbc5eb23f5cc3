package metrics

import (
	"fmt"

	"github.com/jamesainslie/go-segeval/label"
)

// ConfusionMatrix counts ground-truth class i predicted as class j in
// Counts[i][j]. Rows correspond to true classes.
type ConfusionMatrix struct {
	Classes int
	Counts  [][]int
}

// Confusion builds a confusion matrix from parallel label slices.
func Confusion(truth, pred []int, numClasses int) (ConfusionMatrix, error) {
	if len(truth) == 0 {
		return ConfusionMatrix{}, ErrNoSamples
	}
	if len(truth) != len(pred) {
		return ConfusionMatrix{}, fmt.Errorf("%w: truth %d, pred %d",
			ErrLengthMismatch, len(truth), len(pred))
	}
	if numClasses < 2 {
		return ConfusionMatrix{}, fmt.Errorf("%w: need at least 2 classes, have %d",
			ErrClassOutOfRange, numClasses)
	}

	counts := make([][]int, numClasses)
	for i := range counts {
		counts[i] = make([]int, numClasses)
	}

	for i := range truth {
		t, p := truth[i], pred[i]
		if t < 0 || t >= numClasses {
			return ConfusionMatrix{}, fmt.Errorf("%w: truth[%d] = %d", ErrClassOutOfRange, i, t)
		}
		if p < 0 || p >= numClasses {
			return ConfusionMatrix{}, fmt.Errorf("%w: pred[%d] = %d", ErrClassOutOfRange, i, p)
		}
		counts[t][p]++
	}

	return ConfusionMatrix{Classes: numClasses, Counts: counts}, nil
}

// ConfusionFromMasks builds a confusion matrix from two multi-class
// masks of identical shape.
func ConfusionFromMasks(truth, pred label.Mask, numClasses int) (ConfusionMatrix, error) {
	if !truth.SameShape(pred) || truth.Len() != pred.Len() {
		return ConfusionMatrix{}, fmt.Errorf("%w: pred %v, truth %v",
			ErrShapeMismatch, pred.Shape, truth.Shape)
	}
	return Confusion(truth.Data, pred.Data, numClasses)
}

// Total returns the number of counted samples.
func (m ConfusionMatrix) Total() int {
	var n int
	for _, row := range m.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// Accuracy returns the fraction of diagonal (correct) samples.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	var correct int
	for i := range m.Counts {
		correct += m.Counts[i][i]
	}
	return float64(correct) / float64(total)
}

// Normalized returns the matrix with each row divided by its row sum.
// Rows with zero support remain zero rather than NaN.
func (m ConfusionMatrix) Normalized() [][]float64 {
	out := make([][]float64, m.Classes)
	for i, row := range m.Counts {
		out[i] = make([]float64, m.Classes)
		var sum int
		for _, c := range row {
			sum += c
		}
		if sum == 0 {
			continue
		}
		for j, c := range row {
			out[i][j] = float64(c) / float64(sum)
		}
	}
	return out
}

// ClassScores holds per-class metrics derived from a confusion matrix.
type ClassScores struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// PerClass derives precision, recall, F1, and support for each class.
// Zero-denominator cases follow the same conventions as Compute.
func (m ConfusionMatrix) PerClass() []ClassScores {
	out := make([]ClassScores, m.Classes)
	for i := 0; i < m.Classes; i++ {
		tp := m.Counts[i][i]
		var fp, fn int
		for j := 0; j < m.Classes; j++ {
			if j == i {
				continue
			}
			fp += m.Counts[j][i]
			fn += m.Counts[i][j]
		}

		s := ClassScores{Support: tp + fn}
		if tp+fp > 0 {
			s.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			s.Recall = float64(tp) / float64(tp+fn)
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		out[i] = s
	}
	return out
}

// MacroF1 averages per-class F1 without weighting.
func (m ConfusionMatrix) MacroF1() float64 {
	per := m.PerClass()
	if len(per) == 0 {
		return 0
	}
	var sum float64
	for _, s := range per {
		sum += s.F1
	}
	return sum / float64(len(per))
}

// WeightedF1 averages per-class F1 weighted by class support.
func (m ConfusionMatrix) WeightedF1() float64 {
	per := m.PerClass()
	var sum float64
	var total int
	for _, s := range per {
		sum += s.F1 * float64(s.Support)
		total += s.Support
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}
