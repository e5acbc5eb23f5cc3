package metrics

import (
	"fmt"
	"sort"
)

// ROC is a receiver operating characteristic curve. FPR and TPR are
// parallel, start at (0,0), and are monotonically non-decreasing. AUC
// is the trapezoidal integral of TPR over FPR, in [0,1].
type ROC struct {
	FPR []float64
	TPR []float64
	AUC float64
}

// ROCCurve sweeps thresholds over continuous scores against binary
// ground truth. Scores are ranked descending; ties share a threshold
// and contribute a single curve point.
func ROCCurve(scores []float64, positive []bool) (ROC, error) {
	if len(scores) == 0 {
		return ROC{}, ErrNoSamples
	}
	if len(scores) != len(positive) {
		return ROC{}, fmt.Errorf("%w: scores %d, labels %d",
			ErrLengthMismatch, len(scores), len(positive))
	}

	var totalPos, totalNeg int
	for _, p := range positive {
		if p {
			totalPos++
		} else {
			totalNeg++
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return ROC{}, fmt.Errorf("%w: %d positives, %d negatives",
			ErrSingleClass, totalPos, totalNeg)
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	roc := ROC{FPR: []float64{0}, TPR: []float64{0}}
	var tp, fp int
	var auc float64

	for i := 0; i < len(idx); {
		// Consume all samples sharing this score as one threshold step.
		threshold := scores[idx[i]]
		for i < len(idx) && scores[idx[i]] == threshold {
			if positive[idx[i]] {
				tp++
			} else {
				fp++
			}
			i++
		}

		fpr := float64(fp) / float64(totalNeg)
		tpr := float64(tp) / float64(totalPos)

		prevFPR := roc.FPR[len(roc.FPR)-1]
		prevTPR := roc.TPR[len(roc.TPR)-1]
		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2

		roc.FPR = append(roc.FPR, fpr)
		roc.TPR = append(roc.TPR, tpr)
	}

	roc.AUC = auc
	return roc, nil
}

// ROCPerClass computes a one-vs-rest curve for each class. scores[i][c]
// is the continuous confidence of sample i for class c; truth holds the
// true class index per sample.
func ROCPerClass(scores [][]float64, truth []int, numClasses int) ([]ROC, error) {
	if len(scores) == 0 {
		return nil, ErrNoSamples
	}
	if len(scores) != len(truth) {
		return nil, fmt.Errorf("%w: scores %d, truth %d",
			ErrLengthMismatch, len(scores), len(truth))
	}

	out := make([]ROC, numClasses)
	classScores := make([]float64, len(scores))
	classPositive := make([]bool, len(scores))

	for c := 0; c < numClasses; c++ {
		for i, row := range scores {
			if len(row) != numClasses {
				return nil, fmt.Errorf("%w: sample %d has %d class scores, want %d",
					ErrLengthMismatch, i, len(row), numClasses)
			}
			if truth[i] < 0 || truth[i] >= numClasses {
				return nil, fmt.Errorf("%w: truth[%d] = %d", ErrClassOutOfRange, i, truth[i])
			}
			classScores[i] = row[c]
			classPositive[i] = truth[i] == c
		}

		roc, err := ROCCurve(classScores, classPositive)
		if err != nil {
			return nil, fmt.Errorf("class %d: %w", c, err)
		}
		out[c] = roc
	}

	return out, nil
}
