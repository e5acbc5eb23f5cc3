// Package metrics computes segmentation and classification quality
// metrics from canonical masks: overlap scores, confusion matrices,
// ROC/AUC, and batch aggregates with summary statistics.
package metrics

import (
	"fmt"

	"github.com/jamesainslie/go-segeval/label"
)

// Metric names used as Set keys.
const (
	MetricIoU       = "iou"
	MetricDice      = "dice"
	MetricAccuracy  = "accuracy"
	MetricPrecision = "precision"
	MetricRecall    = "recall"
	MetricF1        = "f1"
)

// Sample is one prediction/ground-truth mask pair of identical shape.
type Sample struct {
	Pred  label.Mask
	Truth label.Mask
}

// Scores holds the per-sample binary segmentation metrics.
type Scores struct {
	IoU       float64
	Dice      float64
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Compute calculates binary metrics for a single sample.
//
// Conventions for 0/0 cases, applied explicitly rather than raised as
// errors: IoU and Dice are 1 when both masks are empty (perfect
// agreement on absence); precision is 0 with no positive predictions;
// recall is 0 with no positive ground truth; F1 is 0 when
// precision+recall is 0.
func Compute(s Sample) (Scores, error) {
	if !s.Pred.SameShape(s.Truth) || s.Pred.Len() != s.Truth.Len() {
		return Scores{}, fmt.Errorf("%w: pred %v, truth %v",
			ErrShapeMismatch, s.Pred.Shape, s.Truth.Shape)
	}
	if s.Pred.Len() == 0 {
		return Scores{}, ErrNoSamples
	}

	var tp, fp, fn, tn int
	for i, p := range s.Pred.Data {
		g := s.Truth.Data[i]
		if p < 0 || p > 1 || g < 0 || g > 1 {
			return Scores{}, fmt.Errorf("%w: cell %d holds pred=%d truth=%d",
				ErrNotBinary, i, p, g)
		}
		switch {
		case p == 1 && g == 1:
			tp++
		case p == 1 && g == 0:
			fp++
		case p == 0 && g == 1:
			fn++
		default:
			tn++
		}
	}

	total := tp + fp + fn + tn
	var m Scores

	// Empty-both convention: agreement on absence scores 1.
	if tp+fp+fn == 0 {
		m.IoU = 1
		m.Dice = 1
	} else {
		m.IoU = float64(tp) / float64(tp+fp+fn)
		m.Dice = 2 * float64(tp) / float64(2*tp+fp+fn)
	}

	m.Accuracy = float64(tp+tn) / float64(total)

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m, nil
}

// emptyBoth reports whether neither mask has a positive cell.
func emptyBoth(s Sample) bool {
	for _, v := range s.Pred.Data {
		if v != 0 {
			return false
		}
	}
	for _, v := range s.Truth.Data {
		if v != 0 {
			return false
		}
	}
	return true
}
