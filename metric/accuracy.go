package metric

import (
	"errors"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

// ErrEmptyBatch reports a batch whose weighted prediction count is zero.
// Accuracy is undefined there (0/0), so the case surfaces as an error
// instead of propagating NaN.
var ErrEmptyBatch = errors.New("metric: no weighted predictions in batch")

// CategoricalAccuracy returns the fraction of predictions whose ArgMax class
// matches the ground-truth class, in [0, 1].
//
// truth and pred have identical shape [..., C] and hold one-hot vectors or
// class probabilities.
func CategoricalAccuracy(truth, pred *ts.Tensor) (float64, error) {
	return WeightedCategoricalAccuracy(truth, pred, nil)
}

// WeightedCategoricalAccuracy computes categorical accuracy with an optional
// per-class weight vector (length C, indexed by true class). A nil weights
// slice gives every prediction unit weight.
//
// The accuracy is the trace of the weighted confusion matrix over its grand
// sum, so any metric derivable from the confusion matrix shares this one
// computation.
func WeightedCategoricalAccuracy(truth, pred *ts.Tensor, weights []float64) (float64, error) {
	confusion, err := ConfusionMatrix(truth, pred, weights)
	if err != nil {
		return 0, err
	}

	correct := confusion.MustDiag(0, false).MustSum(gotch.Double, true).Float64Values()[0]
	total := confusion.MustSum(gotch.Double, false).Float64Values()[0]
	confusion.MustDrop()

	if total == 0 {
		return 0, ErrEmptyBatch
	}

	return correct / total, nil
}

// BuildCategoricalAccuracy binds a class weight vector and returns a
// two-argument metric callable for a training/validation loop.
func BuildCategoricalAccuracy(weights []float64) func(truth, pred *ts.Tensor) (float64, error) {
	return func(truth, pred *ts.Tensor) (float64, error) {
		return WeightedCategoricalAccuracy(truth, pred, weights)
	}
}
