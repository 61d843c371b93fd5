package metric

import (
	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

// clamp for log() on softmax output
const epsilon = 1e-7

// CrossEntropyLoss is the mean categorical cross-entropy between one-hot
// truth and predicted class probabilities, both of shape [..., C].
// It returns a scalar tensor for opt.BackwardStep.
func CrossEntropyLoss(truth, pred *ts.Tensor) *ts.Tensor {
	return crossEntropy(truth, pred, nil)
}

// BuildWeightedCrossEntropy binds a per-class weight vector (length C) and
// returns a two-argument loss callable:
//
//	loss = mean over samples of -sum_c w[c] * truth[c] * log(pred[c])
//
// Class weighting compensates label imbalance, e.g. weights from median
// frequency balancing.
func BuildWeightedCrossEntropy(weights []float64) func(truth, pred *ts.Tensor) *ts.Tensor {
	return func(truth, pred *ts.Tensor) *ts.Tensor {
		return crossEntropy(truth, pred, weights)
	}
}

func crossEntropy(truth, pred *ts.Tensor, weights []float64) *ts.Tensor {
	clipped := pred.MustClip(ts.FloatScalar(epsilon), ts.FloatScalar(1.0-epsilon), false)
	logProb := clipped.MustLog(true)

	ce := truth.MustMul(logProb, false)
	logProb.MustDrop()

	if weights != nil {
		// broadcast over the trailing class dimension
		w := ts.MustOfSlice(weights)
		weighted := ce.MustMul(w, true)
		w.MustDrop()
		ce = weighted
	}

	perSample := ce.MustSum1([]int64{-1}, false, gotch.Double, true)
	loss := perSample.MustMean(gotch.Double, true).MustMul1(ts.FloatScalar(-1), true)

	return loss
}
