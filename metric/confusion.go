package metric

import (
	"fmt"
	"reflect"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

// ConfusionMatrix builds a square [C, C] confusion matrix from ground-truth
// and predicted label batches.
//
// Both inputs have shape [..., C] and hold one-hot vectors or class
// probabilities; C is read from the trailing dimension of pred. Each tensor
// is reduced to discrete labels with ArgMax over the class axis (lowest
// index wins on ties) and flattened, then entry (i, j) counts how often
// class j was predicted for true class i.
//
// weights is an optional per-class weight vector of length C. When given,
// each (true, pred) pair contributes weights[true] instead of 1.
func ConfusionMatrix(truth, pred *ts.Tensor, weights []float64) (*ts.Tensor, error) {
	truthSize := truth.MustSize()
	predSize := pred.MustSize()
	if !reflect.DeepEqual(truthSize, predSize) {
		return nil, fmt.Errorf("confusion matrix: shape mismatch: truth %v vs. prediction %v", truthSize, predSize)
	}
	if len(predSize) == 0 {
		return nil, fmt.Errorf("confusion matrix: expected at least 1 dimension. Got a scalar")
	}

	numClasses := predSize[len(predSize)-1]
	if numClasses < 1 {
		return nil, fmt.Errorf("confusion matrix: invalid number of classes (%v)", numClasses)
	}
	if weights != nil && int64(len(weights)) != numClasses {
		return nil, fmt.Errorf("confusion matrix: got %v weights for %v classes", len(weights), numClasses)
	}

	// One-hot/probability vectors to discrete labels.
	truthIdx := truth.MustArgmax(-1, false, false).MustView([]int64{-1}, true)
	predIdx := pred.MustArgmax(-1, false, false).MustView([]int64{-1}, true)

	// Each (true, pred) pair maps to the flat cell index true*C + pred,
	// so a single bincount fills the whole matrix.
	cell := truthIdx.MustMul1(ts.IntScalar(numClasses), false).MustAdd(predIdx, true)
	predIdx.MustDrop()

	var cellWeights *ts.Tensor
	if weights == nil {
		cellWeights = ts.NewTensor()
	} else {
		classWeights := ts.MustOfSlice(weights)
		cellWeights = classWeights.MustIndexSelect(0, truthIdx, true)
	}
	truthIdx.MustDrop()

	counts := cell.MustBincount(cellWeights, numClasses*numClasses, true)
	if weights != nil {
		cellWeights.MustDrop()
	}

	// bincount yields integers for unit weights. Cast for downstream math.
	confusion := counts.MustView([]int64{numClasses, numClasses}, true).MustTotype(gotch.Double, true)

	return confusion, nil
}
