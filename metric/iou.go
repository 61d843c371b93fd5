package metric

import (
	"fmt"
	"math"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

// PerClassIoU returns the intersection-over-union of each class, derived
// from the same confusion matrix as the accuracy metrics:
//
//	iou(c) = confusion[c][c] / (rowSum(c) + colSum(c) - confusion[c][c])
//
// A class absent from both truth and prediction has an empty union; its
// entry is NaN and MeanIoU skips it.
func PerClassIoU(truth, pred *ts.Tensor) ([]float64, error) {
	confusion, err := ConfusionMatrix(truth, pred, nil)
	if err != nil {
		return nil, err
	}

	intersect := confusion.MustDiag(0, false)
	rowSum := confusion.MustSum1([]int64{1}, false, gotch.Double, false)
	colSum := confusion.MustSum1([]int64{0}, false, gotch.Double, true)
	union := rowSum.MustAdd(colSum, true).MustSub(intersect, true)
	colSum.MustDrop()

	inter := intersect.Float64Values()
	un := union.Float64Values()
	intersect.MustDrop()
	union.MustDrop()

	ious := make([]float64, len(inter))
	for c := range inter {
		if un[c] == 0 {
			ious[c] = math.NaN()
			continue
		}
		ious[c] = inter[c] / un[c]
	}

	return ious, nil
}

// IoU returns the intersection-over-union of a single class label.
func IoU(truth, pred *ts.Tensor, class int64) (float64, error) {
	ious, err := PerClassIoU(truth, pred)
	if err != nil {
		return 0, err
	}
	if class < 0 || class >= int64(len(ious)) {
		return 0, fmt.Errorf("iou: class %v out of range [0, %v)", class, len(ious))
	}

	return ious[class], nil
}

// MeanIoU averages per-class IoU over the classes present in either truth
// or prediction.
func MeanIoU(truth, pred *ts.Tensor) (float64, error) {
	ious, err := PerClassIoU(truth, pred)
	if err != nil {
		return 0, err
	}

	var sum float64
	var n int
	for _, iou := range ious {
		if math.IsNaN(iou) {
			continue
		}
		sum += iou
		n++
	}
	if n == 0 {
		return 0, ErrEmptyBatch
	}

	return sum / float64(n), nil
}
