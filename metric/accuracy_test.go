package metric_test

import (
	"math"
	"testing"

	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/metric"
)

// oneHot builds a [N, C] one-hot float tensor from discrete labels.
func oneHot(labels []int64, numClasses int64) *ts.Tensor {
	data := make([]float32, int64(len(labels))*numClasses)
	for i, l := range labels {
		data[int64(i)*numClasses+l] = 1.0
	}

	return ts.MustOfSlice(data).MustView([]int64{int64(len(labels)), numClasses}, true)
}

func TestCategoricalAccuracyPerfect(t *testing.T) {
	truth := oneHot([]int64{0, 1, 2, 1}, 3)
	pred := oneHot([]int64{0, 1, 2, 1}, 3)

	acc, err := metric.CategoricalAccuracy(truth, pred)
	if err != nil {
		t.Fatal(err)
	}
	if acc != 1.0 {
		t.Fatalf("want accuracy 1.0, got %v", acc)
	}
}

func TestCategoricalAccuracyDisagreement(t *testing.T) {
	truth := oneHot([]int64{0, 1, 2}, 3)
	pred := oneHot([]int64{1, 2, 0}, 3)

	acc, err := metric.CategoricalAccuracy(truth, pred)
	if err != nil {
		t.Fatal(err)
	}
	if acc != 0.0 {
		t.Fatalf("want accuracy 0.0, got %v", acc)
	}
}

func TestConfusionMatrixKnownPairs(t *testing.T) {
	// (0,0), (0,1), (1,1), (2,2), (2,2)
	truth := oneHot([]int64{0, 0, 1, 2, 2}, 3)
	pred := oneHot([]int64{0, 1, 1, 2, 2}, 3)

	confusion, err := metric.ConfusionMatrix(truth, pred, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := confusion.Float64Values()
	confusion.MustDrop()

	want := []float64{
		1, 1, 0,
		0, 1, 0,
		0, 0, 2,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("confusion matrix mismatch at %v: want %v, got %v", i, want[i], got[i])
		}
	}

	// diagonal 3, total 5
	acc, err := metric.CategoricalAccuracy(truth, pred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(acc-0.6) > 1e-9 {
		t.Fatalf("want accuracy 0.6, got %v", acc)
	}
}

func TestWeightedCategoricalAccuracy(t *testing.T) {
	truth := oneHot([]int64{0, 0, 1, 2, 2}, 3)
	pred := oneHot([]int64{0, 1, 1, 2, 2}, 3)

	// zero out class 0: remaining pairs (1,1), (2,2), (2,2) are all correct
	weights := []float64{0, 1, 1}
	acc, err := metric.WeightedCategoricalAccuracy(truth, pred, weights)
	if err != nil {
		t.Fatal(err)
	}
	if acc != 1.0 {
		t.Fatalf("want weighted accuracy 1.0, got %v", acc)
	}

	unweighted, err := metric.CategoricalAccuracy(truth, pred)
	if err != nil {
		t.Fatal(err)
	}
	if acc == unweighted {
		t.Fatalf("weighting had no effect: both %v", acc)
	}

	// weighted total only counts pairs with non-zero weight
	confusion, err := metric.ConfusionMatrix(truth, pred, weights)
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for _, v := range confusion.Float64Values() {
		total += v
	}
	confusion.MustDrop()
	if total != 3.0 {
		t.Fatalf("want weighted total 3, got %v", total)
	}
}

func TestCategoricalAccuracyShapeMismatch(t *testing.T) {
	truth := oneHot([]int64{0, 1, 2, 0}, 3) // [4, 3]
	pred := oneHot([]int64{0, 1, 2, 0}, 5)  // [4, 5]

	if _, err := metric.CategoricalAccuracy(truth, pred); err == nil {
		t.Fatal("want shape mismatch error, got nil")
	}
}

func TestCategoricalAccuracyBadWeights(t *testing.T) {
	truth := oneHot([]int64{0, 1}, 3)
	pred := oneHot([]int64{0, 1}, 3)

	if _, err := metric.WeightedCategoricalAccuracy(truth, pred, []float64{1, 1}); err == nil {
		t.Fatal("want weight length error, got nil")
	}
}

func TestCategoricalAccuracyZeroWeightedBatch(t *testing.T) {
	truth := oneHot([]int64{0, 0}, 2)
	pred := oneHot([]int64{0, 1}, 2)

	_, err := metric.WeightedCategoricalAccuracy(truth, pred, []float64{0, 0})
	if err != metric.ErrEmptyBatch {
		t.Fatalf("want ErrEmptyBatch, got %v", err)
	}
}

func TestCategoricalAccuracyDeterminism(t *testing.T) {
	truth := oneHot([]int64{0, 1, 2, 1, 0, 2, 2}, 3)
	pred := oneHot([]int64{0, 2, 2, 1, 1, 2, 0}, 3)

	first, err := metric.CategoricalAccuracy(truth, pred)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := metric.CategoricalAccuracy(truth, pred)
		if err != nil {
			t.Fatal(err)
		}
		if math.Float64bits(again) != math.Float64bits(first) {
			t.Fatalf("run %v: got %v, want bit-identical %v", i, again, first)
		}
	}
}

func TestCategoricalAccuracySoftPredictions(t *testing.T) {
	// softmax-like rows reduce to the same labels as one-hot rows
	truth := oneHot([]int64{0, 1, 2}, 3)
	pred := ts.MustOfSlice([]float32{
		0.7, 0.2, 0.1,
		0.1, 0.8, 0.1,
		0.3, 0.3, 0.4,
	}).MustView([]int64{3, 3}, true)

	acc, err := metric.CategoricalAccuracy(truth, pred)
	if err != nil {
		t.Fatal(err)
	}
	if acc != 1.0 {
		t.Fatalf("want accuracy 1.0, got %v", acc)
	}
}
