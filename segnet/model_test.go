package segnet_test

import (
	"math"
	"testing"

	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/segnet"
)

func TestSegNetForwardShape(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	net := segnet.DefaultSegNet(vs.Root(), 11)

	batchSize := int64(2)
	imageSize := int64(64)
	image := ts.MustRand([]int64{batchSize, 3, imageSize, imageSize}, gotch.Float, gotch.CPU)

	logit := net.ForwardT(image, false)
	size := logit.MustSize()
	want := []int64{batchSize, 11, imageSize, imageSize}
	for i := range want {
		if size[i] != want[i] {
			t.Fatalf("want output shape %v, got %v", want, size)
		}
	}
	logit.MustDrop()
}

func TestSegNetOutputsProbabilities(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	net := segnet.NewSegNet(vs.Root(), segnet.Config{NumClasses: 4, ContrastNorm: "gcn"})

	image := ts.MustRand([]int64{1, 3, 32, 32}, gotch.Float, gotch.CPU)
	prob := net.ForwardT(image, false)

	// softmax over the class dim sums to 1 at every pixel
	sum := prob.MustSum1([]int64{1}, false, gotch.Double, false)
	for _, v := range sum.Float64Values() {
		if math.Abs(v-1.0) > 1e-4 {
			t.Fatalf("want per-pixel probability sum 1.0, got %v", v)
		}
	}
	sum.MustDrop()
	prob.MustDrop()
}
