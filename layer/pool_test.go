package layer_test

import (
	"testing"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/layer"
)

func TestMemorizedPoolUpsampleRoundTrip(t *testing.T) {
	// 4x4 single-channel image with one distinct maximum per 2x2 window
	in := ts.MustOfSlice([]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}).MustView([]int64{1, 1, 4, 4}, true)

	pool := layer.DefaultMemorizedMaxPool2D()
	up := layer.NewMemorizedUpsample2D(pool)

	pooled := pool.ForwardT(in, false)
	if got := pooled.MustSize(); got[2] != 2 || got[3] != 2 {
		t.Fatalf("want pooled spatial size 2x2, got %v", got)
	}

	wantPooled := []float64{6, 8, 14, 16}
	for i, v := range pooled.Float64Values() {
		if v != wantPooled[i] {
			t.Fatalf("pooled value %v: want %v, got %v", i, wantPooled[i], v)
		}
	}

	unpooled := up.ForwardT(pooled, false)
	if got := unpooled.MustSize(); got[2] != 4 || got[3] != 4 {
		t.Fatalf("want unpooled spatial size 4x4, got %v", got)
	}

	// maxima return to their source positions, zeros elsewhere
	want := []float64{
		0, 0, 0, 0,
		0, 6, 0, 8,
		0, 0, 0, 0,
		0, 14, 0, 16,
	}
	for i, v := range unpooled.Float64Values() {
		if v != want[i] {
			t.Fatalf("unpooled value %v: want %v, got %v", i, want[i], v)
		}
	}

	pooled.MustDrop()
	unpooled.MustDrop()
}

func TestMemorizedPoolTracksLatestForward(t *testing.T) {
	pool := layer.DefaultMemorizedMaxPool2D()

	small := ts.MustRand([]int64{1, 1, 4, 4}, gotch.Float, gotch.CPU)
	big := ts.MustRand([]int64{1, 1, 8, 8}, gotch.Float, gotch.CPU)

	_ = pool.ForwardT(small, false)
	_ = pool.ForwardT(big, false)

	_, size := pool.Switches()
	if size[0] != 8 || size[1] != 8 {
		t.Fatalf("want memorized size [8 8], got %v", size)
	}
}
