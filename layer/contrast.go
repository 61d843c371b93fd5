package layer

import (
	"log"
	"math"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
)

const contrastEps = 1e-8

// ContrastNorm normalizes image contrast before the encoder.
//
// Methods:
//   - "gcn": global contrast normalization. Per image, subtract the mean
//     over all channels and pixels and divide by the standard deviation.
//   - "lcn": local contrast normalization. Subtract a gaussian-weighted
//     local mean and divide by the local standard deviation, per channel.
//   - "none": identity passthrough.
type ContrastNorm struct {
	method string
	ksize  int64
	sigma  float64
}

// NewContrastNorm creates a ContrastNorm for the given method.
func NewContrastNorm(method string) *ContrastNorm {
	switch method {
	case "gcn", "lcn", "none":
	default:
		log.Fatalf("ContrastNorm: invalid method. Expected 'gcn', 'lcn' or 'none'. Got '%v'\n", method)
	}

	return &ContrastNorm{
		method: method,
		ksize:  9,
		sigma:  2.0,
	}
}

// ForwardT implements ts.ModuleT for ContrastNorm.
// Input has shape [B, C, H, W].
func (c *ContrastNorm) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	switch c.method {
	case "gcn":
		return c.global(x)
	case "lcn":
		return c.local(x)
	default:
		return x.MustDetach(false)
	}
}

func (c *ContrastNorm) global(x *ts.Tensor) *ts.Tensor {
	dims := []int64{1, 2, 3}

	mean := x.MustMean1(dims, true, gotch.Float, false)
	centered := x.MustSub(mean, false)
	mean.MustDrop()

	sq := centered.MustMul(centered, false)
	variance := sq.MustMean1(dims, true, gotch.Float, true)
	sd := variance.MustAdd1(ts.FloatScalar(contrastEps), true).MustSqrt(true)

	res := centered.MustDiv(sd, true)
	sd.MustDrop()

	return res
}

func (c *ContrastNorm) local(x *ts.Tensor) *ts.Tensor {
	size := x.MustSize()
	channels := size[1]

	kernel := gaussianKernel(channels, c.ksize, c.sigma)
	stride := []int64{1, 1}
	pad := []int64{c.ksize / 2, c.ksize / 2}
	dilation := []int64{1, 1}

	// depthwise gaussian blur as local mean
	localMean := x.MustConv2d(kernel, ts.NewTensor(), stride, pad, dilation, channels, false)
	centered := x.MustSub(localMean, false)
	localMean.MustDrop()

	sq := centered.MustMul(centered, false)
	localVar := sq.MustConv2d(kernel, ts.NewTensor(), stride, pad, dilation, channels, true)
	sd := localVar.MustAdd1(ts.FloatScalar(contrastEps), true).MustSqrt(true)

	res := centered.MustDiv(sd, true)
	sd.MustDrop()
	kernel.MustDrop()

	return res
}

// gaussianKernel builds a normalized [channels, 1, size, size] gaussian
// window for depthwise convolution.
func gaussianKernel(channels, size int64, sigma float64) *ts.Tensor {
	vals := make([]float32, size*size)
	center := float64(size / 2)

	var sum float64
	for i := int64(0); i < size; i++ {
		for j := int64(0); j < size; j++ {
			di := float64(i) - center
			dj := float64(j) - center
			g := math.Exp(-(di*di + dj*dj) / (2 * sigma * sigma))
			vals[i*size+j] = float32(g)
			sum += g
		}
	}
	for i := range vals {
		vals[i] = float32(float64(vals[i]) / sum)
	}

	window := ts.MustOfSlice(vals).MustView([]int64{1, 1, size, size}, true)

	return window.MustRepeat([]int64{channels, 1, 1, 1}, true)
}
