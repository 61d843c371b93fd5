package base

import (
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
)

// NewClassifier creates a dense classification head (nn.SequentialT): a 1x1
// convolution to numClasses channels followed by softmax over the channel
// dimension. Output has shape [B, numClasses, H, W] with per-pixel class
// probabilities.
func NewClassifier(p *nn.Path, cIn, numClasses int64) *nn.SequentialT {
	seq := nn.SeqT()
	seq.Add(Conv2d(p, cIn, numClasses, 1, 0, 1))
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustSoftmax(1, gotch.Float, false)
	}))

	return seq
}
