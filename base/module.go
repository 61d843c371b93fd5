package base

import (
	"fmt"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"
)

// Conv2d creates Conv2D module.
func Conv2d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.Conv2D {
	config := nn.DefaultConv2DConfig()
	config.Stride = []int64{stride, stride}
	config.Padding = []int64{padding, padding}

	return nn.NewConv2D(p, cIn, cOut, ksize, config)
}

// Conv2dNoBias creates Conv2D with no bias.
func Conv2dNoBias(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.Conv2D {
	config := nn.DefaultConv2DConfig()
	config.Bias = false
	config.Stride = []int64{stride, stride}
	config.Padding = []int64{padding, padding}

	return nn.NewConv2D(p, cIn, cOut, ksize, config)
}

// ConvBnRelu creates a SequentialT composing of 3x3 same-padding Conv2D
// (no bias), batch normalization and ReLU activation. Both the encoder and
// the decoder stack this block.
func ConvBnRelu(p *nn.Path, cIn, cOut int64) *nn.SequentialT {
	bnConfig := nn.DefaultBatchNormConfig()
	bnConfig.Eps = 0.001

	seq := nn.SeqT()
	seq.Add(Conv2dNoBias(p.Sub("conv"), cIn, cOut, 3, 1, 1))
	seq.Add(nn.BatchNorm2D(p.Sub("bn"), cOut, bnConfig))
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustRelu(false)
	}))

	return seq
}

// ConvBnReluStack chains ConvBnRelu blocks over the given output channels,
// starting from cIn. Sub-paths are numbered "0", "1", ...
func ConvBnReluStack(p *nn.Path, cIn int64, channels []int64) *nn.SequentialT {
	seq := nn.SeqT()
	c := cIn
	for i, cOut := range channels {
		seq.Add(ConvBnRelu(p.Sub(fmt.Sprint(i)), c, cOut))
		c = cOut
	}

	return seq
}
