package segnet

import (
	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/base"
	"github.com/sugarme/segnet/encoder"
	"github.com/sugarme/segnet/layer"
)

// Config holds SegNet build options.
type Config struct {
	NumClasses   int64
	ContrastNorm string // "gcn", "lcn" or "none"
}

// DefaultConfig returns the build options of the reference architecture:
// local contrast normalization on inputs.
func DefaultConfig(numClasses int64) Config {
	return Config{
		NumClasses:   numClasses,
		ContrastNorm: "lcn",
	}
}

// SegNet is an encoder/decoder model for semantic segmentation. The decoder
// upsamples through the memorized pooling switches of the VGG16 encoder
// instead of learning transposed convolutions.
// Ref. https://arxiv.org/abs/1511.00561
type SegNet struct {
	norm       *layer.ContrastNorm
	encoder    encoder.Encoder
	decoder    *SegNetDecoder
	classifier *nn.SequentialT
}

// NewSegNet creates a SegNet.
func NewSegNet(p *nn.Path, config Config) *SegNet {
	enc := encoder.NewVGG16Encoder(p)
	dec := NewSegNetDecoder(p.Sub("decoder"), enc.Pools())
	head := base.NewClassifier(p.Sub("classifier"), 64, config.NumClasses)

	return &SegNet{
		norm:       layer.NewContrastNorm(config.ContrastNorm),
		encoder:    enc,
		decoder:    dec,
		classifier: head,
	}
}

// DefaultSegNet creates a SegNet with default build options.
func DefaultSegNet(p *nn.Path, numClasses int64) *SegNet {
	return NewSegNet(p, DefaultConfig(numClasses))
}

// ForwardT implements ts.ModuleT for SegNet.
// Input is an 8-bit image batch [B, 3, H, W] with H, W divisible by 32;
// output is per-pixel class probabilities [B, numClasses, H, W].
func (n *SegNet) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	// assume 8-bit inputs, scale to [0, 1]
	scaled := x.MustDiv1(ts.FloatScalar(255.0), false)
	normed := n.norm.ForwardT(scaled, train)
	scaled.MustDrop()

	feat := n.encoder.ForwardT(normed, train)
	normed.MustDrop()

	dec := n.decoder.ForwardT(feat, train)
	feat.MustDrop()

	out := n.classifier.ForwardT(dec, train)
	dec.MustDrop()

	return out
}
