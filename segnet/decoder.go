package segnet

import (
	"log"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/base"
	"github.com/sugarme/segnet/layer"
)

// DecoderBlock upsamples through the switches of its paired encoder pool,
// then applies a stack of conv-bn-relu blocks.
type DecoderBlock struct {
	up    *layer.MemorizedUpsample2D
	convs *nn.SequentialT
}

// NewDecoderBlock creates a DecoderBlock paired with pool.
func NewDecoderBlock(p *nn.Path, pool *layer.MemorizedMaxPool2D, cIn int64, channels []int64) *DecoderBlock {
	return &DecoderBlock{
		up:    layer.NewMemorizedUpsample2D(pool),
		convs: base.ConvBnReluStack(p, cIn, channels),
	}
}

// ForwardT implements ts.ModuleT for DecoderBlock.
func (d *DecoderBlock) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	up := d.up.ForwardT(x, train)
	out := d.convs.ForwardT(up, train)
	up.MustDrop()

	return out
}

// SegNetDecoder mirrors the VGG16 encoder: five decode blocks, each
// inverting one encoder pooling stage.
type SegNetDecoder struct {
	decode5 *DecoderBlock
	decode4 *DecoderBlock
	decode3 *DecoderBlock
	decode2 *DecoderBlock
	decode1 *DecoderBlock
}

// NewSegNetDecoder creates a SegNetDecoder wired to the encoder pool
// layers, outermost first.
func NewSegNetDecoder(p *nn.Path, pools []*layer.MemorizedMaxPool2D) *SegNetDecoder {
	if len(pools) != 5 {
		log.Fatalf("SegNetDecoder: expected 5 encoder pools. Got %v\n", len(pools))
	}

	decode5 := NewDecoderBlock(p.Sub("decoder5"), pools[4], 512, []int64{512, 512, 512})
	decode4 := NewDecoderBlock(p.Sub("decoder4"), pools[3], 512, []int64{512, 512, 256})
	decode3 := NewDecoderBlock(p.Sub("decoder3"), pools[2], 256, []int64{256, 256, 128})
	decode2 := NewDecoderBlock(p.Sub("decoder2"), pools[1], 128, []int64{128, 64})
	decode1 := NewDecoderBlock(p.Sub("decoder1"), pools[0], 64, []int64{64})

	return &SegNetDecoder{
		decode5: decode5,
		decode4: decode4,
		decode3: decode3,
		decode2: decode2,
		decode1: decode1,
	}
}

// ForwardT implements ts.ModuleT for SegNetDecoder.
// Input [B, 512, H/32, W/32] gives [B, 64, H, W].
func (n *SegNetDecoder) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	z5 := n.decode5.ForwardT(x, train)
	z4 := n.decode4.ForwardT(z5, train)
	z5.MustDrop()
	z3 := n.decode3.ForwardT(z4, train)
	z4.MustDrop()
	z2 := n.decode2.ForwardT(z3, train)
	z3.MustDrop()
	z1 := n.decode1.ForwardT(z2, train)
	z2.MustDrop()

	return z1
}
