package encoder

import (
	"fmt"
	"path/filepath"

	"github.com/sugarme/gotch/nn"
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/base"
	"github.com/sugarme/segnet/layer"
)

// "features" indices of the conv layers in the torchvision VGG16-BN
// checkpoint, grouped per block. Batch norms sit at idx+1. Naming variables
// after these indices lets VarStore.LoadPartial line up pretrained weights.
var vggConvIndices = [][]int{
	{0, 3},
	{7, 10},
	{14, 17, 20},
	{24, 27, 30},
	{34, 37, 40},
}

var vggChannels = [][]int64{
	{64, 64},
	{128, 128},
	{256, 256, 256},
	{512, 512, 512},
	{512, 512, 512},
}

type vggBlock struct {
	convs *nn.SequentialT
	pool  *layer.MemorizedMaxPool2D
}

func (b *vggBlock) forward(x *ts.Tensor, train bool) *ts.Tensor {
	conved := b.convs.ForwardT(x, train)
	pooled := b.pool.ForwardT(conved, train)
	conved.MustDrop()

	return pooled
}

// VGG16Encoder is the VGG16 convolutional stack with batch normalization,
// each block closed by a MemorizedMaxPool2D.
// Ref. https://arxiv.org/abs/1409.1556
type VGG16Encoder struct {
	blocks []*vggBlock
}

// NewVGG16Encoder creates a VGG16Encoder.
func NewVGG16Encoder(p *nn.Path) *VGG16Encoder {
	features := p.Sub("features")

	cIn := int64(3)
	var blocks []*vggBlock
	for b, indices := range vggConvIndices {
		seq := nn.SeqT()
		for k, idx := range indices {
			cOut := vggChannels[b][k]
			seq.Add(base.Conv2d(features.Sub(fmt.Sprint(idx)), cIn, cOut, 3, 1, 1))
			seq.Add(nn.BatchNorm2D(features.Sub(fmt.Sprint(idx+1)), cOut, nn.DefaultBatchNormConfig()))
			seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
				return xs.MustRelu(false)
			}))
			cIn = cOut
		}

		blocks = append(blocks, &vggBlock{
			convs: seq,
			pool:  layer.DefaultMemorizedMaxPool2D(),
		})
	}

	return &VGG16Encoder{blocks: blocks}
}

// ForwardT implements ts.ModuleT for VGG16Encoder.
// Input [B, 3, H, W] gives [B, 512, H/32, W/32].
func (e *VGG16Encoder) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	out := e.blocks[0].forward(x, train)
	for _, b := range e.blocks[1:] {
		next := b.forward(out, train)
		out.MustDrop()
		out = next
	}

	return out
}

// Pools implements Encoder interface for VGG16Encoder.
func (e *VGG16Encoder) Pools() []*layer.MemorizedMaxPool2D {
	pools := make([]*layer.MemorizedMaxPool2D, len(e.blocks))
	for i, b := range e.blocks {
		pools[i] = b.pool
	}

	return pools
}

// TransferVGG16 loads pretrained VGG16-BN weights ('.ot' file) into the
// matching encoder variables of vs. Variables the checkpoint does not cover
// (decoder, classifier) keep their initialization.
func TransferVGG16(vs *nn.VarStore, fpath string) error {
	modelPath, err := filepath.Abs(fpath)
	if err != nil {
		return err
	}

	_, err = vs.LoadPartial(modelPath)

	return err
}
