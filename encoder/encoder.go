package encoder

import (
	ts "github.com/sugarme/gotch/tensor"

	"github.com/sugarme/segnet/layer"
)

// Encoder is the encoder interface for a segmentation model. It produces a
// downsampled feature map and exposes its memorized pooling layers,
// outermost first, so a decoder can invert them.
type Encoder interface {
	ForwardT(x *ts.Tensor, train bool) *ts.Tensor
	Pools() []*layer.MemorizedMaxPool2D
}
