package layer

import (
	"log"

	ts "github.com/sugarme/gotch/tensor"
)

// MemorizedMaxPool2D is a max-pooling module that remembers the pooling
// switch indices and pre-pool spatial size of its latest forward pass, so a
// paired MemorizedUpsample2D can place values back at the positions the
// maxima came from.
// Ref. https://arxiv.org/abs/1511.00561
type MemorizedMaxPool2D struct {
	kernel []int64
	stride []int64

	indices *ts.Tensor
	inSize  []int64 // [H, W] before pooling
}

// NewMemorizedMaxPool2D creates a MemorizedMaxPool2D with the given kernel
// size and stride.
func NewMemorizedMaxPool2D(kernel, stride []int64) *MemorizedMaxPool2D {
	return &MemorizedMaxPool2D{
		kernel: kernel,
		stride: stride,
	}
}

// DefaultMemorizedMaxPool2D creates the 2x2, stride-2 pooling used by
// SegNet encoder blocks.
func DefaultMemorizedMaxPool2D() *MemorizedMaxPool2D {
	return NewMemorizedMaxPool2D([]int64{2, 2}, []int64{2, 2})
}

// ForwardT implements ts.ModuleT for MemorizedMaxPool2D.
// Input has shape [B, C, H, W].
func (m *MemorizedMaxPool2D) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	size := x.MustSize()
	if len(size) != 4 {
		log.Fatalf("MemorizedMaxPool2D: expected 4-D input [B C H W]. Got %v\n", size)
	}

	pooled, indices := x.MustMaxPool2dWithIndices(m.kernel, m.stride, []int64{0, 0}, []int64{1, 1}, false, false)

	if m.indices != nil {
		m.indices.MustDrop()
	}
	m.indices = indices
	m.inSize = []int64{size[2], size[3]}

	return pooled
}

// Switches returns the indices and pre-pool size captured by the latest
// forward pass.
func (m *MemorizedMaxPool2D) Switches() (*ts.Tensor, []int64) {
	if m.indices == nil {
		log.Fatalf("MemorizedMaxPool2D: no memorized indices. Pool layer must forward before its upsampling pair.\n")
	}

	return m.indices, m.inSize
}

// MemorizedUpsample2D inverts its paired MemorizedMaxPool2D: pooled values
// are scattered back to the positions the maxima were taken from and every
// other position is zero.
type MemorizedUpsample2D struct {
	pool *MemorizedMaxPool2D
}

// NewMemorizedUpsample2D creates a MemorizedUpsample2D bound to pool.
func NewMemorizedUpsample2D(pool *MemorizedMaxPool2D) *MemorizedUpsample2D {
	return &MemorizedUpsample2D{pool: pool}
}

// ForwardT implements ts.ModuleT for MemorizedUpsample2D.
func (u *MemorizedUpsample2D) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	indices, outSize := u.pool.Switches()

	return x.MustMaxUnpool2d(indices, outSize, false)
}
