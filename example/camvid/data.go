package main

import (
	"fmt"
	"reflect"

	"github.com/sugarme/gotch"
	ts "github.com/sugarme/gotch/tensor"
	"github.com/sugarme/gotch/vision"
)

// CamVidDataset implements dutil.Dataset over image/annotation file pairs.
// Images live in <DataPath>/image, annotations in <DataPath>/label as
// grayscale PNGs holding discrete class indexes per pixel.
type CamVidDataset struct {
	fnames     []string
	numClasses int64
}

func NewCamVidDataset(fnames []string, numClasses int64) *CamVidDataset {
	return &CamVidDataset{
		fnames:     fnames,
		numClasses: numClasses,
	}
}

// Len implements dutil.Dataset interface
func (ds *CamVidDataset) Len() int {
	return len(ds.fnames)
}

type ImageMask struct {
	image ts.Tensor // [3, H, W], 8-bit values as float
	mask  ts.Tensor // [H, W, C], one-hot float
}

// Item implements dutil.Dataset interface
func (ds *CamVidDataset) Item(idx int) (interface{}, error) {
	fname := ds.fnames[idx]
	imgPath := fmt.Sprintf("%v/image/%v", DataPath, fname)
	labelPath := fmt.Sprintf("%v/label/%v", DataPath, fname)

	img, err := vision.Load(imgPath)
	if err != nil {
		return nil, err
	}

	labelTs, err := vision.Load(labelPath)
	if err != nil {
		return nil, err
	}

	mask, err := labelToOneHot(labelTs, ds.numClasses)
	labelTs.MustDrop()
	if err != nil {
		return nil, err
	}

	return ImageMask{
		image: *img,
		mask:  *mask,
	}, nil
}

// DType implements dutil.Dataset interface
func (ds *CamVidDataset) DType() reflect.Type {
	return reflect.TypeOf(ImageMask{})
}

// labelToOneHot converts a loaded annotation tensor [3, H, W] (class index
// replicated per channel) to a one-hot [H, W, C] float tensor.
func labelToOneHot(label *ts.Tensor, numClasses int64) (*ts.Tensor, error) {
	size := label.MustSize()
	if len(size) != 3 {
		return nil, fmt.Errorf("expected annotation shape [3 H W]. Got %v", size)
	}

	// channel 0 carries the class index
	index := label.MustNarrow(0, 0, 1, false).MustSqueeze1(0, true)
	classes := index.MustTotype(gotch.Int64, true)
	onehot := classes.MustOneHot(numClasses, true).MustTotype(gotch.Float, true)

	return onehot, nil
}
