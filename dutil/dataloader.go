package dutil

import (
	"fmt"
	"reflect"
)

// DataLoader iterates a Dataset in the order and batch size of its Sampler.
type DataLoader struct {
	dataset Dataset
	sampler Sampler
	indexes []int
	currIdx int
}

// NewDataLoader creates a DataLoader.
func NewDataLoader(data Dataset, s Sampler) (*DataLoader, error) {
	if data == nil {
		return nil, fmt.Errorf("dutil: nil dataset")
	}
	if s == nil {
		var err error
		s, err = NewSequentialSampler(data.Len())
		if err != nil {
			return nil, err
		}
	}

	return &DataLoader{
		dataset: data,
		sampler: s,
		indexes: s.Sample(),
		currIdx: 0,
	}, nil
}

// HasNext returns whether there is a next batch.
func (dl *DataLoader) HasNext() bool {
	return dl.currIdx < len(dl.indexes)
}

// Next returns the next batch as a slice of the dataset's element type
// (e.g. []ImageMask boxed in interface{}). A trailing batch may be smaller
// than the sampler's batch size unless the sampler drops it.
func (dl *DataLoader) Next() (interface{}, error) {
	if !dl.HasNext() {
		return nil, fmt.Errorf("dutil: no more batches")
	}

	size := dl.sampler.BatchSize()
	if remaining := len(dl.indexes) - dl.currIdx; size > remaining {
		size = remaining
	}

	batch := reflect.MakeSlice(reflect.SliceOf(dl.dataset.DType()), 0, size)
	for i := 0; i < size; i++ {
		item, err := dl.dataset.Item(dl.indexes[dl.currIdx+i])
		if err != nil {
			return nil, err
		}
		batch = reflect.Append(batch, reflect.ValueOf(item))
	}
	dl.currIdx += size

	return batch.Interface(), nil
}

// Reset resamples the index sequence and rewinds to the first batch.
func (dl *DataLoader) Reset() {
	dl.indexes = dl.sampler.Sample()
	dl.currIdx = 0
}

// Len returns the number of batches per epoch.
func (dl *DataLoader) Len() int {
	n := len(dl.indexes)
	size := dl.sampler.BatchSize()

	return (n + size - 1) / size
}
