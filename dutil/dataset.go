package dutil

import (
	"fmt"
	"reflect"
)

// Dataset represents a map from indices to data samples.
type Dataset interface {
	// Item returns the sample at idx.
	Item(idx int) (interface{}, error)
	// Len returns the number of samples.
	Len() int
	// DType returns the element type DataLoader uses to build batch slices.
	DType() reflect.Type
}

// SliceDataset is a Dataset backed by a slice.
type SliceDataset struct {
	data reflect.Value
}

// NewSliceDataset creates a SliceDataset from any slice.
func NewSliceDataset(data interface{}) (*SliceDataset, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("dutil: expected a slice. Got %v", v.Kind())
	}

	return &SliceDataset{data: v}, nil
}

// Item implements Dataset interface for SliceDataset.
func (ds *SliceDataset) Item(idx int) (interface{}, error) {
	if idx < 0 || idx >= ds.data.Len() {
		return nil, fmt.Errorf("dutil: index %v out of range [0, %v)", idx, ds.data.Len())
	}

	return ds.data.Index(idx).Interface(), nil
}

// Len implements Dataset interface for SliceDataset.
func (ds *SliceDataset) Len() int {
	return ds.data.Len()
}

// DType implements Dataset interface for SliceDataset.
func (ds *SliceDataset) DType() reflect.Type {
	return ds.data.Type().Elem()
}
