package dutil_test

import (
	"testing"

	"github.com/sugarme/segnet/dutil"
)

func TestDataLoaderBatches(t *testing.T) {
	ds, err := dutil.NewSliceDataset([]int{10, 11, 12, 13, 14})
	if err != nil {
		t.Fatal(err)
	}
	s, err := dutil.NewBatchSampler(ds.Len(), 2, false, false)
	if err != nil {
		t.Fatal(err)
	}
	dl, err := dutil.NewDataLoader(ds, s)
	if err != nil {
		t.Fatal(err)
	}

	if dl.Len() != 3 {
		t.Fatalf("want 3 batches, got %v", dl.Len())
	}

	var got []int
	var sizes []int
	for dl.HasNext() {
		batch, err := dl.Next()
		if err != nil {
			t.Fatal(err)
		}
		b := batch.([]int)
		sizes = append(sizes, len(b))
		got = append(got, b...)
	}

	want := []int{10, 11, 12, 13, 14}
	if len(got) != len(want) {
		t.Fatalf("want %v items, got %v", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}

	// trailing partial batch is kept when dropLast is off
	if sizes[2] != 1 {
		t.Fatalf("want last batch of size 1, got %v", sizes)
	}

	if _, err := dl.Next(); err == nil {
		t.Fatal("want error after exhausting batches, got nil")
	}
}

func TestDataLoaderReset(t *testing.T) {
	ds, err := dutil.NewSliceDataset([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	s, err := dutil.NewBatchSampler(ds.Len(), 2, true, false)
	if err != nil {
		t.Fatal(err)
	}
	dl, err := dutil.NewDataLoader(ds, s)
	if err != nil {
		t.Fatal(err)
	}

	for dl.HasNext() {
		if _, err := dl.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if dl.HasNext() {
		t.Fatal("loader not exhausted")
	}

	dl.Reset()
	if !dl.HasNext() {
		t.Fatal("want batches again after Reset")
	}
}

func TestDataLoaderShuffleCoversDataset(t *testing.T) {
	data := []int{0, 1, 2, 3, 4, 5, 6, 7}
	ds, err := dutil.NewSliceDataset(data)
	if err != nil {
		t.Fatal(err)
	}
	s, err := dutil.NewBatchSampler(ds.Len(), 4, false, true)
	if err != nil {
		t.Fatal(err)
	}
	dl, err := dutil.NewDataLoader(ds, s)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for dl.HasNext() {
		batch, err := dl.Next()
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range batch.([]int) {
			seen[v] = true
		}
	}
	if len(seen) != len(data) {
		t.Fatalf("shuffled epoch missed items: saw %v of %v", len(seen), len(data))
	}
}
