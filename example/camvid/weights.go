package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// ClassStat is one row of the dataset's class distribution CSV
// (columns: label, name, pixels).
type ClassStat struct {
	Label  int
	Name   string
	Pixels float64
}

// readClassStats reads per-class pixel counts from a CSV file, ordered by
// label.
func readClassStats(filename string) ([]ClassStat, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.HasHeader(true))
	labels := df.Col("label").Records()
	names := df.Col("name").Records()
	pixels := df.Col("pixels").Records()

	stats := make([]ClassStat, len(labels))
	for i := range labels {
		label, err := strconv.Atoi(labels[i])
		if err != nil {
			return nil, err
		}
		px, err := strconv.ParseFloat(pixels[i], 64)
		if err != nil {
			return nil, err
		}
		stats[i] = ClassStat{Label: label, Name: names[i], Pixels: px}
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Label < stats[j].Label })

	return stats, nil
}

// classWeights computes median frequency balancing weights:
//
//	w[c] = median(freq) / freq[c]
//
// so rare classes weigh more than frequent ones. Classes with no pixels get
// weight zero and are effectively excluded from the loss and weighted
// accuracy.
func classWeights(stats []ClassStat) []float64 {
	var total float64
	for _, s := range stats {
		total += s.Pixels
	}

	freqs := make([]float64, len(stats))
	var present []float64
	for i, s := range stats {
		freqs[i] = s.Pixels / total
		if s.Pixels > 0 {
			present = append(present, freqs[i])
		}
	}

	sort.Float64s(present)
	median := stat.Quantile(0.5, stat.Empirical, present, nil)

	weights := make([]float64, len(stats))
	for i, f := range freqs {
		if f == 0 {
			continue
		}
		weights[i] = median / f
	}

	return weights
}

// loadClassWeights reads the class distribution CSV next to the dataset and
// turns it into loss weights. A missing file means unweighted training.
func loadClassWeights() []float64 {
	statsFile := fmt.Sprintf("%v/class-stats.csv", DataPath)
	if _, err := os.Stat(statsFile); os.IsNotExist(err) {
		fmt.Printf("No class-stats.csv found. Training unweighted.\n")
		return nil
	}

	stats, err := readClassStats(statsFile)
	if err != nil {
		panic(err)
	}
	if len(stats) != NumClasses {
		err := fmt.Errorf("class-stats.csv has %v classes, flag -classes says %v\n", len(stats), NumClasses)
		panic(err)
	}

	return classWeights(stats)
}
