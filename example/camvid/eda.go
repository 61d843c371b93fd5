package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// runEDA plots the class pixel distribution and prints the derived loss
// weights.
func runEDA() {
	statsFile := fmt.Sprintf("%v/class-stats.csv", DataPath)
	stats, err := readClassStats(statsFile)
	if err != nil {
		panic(err)
	}

	p, err := plot.New()
	if err != nil {
		panic(err)
	}

	v := make(plotter.Values, len(stats))
	for i, s := range stats {
		v[i] = s.Pixels
	}

	bars, err := plotter.NewBarChart(v, vg.Points(20))
	if err != nil {
		panic(err)
	}
	p.Title.Text = "Class Pixel Distribution"
	p.Add(bars)

	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Name
	}
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, "class-distribution.png"); err != nil {
		panic(err)
	}

	weights := classWeights(stats)
	for i, s := range stats {
		fmt.Printf("%-16v pixels: %12.0f\t weight: %6.4f\n", s.Name, s.Pixels, weights[i])
	}
}
