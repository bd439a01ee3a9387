package ai

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveFitnessPlot draws best and average fitness per generation to path.
// The image format follows the file extension.
func SaveFitnessPlot(history []Stats, path string) error {
	if len(history) == 0 {
		return fmt.Errorf("no generations to plot")
	}

	best := make(plotter.XYs, len(history))
	avg := make(plotter.XYs, len(history))
	for i, s := range history {
		best[i].X, best[i].Y = float64(s.Generation), float64(s.Best)
		avg[i].X, avg[i].Y = float64(s.Generation), s.Average
	}

	p := plot.New()
	p.Title.Text = "Fitness"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score"
	p.Add(plotter.NewGrid())

	bestLine, err := plotter.NewLine(best)
	if err != nil {
		return err
	}
	bestLine.Color = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	avgLine, err := plotter.NewLine(avg)
	if err != nil {
		return err
	}
	avgLine.Color = color.RGBA{R: 40, G: 80, B: 200, A: 255}

	p.Add(bestLine, avgLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("average", avgLine)
	p.Legend.Top = false

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
