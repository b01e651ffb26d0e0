// Package plot plots the learning curves of experiments
package plot

import (
	"fmt"

	"github.com/samuelfneumann/godqn/experiment/tracker"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Rewards saves a plot of the return of each episode together with
// its running average over window episodes. The image format is
// determined by the extension of filename.
func Rewards(returns []float64, window int, filename string) error {
	if len(returns) == 0 {
		return fmt.Errorf("rewards: no returns to plot")
	}

	p := plot.New()
	p.Title.Text = "Episodic Return"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	series := []struct {
		name   string
		values []float64
	}{
		{"return", returns},
		{fmt.Sprintf("mean of last %v", window),
			tracker.RunningAverage(returns, window)},
	}
	for i, s := range series {
		line, err := plotter.NewLine(points(s.values))
		if err != nil {
			return fmt.Errorf("rewards: %w", err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("rewards: could not save plot: %w", err)
	}
	return nil
}

// points returns values indexed by episode, starting from 1
func points(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	return pts
}
