package simulate

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// TrajectoryPlot renders one individual's predicted titre trajectory
// against a single strain and saves it to path (format by extension).
func TrajectoryPlot(times, titres []float64, path string) error {
	if len(times) != len(titres) {
		return fmt.Errorf("simulate: %d times for %d titres", len(times), len(titres))
	}
	p := plot.New()
	p.Title.Text = "Predicted titre trajectory"
	p.X.Label.Text = "time"
	p.Y.Label.Text = "titre"

	pts := make(plotter.XYs, len(times))
	for i := range pts {
		pts[i].X = times[i]
		pts[i].Y = titres[i]
	}
	if err := plotutil.AddLinePoints(p, "titre", pts); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
