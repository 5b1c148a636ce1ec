// Package render turns a stored trajectory into pictures: a raster PNG of
// both mass displacements and a quick terminal preview.
package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/twosprings/internal/dynamo"
	"github.com/san-kum/twosprings/internal/storage"
)

// State columns drawn by the renderer. Velocities are carried in the
// trajectory but not plotted.
const (
	ColumnX1 = 0
	ColumnX2 = 2
)

const DefaultTitle = "Mass Displacements for the\nCoupled Spring-Mass System"

type Options struct {
	Title     string
	WidthIn   float64
	HeightIn  float64
	DPI       int
	LineWidth vg.Length
}

func DefaultOptions() Options {
	return Options{
		Title:     DefaultTitle,
		WidthIn:   6,
		HeightIn:  4.5,
		DPI:       50,
		LineWidth: vg.Points(1),
	}
}

var (
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 128, A: 255}
)

// Plot builds the displacement figure: x1 and x2 against t with a legend
// and a grid.
func Plot(traj *dynamo.Trajectory, opts Options) (*plot.Plot, error) {
	if traj.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 samples to plot, got %d", traj.Len())
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "t"
	p.Add(plotter.NewGrid())

	series := []struct {
		label  string
		column int
		color  color.Color
	}{
		{"x1", ColumnX1, blue},
		{"x2", ColumnX2, green},
	}

	for _, s := range series {
		ys := traj.Column(s.column)
		pts := make(plotter.XYs, traj.Len())
		for i := range pts {
			pts[i].X = traj.Times[i]
			pts[i].Y = ys[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.label, err)
		}
		line.LineStyle.Color = s.color
		line.LineStyle.Width = opts.LineWidth
		p.Add(line)
		p.Legend.Add(s.label, line)
	}

	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(10)

	return p, nil
}

// WritePNG draws p onto a raster canvas of the configured size and DPI.
func WritePNG(w io.Writer, p *plot.Plot, opts Options) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.WidthIn)*vg.Inch, vg.Length(opts.HeightIn)*vg.Inch),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

// PNG renders traj to an image file at path, replacing it atomically.
func PNG(path string, traj *dynamo.Trajectory, opts Options) error {
	if opts.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", opts.DPI)
	}

	p, err := Plot(traj, opts)
	if err != nil {
		return err
	}

	err = storage.WriteAtomic(path, func(w io.Writer) error {
		return WritePNG(w, p, opts)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ASCII returns a terminal chart of x1 (blue) and x2 (green).
func ASCII(traj *dynamo.Trajectory, width, height int) string {
	if traj.Len() == 0 {
		return ""
	}
	return asciigraph.PlotMany(
		[][]float64{traj.Column(ColumnX1), traj.Column(ColumnX2)},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption(fmt.Sprintf("x1 (blue), x2 (green) over t = %.4g..%.4g", traj.Times[0], traj.Times[traj.Len()-1])),
	)
}
