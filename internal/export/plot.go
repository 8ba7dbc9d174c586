package export

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/shaunagostinho/nmeatab/internal/gps"
)

// PlotConfig holds track plot configuration.
type PlotConfig struct {
	Enabled  bool    `yaml:"enabled" json:"enabled"`
	Path     string  `yaml:"path" json:"path"`
	WidthCm  float64 `yaml:"width_cm" json:"widthCm"`
	HeightCm float64 `yaml:"height_cm" json:"heightCm"`
}

func (c PlotConfig) size() (vg.Length, vg.Length) {
	w, h := c.WidthCm, c.HeightCm
	if w <= 0 {
		w = 16
	}
	if h <= 0 {
		h = 16
	}
	return vg.Length(w) * vg.Centimeter, vg.Length(h) * vg.Centimeter
}

// TrackPlot draws the track as a longitude/latitude line with a marker at
// every fix.
func TrackPlot(title string, t gps.Track) (*plot.Plot, error) {
	if len(t) == 0 {
		return nil, ErrEmptyTrack
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(t))
	for i, pt := range t {
		pts[i].X = pt.Longitude
		pts[i].Y = pt.Latitude
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("export: plot points: %w", err)
	}
	line.Color = color.RGBA{R: 255, A: 255}
	points.Color = color.RGBA{B: 200, A: 255}
	p.Add(line, points)
	return p, nil
}

// WritePNG renders the track plot as PNG.
func WritePNG(w io.Writer, title string, t gps.Track, cfg PlotConfig) error {
	p, err := TrackPlot(title, t)
	if err != nil {
		return err
	}
	width, height := cfg.size()
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG renders the track plot to cfg.Path.
func SavePNG(title string, t gps.Track, cfg PlotConfig) error {
	p, err := TrackPlot(title, t)
	if err != nil {
		return err
	}
	width, height := cfg.size()
	return p.Save(width, height, cfg.Path)
}
