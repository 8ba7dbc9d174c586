package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/twpayne/go-kml"

	"github.com/shaunagostinho/nmeatab/internal/gps"
)

// KMLConfig holds KML export configuration.
type KMLConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// ErrEmptyTrack is returned when there is nothing to export.
var ErrEmptyTrack = errors.New("export: empty track")

var routeColor = color.RGBA{R: 255, G: 0, B: 0, A: 204}

// KMLDocument builds a KML document with one placemark per point and, for
// tracks of two or more points, a route line through them.
func KMLDocument(name string, t gps.Track) (*kml.CompoundElement, error) {
	if len(t) == 0 {
		return nil, ErrEmptyTrack
	}
	doc := kml.Document(
		kml.Name(name),
		kml.Open(true),
		kml.SharedStyle("route", kml.LineStyle(kml.Color(routeColor), kml.Width(3))),
	)

	points := kml.Folder(kml.Name("Points"))
	coords := make([]kml.Coordinate, 0, len(t))
	for i, p := range t {
		c := kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude, Alt: p.Altitude}
		coords = append(coords, c)
		desc := fmt.Sprintf("Latitude: %.6f<br>Longitude: %.6f", p.Latitude, p.Longitude)
		if p.HasAltitude {
			desc += fmt.Sprintf("<br>Altitude: %gm", p.Altitude)
		}
		if p.Time != "" {
			desc += "<br>UTC: " + p.Time
		}
		points.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("Point %d", i+1)),
			kml.Description(desc),
			kml.Point(kml.Coordinates(c)),
		))
	}
	doc.Add(points)

	if len(t) > 1 {
		doc.Add(kml.Placemark(
			kml.Name("GPS Route"),
			kml.StyleURL("#route"),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		))
	}
	return kml.KML(doc), nil
}

// WriteKML writes the track as an indented KML document.
func WriteKML(w io.Writer, name string, t gps.Track) error {
	k, err := KMLDocument(name, t)
	if err != nil {
		return err
	}
	return k.WriteIndent(w, "", "  ")
}

// SaveKML writes the track to a .kml file.
func SaveKML(path, name string, t gps.Track) error {
	var buf bytes.Buffer
	if err := WriteKML(&buf, name, t); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
