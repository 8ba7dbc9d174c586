package gps

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gansidui/geohash"
	geo "github.com/kellydunn/golang-geo"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

// GeohashPrecision is the geohash length stored on each point (~150 m).
const GeohashPrecision = 7

// Point holds a single position fix.
type Point struct {
	Time        string  `json:"time,omitempty"` // HH:MM:SS[.fff] UTC
	Latitude    float64 `json:"latitude"`       // Decimal degrees
	Longitude   float64 `json:"longitude"`      // Decimal degrees
	Altitude    float64 `json:"altitude"`       // Meters
	HasAltitude bool    `json:"hasAltitude"`
	Geohash     string  `json:"geohash"`
}

// Track is an ordered sequence of fixes.
type Track []Point

func newPoint(lat, lon float64) Point {
	hash, _ := geohash.Encode(lat, lon, GeohashPrecision)
	return Point{Latitude: lat, Longitude: lon, Geohash: hash}
}

// FromBatch projects the position-bearing records of b (GGA, GLL, RMC)
// onto a track, in batch order. Other record types are ignored.
func FromBatch(b *nmea.Batch) Track {
	if b.Empty() {
		return nil
	}
	var t Track
	for _, r := range b.Records {
		pr, ok := r.(nmea.Positioned)
		if !ok {
			continue
		}
		p := newPoint(pr.Position())
		switch rec := r.(type) {
		case nmea.GGA:
			p.Time = rec.Time
			p.Altitude, p.HasAltitude = rec.AltitudeMeters()
		case nmea.GLL:
			p.Time = rec.Time
		case nmea.RMC:
			p.Time = rec.Time
		}
		t = append(t, p)
	}
	return t
}

// LengthKm returns the great-circle length of the track.
func (t Track) LengthKm() float64 {
	total := 0.0
	for i := 1; i < len(t); i++ {
		a := geo.NewPoint(t[i-1].Latitude, t[i-1].Longitude)
		b := geo.NewPoint(t[i].Latitude, t[i].Longitude)
		total += a.GreatCircleDistance(b)
	}
	return total
}

// Center returns the mean position of the track.
func (t Track) Center() (lat, lon float64, ok bool) {
	if len(t) == 0 {
		return 0, 0, false
	}
	for _, p := range t {
		lat += p.Latitude
		lon += p.Longitude
	}
	n := float64(len(t))
	return lat / n, lon / n, true
}

// ReadTrackCSV imports a latitude,longitude,altitude CSV with a header
// row. Rows with fewer than three columns or non-numeric values are
// skipped.
func ReadTrackCSV(r io.Reader) (Track, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	var t Track
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return t, err
		}
		if len(row) < 3 {
			continue
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		alt, err3 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		p := newPoint(lat, lon)
		p.Altitude, p.HasAltitude = alt, true
		t = append(t, p)
	}
}
