package nmea

import (
	"strconv"
	"strings"
)

// GGA is a Global Positioning System Fix Data sentence.
//
//	0: talker+type
//	1: time (hhmmss.ss)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: fix quality (0=invalid)
//	7: number of satellites
//	8: HDOP
//	9: altitude (meters)
type GGA struct {
	Time       string
	Latitude   float64
	Longitude  float64
	Altitude   string
	Satellites string
	FixQuality string
}

var ggaLayout = layout{
	minFields: 10,
	columns:   []string{"utc_time", "latitude", "longitude", "altitude", "satellites", "fix_quality"},
	components: []string{
		"NMEA Sentence", "Time of fix (UTC)", "Latitude", "N/S Indicator",
		"Longitude", "E/W Indicator", "Fix quality", "Number of satellites in view",
		"Horizontal dilution of position HDOP", "Altitude", "Altitude units",
		"Geoidal separation", "Geoidal separation units",
		"Age of differential GPS data (if applicable)", "Differential station ID",
	},
	decode: decodeGGA,
}

func decodeGGA(s Sentence) (Record, error) {
	f := s.Fields
	lat, lon, err := parseLatLon(f[2], f[3], f[4], f[5])
	if err != nil {
		return nil, err
	}
	return GGA{
		Time:       ToClockTime(f[1]),
		Latitude:   lat,
		Longitude:  lon,
		Altitude:   f[9],
		Satellites: f[7],
		FixQuality: f[6],
	}, nil
}

func (GGA) Type() Type { return TypeGGA }

func (g GGA) Values() []string {
	return []string{g.Time, FormatCoordinate(g.Latitude), FormatCoordinate(g.Longitude),
		g.Altitude, g.Satellites, g.FixQuality}
}

func (g GGA) Position() (float64, float64) { return g.Latitude, g.Longitude }

// AltitudeMeters parses the altitude column.
func (g GGA) AltitudeMeters() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(g.Altitude), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
