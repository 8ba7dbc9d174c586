package nmea

// GLL is a Geographic Position sentence.
//
//	1: latitude, 2: N/S, 3: longitude, 4: E/W, 5: time, 6: status (A/V)
type GLL struct {
	Time      string
	Status    string
	Latitude  float64
	Longitude float64
	Checksum  string
}

var gllLayout = layout{
	minFields: 7,
	columns:   []string{"utc_time", "status", "latitude", "longitude", "checksum"},
	components: []string{
		"GLL Sentence", "Latitude", "N/S Indicator", "Longitude",
		"E/W Indicator", "UTC Time", "Status", "Mode Indicator",
	},
	decode: decodeGLL,
}

func decodeGLL(s Sentence) (Record, error) {
	f := s.Fields
	lat, lon, err := parseLatLon(f[1], f[2], f[3], f[4])
	if err != nil {
		return nil, err
	}
	return GLL{
		Time:      ToClockTime(f[5]),
		Status:    f[6],
		Latitude:  lat,
		Longitude: lon,
		Checksum:  s.Checksum,
	}, nil
}

func (GLL) Type() Type { return TypeGLL }

func (g GLL) Values() []string {
	return []string{g.Time, g.Status, FormatCoordinate(g.Latitude), FormatCoordinate(g.Longitude), g.Checksum}
}

func (g GLL) Position() (float64, float64) { return g.Latitude, g.Longitude }
