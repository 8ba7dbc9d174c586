package nmea

// RMC is a Recommended Minimum Specific GNSS Data sentence.
//
//	1: time, 2: status (A/V), 3: latitude, 4: N/S, 5: longitude, 6: E/W,
//	7: speed over ground (knots), 8: course over ground (deg),
//	9: date (ddmmyy), 10: magnetic variation, 11: variation E/W
//
// Fields 10 and 11 are optional.
type RMC struct {
	Time               string
	Status             string
	Latitude           float64
	Longitude          float64
	Speed              string
	Direction          string
	Date               string
	MagneticVariation  string
	VariationDirection string
	Checksum           string
}

var rmcLayout = layout{
	minFields: 10,
	columns: []string{"utc_time", "status", "latitude", "longitude", "speed", "direction",
		"date", "magnetic_variation", "variation_direction", "checksum"},
	components: []string{
		"NMEA Sentence", "UTC Time", "Status", "Latitude", "N/S Indicator",
		"Longitude", "E/W Indicator", "Speed", "Direction", "Date",
		"Magnetic Variation", "Variation Direction", "Mode Indicator",
	},
	decode: decodeRMC,
}

func decodeRMC(s Sentence) (Record, error) {
	f := s.Fields
	lat, lon, err := parseLatLon(f[3], f[4], f[5], f[6])
	if err != nil {
		return nil, err
	}
	return RMC{
		Time:               ToClockTime(f[1]),
		Status:             f[2],
		Latitude:           lat,
		Longitude:          lon,
		Speed:              f[7],
		Direction:          f[8],
		Date:               f[9],
		MagneticVariation:  s.field(10),
		VariationDirection: s.field(11),
		Checksum:           s.Checksum,
	}, nil
}

func (RMC) Type() Type { return TypeRMC }

func (r RMC) Values() []string {
	return []string{r.Time, r.Status, FormatCoordinate(r.Latitude), FormatCoordinate(r.Longitude),
		r.Speed, r.Direction, r.Date, r.MagneticVariation, r.VariationDirection, r.Checksum}
}

func (r RMC) Position() (float64, float64) { return r.Latitude, r.Longitude }
