package nmea

// VTG is a Track Made Good and Ground Speed sentence. The unit indicator
// fields (T, M, N, K) are not carried into the record.
type VTG struct {
	TrueTrack     string
	MagneticTrack string
	SpeedKnots    string
	SpeedKmh      string
	Checksum      string
}

var vtgLayout = layout{
	minFields: 9,
	columns:   []string{"true_track", "magnetic_track", "speed_knots", "speed_kilometers", "checksum"},
	components: []string{
		"VTG Sentence", "True Track", "True Track Direction Indicator",
		"Magnetic Track", "Magnetic Track Direction Indicator",
		"Speed in Knots", "Knot Units", "Speed in Kilometers", "Kilometer Units",
		"Mode Indicator",
	},
	decode: decodeVTG,
}

func decodeVTG(s Sentence) (Record, error) {
	f := s.Fields
	return VTG{
		TrueTrack:     f[1],
		MagneticTrack: f[3],
		SpeedKnots:    f[5],
		SpeedKmh:      f[7],
		Checksum:      s.Checksum,
	}, nil
}

func (VTG) Type() Type { return TypeVTG }

func (v VTG) Values() []string {
	return []string{v.TrueTrack, v.MagneticTrack, v.SpeedKnots, v.SpeedKmh, v.Checksum}
}
