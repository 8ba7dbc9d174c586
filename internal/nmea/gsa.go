package nmea

import "strings"

// GSA is a DOP and Active Satellites sentence. Fields 3..14 reserve
// twelve satellite ID slots; empty slots are dropped.
type GSA struct {
	Mode1        string // A=automatic, M=manual
	Mode2        string // 1=no fix, 2=2D, 3=3D
	SatelliteIDs []string
	PDOP         string
	HDOP         string
	VDOP         string
}

const (
	gsaFirstSat = 3
	gsaSlots    = 12
)

var gsaLayout = layout{
	minFields: 18,
	columns:   []string{"mode_1", "mode_2", "satellite_ids", "pdop", "hdop", "vdop"},
	components: []string{
		"NMEA Sentence", "Mode 1", "Mode 2",
		"Sat ID 1", "Sat ID 2", "Sat ID 3", "Sat ID 4", "Sat ID 5", "Sat ID 6",
		"Sat ID 7", "Sat ID 8", "Sat ID 9", "Sat ID 10", "Sat ID 11", "Sat ID 12",
		"PDOP", "HDOP", "VDOP",
	},
	decode: decodeGSA,
}

func decodeGSA(s Sentence) (Record, error) {
	f := s.Fields
	var ids []string
	for _, id := range f[gsaFirstSat : gsaFirstSat+gsaSlots] {
		if id != "" {
			ids = append(ids, id)
		}
	}
	vdop, _, _ := strings.Cut(f[17], "*")
	return GSA{
		Mode1:        f[1],
		Mode2:        f[2],
		SatelliteIDs: ids,
		PDOP:         f[15],
		HDOP:         f[16],
		VDOP:         vdop,
	}, nil
}

func (GSA) Type() Type { return TypeGSA }

func (g GSA) Values() []string {
	return []string{g.Mode1, g.Mode2, strings.Join(g.SatelliteIDs, ","), g.PDOP, g.HDOP, g.VDOP}
}
