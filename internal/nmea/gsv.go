package nmea

import "strconv"

// GSV is a Satellites in View sentence. A group of GSV sentences reports
// every visible satellite, up to four per sentence, as ID/elevation/
// azimuth/SNR blocks. The final block may be partial.
type GSV struct {
	TotalSentences string
	SentenceNumber string
	InView         string
	// Satellites holds the flat block fields after the four leading
	// fields; its length need not be a multiple of four.
	Satellites []string
	Checksum   string
}

const (
	gsvLeading    = 4 // identifier, total, number, in view
	gsvBlockWidth = 4
)

var gsvBlockFields = []string{"ID", "Elevation", "Azimuth", "SNR"}

var gsvLayout = layout{
	minFields: 5,
	components: []string{
		"NMEA Sentence", "Total GSV Sentences", "Sentence Number", "Satellites in View",
	},
	decode: decodeGSV,
}

func decodeGSV(s Sentence) (Record, error) {
	f := s.Fields
	sats := make([]string, len(f)-gsvLeading)
	copy(sats, f[gsvLeading:])
	return GSV{
		TotalSentences: f[1],
		SentenceNumber: f[2],
		InView:         f[3],
		Satellites:     sats,
		Checksum:       s.Checksum,
	}, nil
}

func (GSV) Type() Type { return TypeGSV }

// Blocks returns the number of satellite blocks, counting a trailing
// partial block as one.
func (g GSV) Blocks() int {
	return (len(g.Satellites) + gsvBlockWidth - 1) / gsvBlockWidth
}

func (g GSV) Values() []string {
	return g.row(g.Blocks())
}

// row renders g against a schema with the given number of satellite
// blocks, padding missing satellite fields with "" or truncating extra
// ones. The checksum is always the last column.
func (g GSV) row(blocks int) []string {
	width := blocks * gsvBlockWidth
	out := make([]string, 0, 3+width)
	out = append(out, g.SentenceNumber, g.InView)
	for i := 0; i < width; i++ {
		if i < len(g.Satellites) {
			out = append(out, g.Satellites[i])
		} else {
			out = append(out, "")
		}
	}
	return append(out, g.Checksum)
}

// gsvSchema builds the GSV header for the given satellite block count.
func gsvSchema(blocks int) Schema {
	cols := make(Schema, 0, 3+blocks*gsvBlockWidth)
	cols = append(cols, "Sentence_Number", "Satellites_in_View")
	for n := 1; n <= blocks; n++ {
		for _, name := range gsvBlockFields {
			cols = append(cols, "Sat_"+strconv.Itoa(n)+"_"+name)
		}
	}
	return append(cols, "Checksum")
}

// gsvComponent names raw GSV field i for diagnostics.
func gsvComponent(i int) string {
	if i < gsvLeading {
		return gsvLayout.components[i]
	}
	n := (i-gsvLeading)/gsvBlockWidth + 1
	return "Satellite " + strconv.Itoa(n) + " " + gsvBlockFields[(i-gsvLeading)%gsvBlockWidth]
}
