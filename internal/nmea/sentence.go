package nmea

import (
	"fmt"
	"strings"
)

// Sentence is one NMEA line split into its comma-delimited fields.
// Fields[0] is the talker+type identifier (e.g. GPGGA). The checksum is
// carried through as text, never verified.
type Sentence struct {
	Fields   []string
	Checksum string // "*XX", or empty when the line had no '*'
}

// Split strips the leading '$', separates the checksum at the first '*'
// and splits the payload on ','.
func Split(raw string) (Sentence, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "$") {
		return Sentence{}, fmt.Errorf("%w: missing '$'", ErrMalformedSentence)
	}
	body := raw[1:]
	checksum := ""
	if idx := strings.IndexByte(body, '*'); idx >= 0 {
		checksum = "*" + body[idx+1:]
		body = body[:idx]
	}
	return Sentence{Fields: strings.Split(body, ","), Checksum: checksum}, nil
}

// ID returns the talker+type identifier.
func (s Sentence) ID() string {
	if len(s.Fields) == 0 {
		return ""
	}
	return s.Fields[0]
}

// Code returns the three-letter sentence code, the last three characters
// of the identifier.
func (s Sentence) Code() string {
	id := s.ID()
	if len(id) <= 3 {
		return id
	}
	return id[len(id)-3:]
}

// Payload reassembles the text between '$' and '*'.
func (s Sentence) Payload() string {
	return strings.Join(s.Fields, ",")
}

// field returns Fields[i], or "" past the end.
func (s Sentence) field(i int) string {
	if i < len(s.Fields) {
		return s.Fields[i]
	}
	return ""
}
