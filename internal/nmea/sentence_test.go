package nmea

import (
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	s, err := Split("$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K*48")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s.Fields) != 9 {
		t.Fatalf("expected 9 fields, got %d: %q", len(s.Fields), s.Fields)
	}
	if s.Checksum != "*48" {
		t.Fatalf("expected checksum *48, got %q", s.Checksum)
	}
	if s.ID() != "GPVTG" || s.Code() != "VTG" {
		t.Fatalf("unexpected id/code %q/%q", s.ID(), s.Code())
	}
	if s.Payload() != "GPVTG,054.7,T,034.4,M,005.5,N,010.2,K" {
		t.Fatalf("unexpected payload %q", s.Payload())
	}
}

func TestSplit_NoChecksum(t *testing.T) {
	s, err := Split("$GPGLL,4916.45,N,12311.12,W,225444,A")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Checksum != "" {
		t.Fatalf("expected empty checksum, got %q", s.Checksum)
	}
	if s.Fields[6] != "A" {
		t.Fatalf("expected last field A, got %q", s.Fields[6])
	}
}

func TestSplit_FirstStar(t *testing.T) {
	s, err := Split("$GPGSA,A,3*12*34")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Checksum != "*12*34" {
		t.Fatalf("expected split at first '*', got %q", s.Checksum)
	}
	if len(s.Fields) != 3 || s.Fields[2] != "3" {
		t.Fatalf("unexpected fields %q", s.Fields)
	}
}

func TestSplit_Malformed(t *testing.T) {
	for _, raw := range []string{"GPGGA,1,2", "", "!AIVDM,1"} {
		if _, err := Split(raw); !errors.Is(err, ErrMalformedSentence) {
			t.Fatalf("Split(%q) err=%v, want ErrMalformedSentence", raw, err)
		}
	}
}

func TestSentenceCode_ShortID(t *testing.T) {
	s := Sentence{Fields: []string{"GA"}}
	if s.Code() != "GA" {
		t.Fatalf("got %q", s.Code())
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(" " + typ.String() + " ")
		if err != nil || got != typ {
			t.Fatalf("ParseType(%v)=%v,%v", typ, got, err)
		}
	}
	if got, err := ParseType("gsv"); err != nil || got != TypeGSV {
		t.Fatalf("ParseType(gsv)=%v,%v", got, err)
	}
	if _, err := ParseType("ZDA"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
