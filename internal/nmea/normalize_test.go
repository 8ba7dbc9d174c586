package nmea

import (
	"errors"
	"math"
	"testing"
)

func TestToClockTime(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"170141.751", "17:01:41.751"},
		{"170141", "17:01:41"},
		{"170141.00", "17:01:41.00"},
		{"170", "170"},
		{"17014.5", "17014.5"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ToClockTime(c.in); got != c.want {
			t.Fatalf("ToClockTime(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestToDecimalDegrees(t *testing.T) {
	cases := []struct {
		raw  string
		lat  bool
		want float64
	}{
		{"3737.0188", true, 37.616980},
		{"02705.8557", false, 27.0975950},
		{"4807.038", true, 48.1173},
		{"01131.000", false, 11.516667},
		{"0000.0000", true, 0},
	}
	for _, c := range cases {
		got, err := ToDecimalDegrees(c.raw, c.lat)
		if err != nil {
			t.Fatalf("ToDecimalDegrees(%q): %v", c.raw, err)
		}
		if math.Abs(got-c.want) > 1e-5 {
			t.Fatalf("ToDecimalDegrees(%q)=%f, want %f", c.raw, got, c.want)
		}
	}
}

func TestToDecimalDegrees_PaddingDoesNotChangeValue(t *testing.T) {
	a, err := ToDecimalDegrees("3737.0188", true)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	b, err := ToDecimalDegrees("3737.018800", true)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if FormatCoordinate(applyHemisphere(a, "S")) != FormatCoordinate(applyHemisphere(b, "S")) {
		t.Fatalf("padding changed value: %f vs %f", a, b)
	}
}

func TestToDecimalDegrees_Invalid(t *testing.T) {
	for _, raw := range []string{"", "37", "123", "ab37.0", "37xx.0", "-137.0", "3737.NaN",
		"370x1p3", "3707_5.0", "37+1.50", "37.", "3707.5.1", "37Inf"} {
		lat := len(raw) != 3
		if _, err := ToDecimalDegrees(raw, lat); !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("ToDecimalDegrees(%q) err=%v, want ErrInvalidCoordinate", raw, err)
		}
	}
}

func TestDecodeGGA_RejectsNonDecimalMinutes(t *testing.T) {
	_, err := Decode(TypeGGA, "$GPGGA,170141.00,370x1p3,N,02705.8557,E,1,08,1.0,50.0,M,0.0,M,,*47")
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("err=%v, want ErrInvalidCoordinate", err)
	}
}

func TestFormatCoordinate(t *testing.T) {
	if got := FormatCoordinate(-123.1853333); got != "-123.185333" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCoordinate(37.61698); got != "37.616980" {
		t.Fatalf("got %q", got)
	}
}
