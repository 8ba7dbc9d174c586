package gps

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

func TestFromBatch_GGA(t *testing.T) {
	lines := []string{
		"$GPGGA,170141.00,3737.0188,N,02705.8557,E,1,08,1.0,50.0,M,0.0,M,,*47",
		"$GPGLL,4916.45,N,12311.12,W,225444,A*31",
		"$GPGGA,170142.00,3737.0288,N,02705.8657,E,1,08,1.0,,M,0.0,M,,*47",
	}
	b, _ := nmea.DecodeBatch(lines, nmea.TypeGGA)
	tr := FromBatch(b)
	if len(tr) != 2 {
		t.Fatalf("expected 2 points, got %d", len(tr))
	}
	if !tr[0].HasAltitude || tr[0].Altitude != 50 {
		t.Fatalf("expected altitude 50, got %+v", tr[0])
	}
	if tr[1].HasAltitude {
		t.Fatalf("expected missing altitude, got %+v", tr[1])
	}
	if tr[0].Time != "17:01:41.00" {
		t.Fatalf("unexpected time %q", tr[0].Time)
	}
	if len(tr[0].Geohash) != GeohashPrecision {
		t.Fatalf("unexpected geohash %q", tr[0].Geohash)
	}
	if d := tr.LengthKm(); d <= 0 || d > 1 {
		t.Fatalf("unexpected length %f km", d)
	}
}

func TestFromBatch_NonPositional(t *testing.T) {
	b, _ := nmea.DecodeBatch([]string{"$GPVTG,054.7,T,034.4,M,005.5,N,010.2,K*48"}, nmea.TypeVTG)
	if tr := FromBatch(b); len(tr) != 0 {
		t.Fatalf("expected empty track, got %d", len(tr))
	}
	if _, _, ok := FromBatch(b).Center(); ok {
		t.Fatalf("expected no center")
	}
}

func TestTrackCenter(t *testing.T) {
	tr := Track{{Latitude: 10, Longitude: 20}, {Latitude: 12, Longitude: 24}}
	lat, lon, ok := tr.Center()
	if !ok || lat != 11 || lon != 22 {
		t.Fatalf("got %f,%f,%v", lat, lon, ok)
	}
}

func TestReadTrackCSV(t *testing.T) {
	in := "latitude,longitude,altitude\n37.61698,27.097595,50.0\nbad,row,here\n1,2\n-33.9,18.4,12\n"
	tr, err := ReadTrackCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(tr) != 2 {
		t.Fatalf("expected 2 points, got %d", len(tr))
	}
	if tr[1].Latitude != -33.9 || tr[1].Altitude != 12 || !tr[1].HasAltitude {
		t.Fatalf("unexpected point %+v", tr[1])
	}
	empty, err := ReadTrackCSV(strings.NewReader(""))
	if err != nil || empty != nil {
		t.Fatalf("expected empty track, got %v %v", empty, err)
	}
}

func TestDemoSource_DecodesEveryType(t *testing.T) {
	d := NewDemoSource()
	d.Start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.Epochs = 10
	lines, err := d.Lines()
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	want := map[nmea.Type]int{
		nmea.TypeGGA: 10, nmea.TypeGLL: 10, nmea.TypeGSA: 10,
		nmea.TypeRMC: 10, nmea.TypeVTG: 10, nmea.TypeGSV: 30,
	}
	for typ, n := range want {
		audit := &nmea.ChecksumAuditor{}
		runner := nmea.Runner{Observer: audit}
		b, got := runner.DecodeBatch(lines, typ)
		if got != n || b.Failed != 0 {
			t.Fatalf("%v: decoded %d (failed %d), want %d", typ, got, b.Failed, n)
		}
		if _, bad := audit.Counts(); bad != 0 {
			t.Fatalf("%v: %d checksum mismatches", typ, bad)
		}
	}

	b, _ := nmea.DecodeBatch(lines, nmea.TypeGGA)
	tr := FromBatch(b)
	for _, p := range tr {
		dist := math.Hypot(p.Latitude-d.CenterLat, p.Longitude-d.CenterLon)
		if math.Abs(dist-d.Radius) > 1e-4 {
			t.Fatalf("point %+v off the demo circle (%f)", p, dist)
		}
	}
	if tr[0].Time != "12:00:01.00" {
		t.Fatalf("unexpected first fix time %q", tr[0].Time)
	}

	gsv, _ := nmea.DecodeBatch(lines, nmea.TypeGSV)
	if cols := len(gsv.Schema()); cols != 2+16+1 {
		t.Fatalf("expected 19 GSV columns, got %d", cols)
	}
}

func TestFormatLatLon(t *testing.T) {
	s, h := formatLat(-37.61698)
	if s != "3737.0188" || h != "S" {
		t.Fatalf("got %s %s", s, h)
	}
	s, h = formatLon(27.097595)
	if s != "02705.8557" || h != "E" {
		t.Fatalf("got %s %s", s, h)
	}
	s, _ = formatLat(10.9999999)
	if s != "1100.0000" {
		t.Fatalf("got %s", s)
	}
}
