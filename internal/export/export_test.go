package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaunagostinho/nmeatab/internal/gps"
)

var track = gps.Track{
	{Time: "17:01:41.00", Latitude: 37.61698, Longitude: 27.097595, Altitude: 50, HasAltitude: true},
	{Time: "17:01:42.00", Latitude: 37.61715, Longitude: 27.097762, Altitude: 51, HasAltitude: true},
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteKML(&buf, "test", track); err != nil {
		t.Fatalf("kml: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<Placemark>", "Point 2", "GPS Route", "<LineString>", "<coordinates>27.097595,", `<Style id="route">`, "#route"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestWriteKML_SinglePointHasNoRoute(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteKML(&buf, "one", track[:1]); err != nil {
		t.Fatalf("kml: %v", err)
	}
	if strings.Contains(buf.String(), "LineString") {
		t.Fatalf("unexpected route for single point")
	}
}

func TestEmptyTrack(t *testing.T) {
	if err := WriteKML(&bytes.Buffer{}, "x", nil); !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}
	if err := WritePNG(&bytes.Buffer{}, "x", nil, PlotConfig{}); !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.png")
	if err := SavePNG("track", track, PlotConfig{Path: path, WidthCm: 8, HeightCm: 8}); err != nil {
		t.Fatalf("png: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}
}

func TestSaveKML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.kml")
	if err := SaveKML(path, "track", track); err != nil {
		t.Fatalf("kml: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("expected kml file, err=%v", err)
	}
}
