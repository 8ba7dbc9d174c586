package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaunagostinho/nmeatab/internal/gps"
	"github.com/shaunagostinho/nmeatab/internal/nmea"
	"github.com/shaunagostinho/nmeatab/internal/server"
)

func testConfig(t *testing.T) *server.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := server.DefaultConfig()
	cfg.Decode.AuditChecksums = true
	cfg.Output.CSV.Path = filepath.Join(dir, "out.csv")
	cfg.Output.SQLite.Enabled = true
	cfg.Output.SQLite.Path = filepath.Join(dir, "out.db")
	cfg.Output.KML.Enabled = true
	cfg.Output.KML.Path = filepath.Join(dir, "track.kml")
	cfg.Output.Plot.Enabled = true
	cfg.Output.Plot.Path = filepath.Join(dir, "track.png")
	return cfg
}

func TestRunBatch_DemoWritesSinks(t *testing.T) {
	cfg := testConfig(t)
	demo := gps.NewDemoSource()
	demo.Epochs = 5

	if err := runBatch(context.Background(), cfg, nmea.TypeGGA, demo); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	for _, p := range []string{cfg.Output.CSV.Path, cfg.Output.SQLite.Path, cfg.Output.KML.Path, cfg.Output.Plot.Path} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Fatalf("expected %s to be written (err=%v)", p, err)
		}
	}
}

func TestRunBatch_MissingFileIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	src := gps.NewFileSource(filepath.Join(t.TempDir(), "missing.txt"))
	if err := runBatch(context.Background(), cfg, nmea.TypeGGA, src); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(cfg.Output.CSV.Path); !os.IsNotExist(err) {
		t.Fatalf("expected no CSV for empty batch, err=%v", err)
	}
}

func TestConnectWithRetry(t *testing.T) {
	calls := 0
	err := connectWithRetry(context.Background(), "test", func() error {
		calls++
		return nil
	}, 3)
	if err != nil || calls != 1 {
		t.Fatalf("calls=%d err=%v", calls, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	boom := errors.New("boom")
	err = connectWithRetry(ctx, "test", func() error { return boom }, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	err = connectWithRetry(context.Background(), "test", func() error { return boom }, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
}

func TestRunTrackImport(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "track.csv")
	csv := "latitude,longitude,altitude\n37.0,27.0,10\n37.1,27.1,12\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runTrackImport(cfg, path); err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, p := range []string{cfg.Output.KML.Path, cfg.Output.Plot.Path} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Fatalf("expected %s to be written (err=%v)", p, err)
		}
	}
}

func TestRunTrackImport_Missing(t *testing.T) {
	cfg := testConfig(t)
	if err := runTrackImport(cfg, filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing track file")
	}
}
