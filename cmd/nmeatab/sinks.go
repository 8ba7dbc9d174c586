package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/shaunagostinho/nmeatab/internal/export"
	"github.com/shaunagostinho/nmeatab/internal/gps"
	"github.com/shaunagostinho/nmeatab/internal/logger"
	"github.com/shaunagostinho/nmeatab/internal/nmea"
	"github.com/shaunagostinho/nmeatab/internal/publish"
	"github.com/shaunagostinho/nmeatab/internal/server"
	"github.com/shaunagostinho/nmeatab/internal/store"
)

// writeSinks writes b to every enabled output. A failing sink is logged
// and does not stop the others; the first error is returned.
func writeSinks(ctx context.Context, cfg *server.Config, b *nmea.Batch) error {
	var first error
	keep := func(sink string, err error) {
		if err == nil {
			return
		}
		log.Printf("[main] %s: %v", sink, err)
		if first == nil {
			first = err
		}
	}

	if cfg.Output.CSV.Enabled {
		keep("csv", writeCSV(cfg.Output.CSV, b))
	}
	if cfg.Output.SQLite.Enabled {
		keep("sqlite", writeSQLite(ctx, cfg.Output.SQLite, b))
	}

	keep("track", writeTrack(cfg, "NMEA "+b.Type.String()+" track", gps.FromBatch(b)))

	if cfg.MQTT.Enabled {
		keep("mqtt", publishMQTT(ctx, cfg.MQTT, b))
	}
	return first
}

// writeTrack saves a non-empty track to the enabled KML and plot outputs.
func writeTrack(cfg *server.Config, name string, track gps.Track) error {
	if len(track) == 0 {
		return nil
	}
	lat, lon, _ := track.Center()
	log.Printf("[main] track: %d points, %.3f km, centre %.6f,%.6f",
		len(track), track.LengthKm(), lat, lon)

	var first error
	if cfg.Output.KML.Enabled {
		first = saved(cfg.Output.KML.Path, export.SaveKML(cfg.Output.KML.Path, name, track))
	}
	if cfg.Output.Plot.Enabled {
		if err := saved(cfg.Output.Plot.Path, export.SavePNG(name, track, cfg.Output.Plot)); first == nil {
			first = err
		}
	}
	return first
}

// runTrackImport reads a latitude,longitude,altitude CSV track and writes
// it to the KML and plot outputs.
func runTrackImport(cfg *server.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	track, err := gps.ReadTrackCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(track) == 0 {
		log.Printf("[main] %s in %s", server.NoDataMessage, path)
		return nil
	}
	return writeTrack(cfg, "CSV track", track)
}

func saved(path string, err error) error {
	if err == nil {
		log.Printf("[main] wrote %s", path)
	}
	return err
}

func writeCSV(cfg logger.Config, b *nmea.Batch) error {
	l := logger.New(cfg)
	_, err := l.WriteBatch(b)
	if cerr := l.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeSQLite(ctx context.Context, cfg store.Config, b *nmea.Batch) error {
	s, err := store.Open(cfg.Path)
	if err != nil {
		return err
	}
	defer s.Close()
	n, err := s.WriteBatch(ctx, b)
	if err != nil {
		return err
	}
	log.Printf("[main] stored %s rows in %s:%s", humanize.Comma(int64(n)), cfg.Path, store.TableName(b.Type))
	return nil
}

func publishMQTT(ctx context.Context, cfg publish.Config, b *nmea.Batch) error {
	var p *publish.Publisher
	err := connectWithRetry(ctx, "mqtt", func() error {
		var err error
		p, err = publish.Connect(cfg)
		return err
	}, 3)
	if err != nil {
		return err
	}
	defer p.Close()
	_, err = p.PublishBatch(b)
	return err
}
