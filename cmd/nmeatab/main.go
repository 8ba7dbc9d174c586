package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/shaunagostinho/nmeatab/internal/gps"
	"github.com/shaunagostinho/nmeatab/internal/metrics"
	"github.com/shaunagostinho/nmeatab/internal/nmea"
	"github.com/shaunagostinho/nmeatab/internal/server"
	"github.com/shaunagostinho/nmeatab/internal/store"
	"github.com/shaunagostinho/nmeatab/web"
)

func main() {
	configPath := flag.String("config", server.DefaultConfigPath, "Path to config file")
	input := flag.String("input", "", "Override NMEA input file")
	mode := flag.String("mode", "", "Sentence type to decode (GGA, GLL, GSA, RMC, VTG, GSV)")
	out := flag.String("out", "", "Override CSV output path")
	serve := flag.Bool("serve", false, "Serve the live viewer instead of a one-shot decode")
	demo := flag.Bool("demo", false, "Use simulated NMEA sentences instead of a file")
	listenAddr := flag.String("listen", "", "Override listen address (e.g. :8080)")
	trackCSV := flag.String("track-csv", "", "Export a latitude,longitude,altitude CSV track instead of decoding")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] nmeatab starting")

	cfg := server.LoadConfig(*configPath)

	if *input != "" {
		cfg.Input.Path = *input
	}
	if *mode != "" {
		cfg.Decode.Mode = *mode
	}
	if *out != "" {
		cfg.Output.CSV.Path = *out
		cfg.Output.CSV.Enabled = true
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	t, err := cfg.Mode()
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("[main] received %v, shutting down", sig)
		cancel()
	}()

	if *trackCSV != "" {
		if err := runTrackImport(cfg, *trackCSV); err != nil {
			log.Fatalf("[main] %v", err)
		}
		return
	}

	if *serve {
		runServer(ctx, cfg, t, *demo)
		return
	}

	var src gps.Source = gps.NewFileSource(cfg.Input.Path)
	if *demo {
		src = gps.NewDemoSource()
	}
	if err := runBatch(ctx, cfg, t, src); err != nil {
		log.Fatalf("[main] %v", err)
	}
}

// runServer serves the viewer. A configured input file is decoded once at
// startup so the first client has something to show.
func runServer(ctx context.Context, cfg *server.Config, t nmea.Type, demo bool) {
	srv := server.New(cfg, web.FS)
	if cfg.Output.SQLite.Enabled {
		st, err := store.Open(cfg.Output.SQLite.Path)
		if err != nil {
			log.Printf("[main] sqlite: %v", err)
		} else {
			defer st.Close()
			srv.WithStore(st)
		}
	}

	var demoSrc *gps.DemoSource
	if demo {
		demoSrc = gps.NewDemoSource()
	} else if cfg.Input.Path != "" {
		lines, err := gps.NewFileSource(cfg.Input.Path).Lines()
		if err != nil {
			log.Printf("[main] %v", err)
		}
		if len(lines) > 0 {
			f := srv.Ingest(lines, t)
			log.Printf("[main] preloaded %s %s sentences from %s",
				humanize.Comma(int64(f.Decoded)), t, cfg.Input.Path)
		}
	}

	if err := srv.Run(ctx, demoSrc); err != nil {
		log.Printf("[main] server exited: %v", err)
	}
}

// runBatch decodes src once and writes the batch to every enabled sink.
func runBatch(ctx context.Context, cfg *server.Config, t nmea.Type, src gps.Source) error {
	lines, err := src.Lines()
	if errors.Is(err, nmea.ErrSourceNotFound) {
		log.Printf("[main] %v", err)
	} else if err != nil {
		return err
	}
	log.Printf("[main] read %s lines from %s", humanize.Comma(int64(len(lines))), src.Name())

	m := metrics.Observer{Mode: t}
	var observers nmea.Observers
	if cfg.Decode.Verbose {
		observers = append(observers, &nmea.LogObserver{})
	}
	var auditor *nmea.ChecksumAuditor
	if cfg.Decode.AuditChecksums {
		auditor = &nmea.ChecksumAuditor{OnMismatch: m.ChecksumMismatch}
		observers = append(observers, auditor)
	}
	runner := nmea.Runner{}
	if len(observers) > 0 {
		runner.Observer = observers
	}

	start := time.Now()
	b, n := runner.DecodeBatch(lines, t)
	m.RecordBatch(b)
	log.Printf("[main] decoded %s %s sentences in %v (%s failed, %s skipped)",
		humanize.Comma(int64(n)), t, time.Since(start).Round(time.Millisecond),
		humanize.Comma(int64(b.Failed)), humanize.Comma(int64(b.Skipped)))
	if auditor != nil {
		checked, bad := auditor.Counts()
		log.Printf("[main] checksums: %s checked, %s mismatched",
			humanize.Comma(int64(checked)), humanize.Comma(int64(bad)))
	}

	if b.Empty() {
		log.Printf("[main] %s for %s", server.NoDataMessage, t)
		return nil
	}
	return writeSinks(ctx, cfg, b)
}

// connectWithRetry calls connect with exponential backoff, starting at 1s
// and doubling up to 30s, giving up after maxAttempts.
func connectWithRetry(ctx context.Context, name string, connect func() error, maxAttempts int) error {
	delay := 1 * time.Second
	maxDelay := 30 * time.Second

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = connect(); err == nil {
			log.Printf("[%s] connected successfully (attempt %d)", name, attempt)
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		log.Printf("[%s] connect attempt %d/%d failed: %v (retry in %v)",
			name, attempt, maxAttempts, err, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return err
}
