package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaunagostinho/nmeatab/internal/export"
	"github.com/shaunagostinho/nmeatab/internal/gps"
	"github.com/shaunagostinho/nmeatab/internal/metrics"
	"github.com/shaunagostinho/nmeatab/internal/nmea"
	"github.com/shaunagostinho/nmeatab/internal/store"
)

// NoDataMessage is attached to frames whose batch decoded nothing.
const NoDataMessage = "no valid data found"

const (
	maxDecodeBody = 8 << 20
	// maxFeedLines bounds the rolling window decoded by the demo feed.
	maxFeedLines = 1200
)

// Server decodes NMEA text on request and broadcasts each result to
// WebSocket clients.
type Server struct {
	cfg   *Config
	webFS fs.FS

	clients   map[*wsClient]struct{}
	clientsMu sync.RWMutex

	upgrader websocket.Upgrader

	// store, if set, keeps every ingested batch and serves /api/rows.
	store *store.Store

	lastMu    sync.RWMutex
	last      map[nmea.Type]*nmea.Batch
	lastTrack gps.Track
	lastFrame *Frame
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Frame is the JSON structure sent to all WebSocket clients after every
// decode.
type Frame struct {
	Mode    string      `json:"mode"`
	Schema  nmea.Schema `json:"schema"`
	Rows    [][]string  `json:"rows"`
	Track   gps.Track   `json:"track,omitempty"`
	Center  *Position   `json:"center,omitempty"` // Mean track position
	Decoded int         `json:"decoded"`
	Failed  int         `json:"failed"`
	Skipped int         `json:"skipped"`
	Message string      `json:"message,omitempty"`
	Stamp   int64       `json:"stamp"` // Unix ms
}

// Position is a latitude/longitude pair in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func center(t gps.Track) *Position {
	lat, lon, ok := t.Center()
	if !ok {
		return nil
	}
	return &Position{Latitude: lat, Longitude: lon}
}

// New creates a new Server.
func New(cfg *Config, webFS fs.FS) *Server {
	return &Server{
		cfg:     cfg,
		webFS:   webFS,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		last: make(map[nmea.Type]*nmea.Batch),
	}
}

// WithStore makes the server persist every ingested batch to st.
func (s *Server) WithStore(st *store.Store) *Server {
	s.store = st
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.webFS != nil {
		mux.Handle("/", http.FileServer(http.FS(s.webFS)))
	}
	mux.HandleFunc("/ws", s.handleWS)

	mux.HandleFunc("/api/decode", s.handleDecode)
	mux.HandleFunc("/api/schema", s.handleSchema)
	mux.HandleFunc("/api/rows", s.handleRows)
	mux.HandleFunc("/api/track", s.handleTrack)
	mux.HandleFunc("/api/track.kml", s.handleTrackKML)
	mux.HandleFunc("/api/track.png", s.handleTrackPNG)
	mux.HandleFunc("/api/config", s.handleConfig)

	s.cfg.mu.RLock()
	withMetrics := s.cfg.Server.Metrics
	s.cfg.mu.RUnlock()
	if withMetrics {
		mux.Handle("/metrics", metrics.Handler())
	}
	return mux
}

// Run starts the HTTP server. If demo is non-nil, a simulated receiver is
// decoded once per second in the configured mode.
func (s *Server) Run(ctx context.Context, demo *gps.DemoSource) error {
	if demo != nil {
		go s.feedLoop(ctx, demo)
	}

	addr := s.cfg.ListenAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Printf("[server] listening on %s", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// feedLoop decodes a rolling window of demo sentences every second.
func (s *Server) feedLoop(ctx context.Context, demo *gps.DemoSource) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var window []string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			window = append(window, demo.Next()...)
			if len(window) > maxFeedLines {
				window = window[len(window)-maxFeedLines:]
			}
			t, err := s.cfg.Mode()
			if err != nil {
				log.Printf("[server] %v", err)
				continue
			}
			s.Ingest(window, t)
		}
	}
}

// Ingest decodes lines as type t, remembers the batch and broadcasts the
// resulting frame.
func (s *Server) Ingest(lines []string, t nmea.Type) Frame {
	s.cfg.mu.RLock()
	audit := s.cfg.Decode.AuditChecksums
	s.cfg.mu.RUnlock()

	var runner nmea.Runner
	if audit {
		runner.Observer = &nmea.ChecksumAuditor{
			OnMismatch: metrics.Observer{Mode: t}.ChecksumMismatch,
		}
	}
	b, _ := runner.DecodeBatch(lines, t)
	metrics.RecordBatch(b)

	frame := Frame{
		Mode:    t.String(),
		Schema:  b.Schema(),
		Rows:    b.Rows(),
		Decoded: b.Len(),
		Failed:  b.Failed,
		Skipped: b.Skipped,
		Stamp:   time.Now().UnixMilli(),
	}
	if frame.Rows == nil {
		frame.Rows = [][]string{}
	}
	if b.Empty() {
		frame.Message = NoDataMessage
	}

	track := gps.FromBatch(b)
	frame.Track = track
	frame.Center = center(track)

	if s.store != nil && !b.Empty() {
		if _, err := s.store.WriteBatch(context.Background(), b); err != nil {
			log.Printf("[server] store: %v", err)
		}
	}

	s.lastMu.Lock()
	s.last[t] = b
	if len(track) > 0 {
		s.lastTrack = track
	}
	s.lastFrame = &frame
	s.lastMu.Unlock()

	s.broadcast(frame)
	return frame
}

// Batch returns the last batch decoded as type t.
func (s *Server) Batch(t nmea.Type) *nmea.Batch {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last[t]
}

// Track returns the track of the last position-bearing batch.
func (s *Server) Track() gps.Track {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.lastTrack
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 64),
	}

	s.clientsMu.Lock()
	s.clients[client] = struct{}{}
	n := len(s.clients)
	s.clientsMu.Unlock()

	log.Printf("[ws] client connected (%d total)", n)

	// Late joiners get the latest frame
	s.lastMu.RLock()
	last := s.lastFrame
	s.lastMu.RUnlock()
	if last != nil {
		if data, err := json.Marshal(last); err == nil {
			client.send <- data
		}
	}

	go func() {
		defer conn.Close()
		for msg := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, client)
			n := len(s.clients)
			close(client.send)
			s.clientsMu.Unlock()
			log.Printf("[ws] client disconnected (%d total)", n)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// modeParam reads ?mode=, falling back to the configured mode.
func (s *Server) modeParam(r *http.Request) (nmea.Type, error) {
	if m := r.URL.Query().Get("mode"); m != "" {
		return nmea.ParseType(m)
	}
	return s.cfg.Mode()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	t, err := s.modeParam(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	lines, err := nmea.ReadAll(nmea.NewReader(io.LimitReader(r.Body, maxDecodeBody)))
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	frame := s.Ingest(lines, t)
	log.Printf("[server] decoded %d %s sentences (%d failed, %d skipped)",
		frame.Decoded, frame.Mode, frame.Failed, frame.Skipped)
	writeJSON(w, frame)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	t, err := s.modeParam(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	writeJSON(w, struct {
		Mode   string      `json:"mode"`
		Schema nmea.Schema `json:"schema"`
	}{t.String(), nmea.SchemaFor(t, s.Batch(t))})
}

// handleRows serves the rows persisted for ?mode= from SQLite.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "sqlite output disabled", 404)
		return
	}
	t, err := s.modeParam(r)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	schema, rows, err := s.store.Rows(r.Context(), t)
	if err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	if rows == nil {
		rows = [][]string{}
	}
	writeJSON(w, struct {
		Mode   string      `json:"mode"`
		Schema nmea.Schema `json:"schema"`
		Rows   [][]string  `json:"rows"`
	}{t.String(), schema, rows})
}

// handleTrack returns the current track (GET) or replaces it with a
// latitude,longitude,altitude CSV upload (POST).
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.trackFrame(s.Track()))

	case http.MethodPost:
		track, err := gps.ReadTrackCSV(io.LimitReader(r.Body, maxDecodeBody))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		frame := s.trackFrame(track)
		if len(track) == 0 {
			frame.Message = NoDataMessage
		} else {
			s.lastMu.Lock()
			s.lastTrack = track
			s.lastMu.Unlock()
			s.broadcast(frame)
		}
		log.Printf("[server] imported %d track points", len(track))
		writeJSON(w, frame)

	default:
		http.Error(w, "method not allowed", 405)
	}
}

// trackFrame wraps a track with no decoded rows.
func (s *Server) trackFrame(t gps.Track) Frame {
	return Frame{
		Schema: nmea.Schema{},
		Rows:   [][]string{},
		Track:  t,
		Center: center(t),
		Stamp:  time.Now().UnixMilli(),
	}
}

func (s *Server) handleTrackKML(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteKML(&buf, "NMEA track", s.Track()); err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Write(buf.Bytes())
}

func (s *Server) handleTrackPNG(w http.ResponseWriter, r *http.Request) {
	s.cfg.mu.RLock()
	plotCfg := s.cfg.Output.Plot
	s.cfg.mu.RUnlock()

	var buf bytes.Buffer
	if err := export.WritePNG(&buf, "NMEA track", s.Track(), plotCfg); err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.cfg.ToJSON()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		if err := s.cfg.UpdateFromJSON(body); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := s.cfg.Save(); err != nil {
			log.Printf("[config] save failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))

	default:
		http.Error(w, "method not allowed", 405)
	}
}

func (s *Server) broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			// Client too slow, skip
		}
	}
}
