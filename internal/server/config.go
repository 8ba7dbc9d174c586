package server

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/shaunagostinho/nmeatab/internal/export"
	"github.com/shaunagostinho/nmeatab/internal/logger"
	"github.com/shaunagostinho/nmeatab/internal/nmea"
	"github.com/shaunagostinho/nmeatab/internal/publish"
	"github.com/shaunagostinho/nmeatab/internal/store"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "/etc/nmeatab/config.yaml"

// Config holds all decoder configuration.
type Config struct {
	mu sync.RWMutex

	Decode DecodeConfig   `yaml:"decode" json:"decode"`
	Input  InputConfig    `yaml:"input" json:"input"`
	Output OutputConfig   `yaml:"output" json:"output"`
	MQTT   publish.Config `yaml:"mqtt" json:"mqtt"`
	Server ServerConfig   `yaml:"server" json:"server"`

	path string // file path for save/load
}

type DecodeConfig struct {
	Mode           string `yaml:"mode" json:"mode"` // GGA, GLL, GSA, RMC, VTG or GSV
	Verbose        bool   `yaml:"verbose" json:"verbose"`
	AuditChecksums bool   `yaml:"audit_checksums" json:"auditChecksums"`
}

type InputConfig struct {
	Path string `yaml:"path" json:"path"` // NMEA text file
}

// OutputConfig groups the batch sinks.
type OutputConfig struct {
	CSV    logger.Config     `yaml:"csv" json:"csv"`
	SQLite store.Config      `yaml:"sqlite" json:"sqlite"`
	KML    export.KMLConfig  `yaml:"kml" json:"kml"`
	Plot   export.PlotConfig `yaml:"plot" json:"plot"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listenAddr"`
	Metrics    bool   `yaml:"metrics" json:"metrics"` // Expose /metrics
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Decode: DecodeConfig{
			Mode: "GGA",
		},
		Input: InputConfig{
			Path: "nmea_data.txt",
		},
		Output: OutputConfig{
			CSV: logger.Config{
				Enabled: true,
				Path:    "nmea_output.csv",
			},
			SQLite: store.Config{
				Path: "nmea_output.db",
			},
			KML: export.KMLConfig{
				Path: "nmea_track.kml",
			},
			Plot: export.PlotConfig{
				Path:     "nmea_track.png",
				WidthCm:  16,
				HeightCm: 16,
			},
		},
		MQTT: publish.Config{
			Broker:   "tcp://localhost:1883",
			ClientID: "nmeatab",
			Topic:    "nmea",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			Metrics:    true,
		},
	}
}

// LoadConfig reads config from a YAML file, then applies .env and environment
// variable overrides. Falls back to defaults if YAML not found.
func LoadConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] no config at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("[config] error parsing %s: %v, using defaults", path, err)
		cfg = DefaultConfig()
		cfg.path = path
	} else {
		log.Printf("[config] loaded from %s", path)
	}

	// .env next to the config first, then CWD
	envPaths := []string{
		filepath.Join(filepath.Dir(path), ".env"),
		".env",
	}
	for _, ep := range envPaths {
		loadEnvFile(ep)
	}

	cfg.applyEnvOverrides()
	return cfg
}

// loadEnvFile reads a simple KEY=VALUE .env file and sets os env vars.
func loadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	log.Printf("[config] loading .env from %s", path)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		// Real env takes precedence
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

func envBool(v string) bool {
	return v == "1" || v == "true" || v == "yes"
}

// applyEnvOverrides reads environment variables and overrides config values.
// Supported: NMEA_MODE, NMEA_INPUT, NMEA_VERBOSE, CSV_PATH, CSV_MAX_ROWS,
// SQLITE_PATH, KML_PATH, PLOT_PATH, MQTT_BROKER, MQTT_TOPIC, LISTEN_ADDR
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NMEA_MODE"); v != "" {
		c.Decode.Mode = v
	}
	if v := os.Getenv("NMEA_INPUT"); v != "" {
		c.Input.Path = v
	}
	if v := os.Getenv("NMEA_VERBOSE"); v != "" {
		c.Decode.Verbose = envBool(v)
	}
	// Setting a sink path enables the sink
	if v := os.Getenv("CSV_PATH"); v != "" {
		c.Output.CSV.Path = v
		c.Output.CSV.Enabled = true
	}
	if v := os.Getenv("CSV_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Output.CSV.MaxRows = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Output.SQLite.Path = v
		c.Output.SQLite.Enabled = true
	}
	if v := os.Getenv("KML_PATH"); v != "" {
		c.Output.KML.Path = v
		c.Output.KML.Enabled = true
	}
	if v := os.Getenv("PLOT_PATH"); v != "" {
		c.Output.Plot.Path = v
		c.Output.Plot.Enabled = true
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
		c.MQTT.Enabled = true
	}
	if v := os.Getenv("MQTT_TOPIC"); v != "" {
		c.MQTT.Topic = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
}

// Mode returns the configured sentence type.
func (c *Config) Mode() (nmea.Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return nmea.ParseType(c.Decode.Mode)
}

// ListenAddr returns the configured HTTP listen address.
func (c *Config) ListenAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Server.ListenAddr
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Save writes the config to its YAML file.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.path
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToJSON serializes config for the API.
func (c *Config) ToJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c)
}

// UpdateFromJSON applies a partial JSON config update by deep-merging
// incoming fields into the existing config. Fields not present in the
// incoming JSON are preserved. An unknown decode mode is rejected.
func (c *Config) UpdateFromJSON(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentBytes, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal current config: %w", err)
	}
	var base map[string]interface{}
	if err := json.Unmarshal(currentBytes, &base); err != nil {
		return fmt.Errorf("unmarshal current config: %w", err)
	}

	var patch map[string]interface{}
	if err := json.Unmarshal(data, &patch); err != nil {
		return fmt.Errorf("unmarshal patch: %w", err)
	}

	deepMerge(base, patch)

	merged, err := json.Marshal(base)
	if err != nil {
		return fmt.Errorf("marshal merged config: %w", err)
	}
	var next Config
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("unmarshal merged config: %w", err)
	}
	if _, err := nmea.ParseType(next.Decode.Mode); err != nil {
		return err
	}
	c.Decode = next.Decode
	c.Input = next.Input
	c.Output = next.Output
	c.MQTT = next.MQTT
	c.Server = next.Server
	return nil
}

// deepMerge recursively merges src into dst. For nested maps, values are
// merged rather than replaced. For all other types, src overwrites dst.
func deepMerge(dst, src map[string]interface{}) {
	for key, srcVal := range src {
		if srcMap, ok := srcVal.(map[string]interface{}); ok {
			if dstMap, ok := dst[key].(map[string]interface{}); ok {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = srcVal
	}
}
