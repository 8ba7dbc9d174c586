package logger

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

// Logger writes decoded batches to CSV files with automatic rotation.
// Every file starts with the batch schema as its header row.
type Logger struct {
	mu      sync.Mutex
	path    string
	maxRows int

	file   *os.File
	writer *csv.Writer
	header []string
	rows   int
	part   int
	paths  []string
}

// Config holds logger configuration.
type Config struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	MaxRows int    `yaml:"max_rows" json:"maxRows"` // 0 = never rotate
}

const defaultPath = "nmea_output.csv"

// New creates a new Logger.
func New(cfg Config) *Logger {
	if cfg.Path == "" {
		cfg.Path = defaultPath
	}
	if cfg.MaxRows < 0 {
		cfg.MaxRows = 0
	}
	return &Logger{
		path:    cfg.Path,
		maxRows: cfg.MaxRows,
	}
}

// WriteBatch writes b's schema and rows, rotating to a new numbered file
// whenever MaxRows is reached. An empty batch writes nothing. It returns
// the paths written.
func (l *Logger) WriteBatch(b *nmea.Batch) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b.Empty() {
		log.Printf("[logger] no valid %v data found to save", b.Type)
		return nil, nil
	}

	l.header = b.Schema()
	l.part = 0
	l.paths = nil
	if err := l.rotateFile(); err != nil {
		return nil, err
	}
	for _, row := range b.Rows() {
		if l.maxRows > 0 && l.rows >= l.maxRows {
			if err := l.rotateFile(); err != nil {
				l.closeFile()
				return l.paths, err
			}
		}
		if err := l.writer.Write(row); err != nil {
			name := l.file.Name()
			l.closeFile()
			return l.paths, fmt.Errorf("write %s: %w", name, err)
		}
		l.rows++
	}
	if err := l.closeFile(); err != nil {
		return l.paths, err
	}
	log.Printf("[logger] %s rows of %v data saved to %s",
		humanize.Comma(int64(b.Len())), b.Type, strings.Join(l.paths, ", "))
	return l.paths, nil
}

// Close flushes and closes the current file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFile()
}

// partPath returns the path of rotation part n: the configured path for
// n == 0, then name_1.csv, name_2.csv, ...
func (l *Logger) partPath(n int) string {
	if n == 0 {
		return l.path
	}
	ext := filepath.Ext(l.path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(l.path, ext), n, ext)
}

func (l *Logger) rotateFile() error {
	if err := l.closeFile(); err != nil {
		return err
	}

	path := l.partPath(l.part)
	l.part++
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	l.file = f
	l.writer = csv.NewWriter(f)
	l.rows = 0
	l.paths = append(l.paths, path)

	// Write header
	l.writer.Write(l.header)
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.closeFile()
		return fmt.Errorf("write header %s: %w", path, err)
	}
	log.Printf("[logger] opened %s", path)
	return nil
}

func (l *Logger) closeFile() error {
	var err error
	if l.writer != nil {
		l.writer.Flush()
		err = l.writer.Error()
		l.writer = nil
	}
	if l.file != nil {
		if cerr := l.file.Close(); err == nil {
			err = cerr
		}
		l.file = nil
	}
	return err
}
