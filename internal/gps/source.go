package gps

import (
	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

// Source is the interface for NMEA line sources.
type Source interface {
	Name() string
	// Lines returns every sentence line of the source, trimmed, blank
	// lines removed.
	Lines() ([]string, error)
}

// FileSource reads sentences from a text file, one per line.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (f *FileSource) Name() string { return "file " + f.Path }

// Lines reads the whole file. A missing file returns no lines and an
// error wrapping nmea.ErrSourceNotFound.
func (f *FileSource) Lines() ([]string, error) {
	return nmea.ReadLines(f.Path)
}
