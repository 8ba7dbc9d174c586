package nmea

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

const maxLineBytes = 64 * 1024

// Reader yields the non-blank lines of a text source, trimmed, in order.
// It is single-pass.
type Reader struct {
	sc     *bufio.Scanner
	closer io.Closer
	line   string
	err    error
}

// NewReader reads lines from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	rd := &Reader{sc: sc}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// Open reads lines from the file at path. A missing file yields an empty
// Reader together with an error wrapping ErrSourceNotFound, so callers
// can report it and carry on.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewReader(strings.NewReader("")), fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}

// Next advances to the next non-blank line.
func (r *Reader) Next() bool {
	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		r.line = line
		return true
	}
	r.err = r.sc.Err()
	r.line = ""
	return false
}

// Text returns the current line.
func (r *Reader) Text() string { return r.line }

// Err returns the first read error, if any.
func (r *Reader) Err() error { return r.err }

// Close closes the underlying source if it is closable.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadAll drains r into a slice.
func ReadAll(r *Reader) ([]string, error) {
	var lines []string
	for r.Next() {
		lines = append(lines, r.Text())
	}
	return lines, r.Err()
}

// ReadLines reads every non-blank line from the file at path. For a
// missing file it returns no lines and an error wrapping ErrSourceNotFound.
func ReadLines(path string) ([]string, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadAll(r)
}
