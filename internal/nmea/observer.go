package nmea

import (
	"log"
	"strings"
	"sync"

	gonmea "github.com/adrianmo/go-nmea"
)

// Observer receives per-sentence decode outcomes from a Runner. Sentences
// of other types are not reported.
type Observer interface {
	Decoded(raw string, s Sentence, r Record)
	Failed(raw string, err error)
}

// Observers fans out to several observers in order.
type Observers []Observer

func (o Observers) Decoded(raw string, s Sentence, r Record) {
	for _, ob := range o {
		ob.Decoded(raw, s, r)
	}
}

func (o Observers) Failed(raw string, err error) {
	for _, ob := range o {
		ob.Failed(raw, err)
	}
}

// LogObserver prints every decoded sentence field by field.
type LogObserver struct {
	// Logger defaults to the standard logger.
	Logger *log.Logger

	n int
}

func (l *LogObserver) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

func (l *LogObserver) Decoded(raw string, s Sentence, r Record) {
	l.n++
	lg := l.logger()
	t := r.Type()
	lg.Printf("[nmea] --- %v sentence %d ---", t, l.n)
	names := Components(t, len(s.Fields))
	for i, v := range s.Fields {
		lg.Printf("[nmea]  %s: %s", names[i], v)
	}
	if s.Checksum != "" {
		lg.Printf("[nmea]  Checksum: %s", s.Checksum)
	}
	cols := SchemaFor(t, &Batch{Type: t, Records: []Record{r}})
	vals := r.Values()
	parts := make([]string, 0, len(cols))
	for i := range cols {
		if i < len(vals) {
			parts = append(parts, cols[i]+"="+vals[i])
		}
	}
	lg.Printf("[nmea]  => %s", strings.Join(parts, " "))
}

func (l *LogObserver) Failed(raw string, err error) {
	l.logger().Printf("[nmea] error processing sentence %q: %v", raw, err)
}

// ChecksumAuditor recomputes the XOR checksum of each decoded sentence and
// counts mismatches. It only reports; decoding is unaffected.
type ChecksumAuditor struct {
	// OnMismatch, if set, is called for each mismatch.
	OnMismatch func(raw, want, got string)

	mu         sync.Mutex
	checked    int
	mismatches int
}

func (a *ChecksumAuditor) Decoded(raw string, s Sentence, r Record) {
	if s.Checksum == "" {
		return
	}
	got := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(s.Checksum, "*")))
	want := gonmea.Checksum(s.Payload())

	a.mu.Lock()
	a.checked++
	bad := got != want
	if bad {
		a.mismatches++
	}
	a.mu.Unlock()

	if bad {
		log.Printf("[nmea] checksum mismatch: want *%s, got %s in %q", want, s.Checksum, raw)
		if a.OnMismatch != nil {
			a.OnMismatch(raw, want, got)
		}
	}
}

func (a *ChecksumAuditor) Failed(string, error) {}

// Counts returns how many checksums were checked and how many mismatched.
func (a *ChecksumAuditor) Counts() (checked, mismatches int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checked, a.mismatches
}
