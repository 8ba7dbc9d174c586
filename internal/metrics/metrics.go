// Package metrics exposes decode outcome counters for Prometheus.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

var (
	decoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmea_sentences_decoded_total",
			Help: "Sentences decoded into records.",
		},
		[]string{"mode"},
	)
	failed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmea_sentences_failed_total",
			Help: "Sentences of the selected type that could not be decoded.",
		},
		[]string{"mode"},
	)
	skipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmea_sentences_skipped_total",
			Help: "Sentences of other types skipped while decoding.",
		},
		[]string{"mode"},
	)
	mismatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmea_checksum_mismatch_total",
			Help: "Decoded sentences whose checksum did not match the payload.",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(decoded)
	prometheus.MustRegister(failed)
	prometheus.MustRegister(skipped)
	prometheus.MustRegister(mismatches)
}

func label(t nmea.Type) prometheus.Labels {
	return prometheus.Labels{"mode": strings.ToLower(t.String())}
}

// Observer records batch outcomes for one mode.
type Observer struct {
	Mode nmea.Type
}

// RecordBatch adds the batch tallies to the counters.
func (o Observer) RecordBatch(b *nmea.Batch) {
	if b == nil {
		return
	}
	l := label(o.Mode)
	decoded.With(l).Add(float64(b.Len()))
	failed.With(l).Add(float64(b.Failed))
	skipped.With(l).Add(float64(b.Skipped))
}

// ChecksumMismatch counts one checksum mismatch. Its signature matches
// nmea.ChecksumAuditor.OnMismatch.
func (o Observer) ChecksumMismatch(raw, want, got string) {
	mismatches.With(label(o.Mode)).Inc()
}

// RecordBatch records b under its own mode.
func RecordBatch(b *nmea.Batch) {
	if b == nil {
		return
	}
	Observer{Mode: b.Type}.RecordBatch(b)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
