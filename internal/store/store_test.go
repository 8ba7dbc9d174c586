package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nmea.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteBatch_RoundTripsRows(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	b, _ := nmea.DecodeBatch([]string{
		"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A",
		"$GPRMC,123520,A,4807.048,N,01131.010,E,022.4,084.4,230394*7C",
	}, nmea.TypeRMC)

	n, err := s.WriteBatch(ctx, b)
	if err != nil || n != 2 {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	schema, rows, err := s.Rows(ctx, nmea.TypeRMC)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if !reflect.DeepEqual(schema, b.Schema()) {
		t.Fatalf("schema %q, want %q", schema, b.Schema())
	}
	if !reflect.DeepEqual(rows, b.Rows()) {
		t.Fatalf("rows %q, want %q", rows, b.Rows())
	}
}

func TestWriteBatch_GSVWidthFollowsBatch(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	wide, _ := nmea.DecodeBatch([]string{"$GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00*74"}, nmea.TypeGSV)
	if _, err := s.WriteBatch(ctx, wide); err != nil {
		t.Fatalf("write wide: %v", err)
	}
	narrow, _ := nmea.DecodeBatch([]string{"$GPGSV,3,3,11,22,42,067,42*48"}, nmea.TypeGSV)
	if _, err := s.WriteBatch(ctx, narrow); err != nil {
		t.Fatalf("write narrow: %v", err)
	}
	schema, rows, err := s.Rows(ctx, nmea.TypeGSV)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(schema) != 7 || len(rows) != 1 || rows[0][6] != "*48" {
		t.Fatalf("unexpected table %q %q", schema, rows)
	}
}

func TestTableName(t *testing.T) {
	if got := TableName(nmea.TypeVTG); got != "vtg_rows" {
		t.Fatalf("got %q", got)
	}
}
