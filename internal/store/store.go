package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

// Config holds SQLite sink configuration.
type Config struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// Store keeps decoded batches in SQLite, one table per sentence type.
// Columns are the batch schema, all TEXT, plus the batch position seq.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// TableName returns the table holding rows of type t, e.g. "gga_rows".
func TableName(t nmea.Type) string {
	return strings.ToLower(t.String()) + "_rows"
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// WriteBatch replaces the table for b.Type with b's rows. The table is
// recreated each time so the GSV column count always matches the batch.
// An empty batch leaves the table untouched.
func (s *Store) WriteBatch(ctx context.Context, b *nmea.Batch) (int, error) {
	if b.Empty() {
		return 0, nil
	}
	schema := b.Schema()
	table := quote(TableName(b.Type))

	cols := make([]string, 0, len(schema)+1)
	cols = append(cols, "seq INTEGER PRIMARY KEY")
	names := make([]string, 0, len(schema)+1)
	names = append(names, "seq")
	for _, c := range schema {
		cols = append(cols, quote(c)+" TEXT")
		names = append(names, quote(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, fmt.Errorf("store: drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))); err != nil {
		return 0, fmt.Errorf("store: create %s: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), placeholders))
	if err != nil {
		return 0, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	rows := b.Rows()
	for i, row := range rows {
		args := make([]interface{}, 0, len(row)+1)
		args = append(args, i)
		for _, v := range row {
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("store: insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Printf("[store] %d %v rows written to %s", len(rows), b.Type, TableName(b.Type))
	return len(rows), nil
}

// Rows reads back the stored table for type t in batch order.
func (s *Store) Rows(ctx context.Context, t nmea.Type) (nmea.Schema, [][]string, error) {
	q, err := s.db.QueryContext(ctx, "SELECT * FROM "+quote(TableName(t))+" ORDER BY seq")
	if err != nil {
		return nil, nil, err
	}
	defer q.Close()

	cols, err := q.Columns()
	if err != nil {
		return nil, nil, err
	}
	schema := nmea.Schema(cols[1:])
	var out [][]string
	for q.Next() {
		var seq int
		vals := make([]sql.NullString, len(schema))
		dest := make([]interface{}, 0, len(cols))
		dest = append(dest, &seq)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := q.Scan(dest...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = v.String
		}
		out = append(out, row)
	}
	return schema, out, q.Err()
}
