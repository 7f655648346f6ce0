// Package duckdb is the analytical-grid Store backend: DuckDB excels at
// scanning whole sheets (bulk GetRange, import/export), which is the access
// pattern formulaengine serve favors once a workbook grows past a handful
// of sheets.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/go-mizu/blueprints/formulaengine/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS workbooks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sheets (
	id TEXT PRIMARY KEY,
	workbook_id TEXT NOT NULL REFERENCES workbooks(id),
	name TEXT NOT NULL,
	idx INTEGER NOT NULL DEFAULT 0,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sheets_workbook ON sheets(workbook_id);

CREATE TABLE IF NOT EXISTS cells (
	sheet_id TEXT NOT NULL,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	formula TEXT NOT NULL DEFAULT '',
	value_kind INTEGER NOT NULL DEFAULT 4,
	value_payload TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (sheet_id, row, col)
);
`

// Store is the DuckDB-backed implementation of store.Store.
type Store struct {
	db *sql.DB

	workbook *WorkbookStore
	sheet    *SheetStore
	cell     *CellStore
}

// New opens (or creates) a DuckDB database file at dbPath.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	s.workbook = &WorkbookStore{db: db}
	s.sheet = &SheetStore{db: db}
	s.cell = &CellStore{db: db}
	return s, nil
}

// Ensure creates the schema if it doesn't already exist.
func (s *Store) Ensure(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Workbook() store.WorkbookStore { return s.workbook }
func (s *Store) Sheet() store.SheetStore       { return s.sheet }
func (s *Store) Cell() store.CellStore         { return s.cell }

var _ store.Store = (*Store)(nil)
