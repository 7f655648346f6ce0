// Package postgres is the shared, server-mode Store backend: formulaengine
// serve --postgres points every replica at one database so a workbook can be
// edited from more than one process at a time.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

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

// Store is the Postgres-backed implementation of store.Store.
type Store struct {
	db *sql.DB

	workbook *WorkbookStore
	sheet    *SheetStore
	cell     *CellStore
}

// New opens a connection pool to a Postgres database given a standard
// "postgres://" DSN.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
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

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Workbook() store.WorkbookStore { return s.workbook }
func (s *Store) Sheet() store.SheetStore       { return s.sheet }
func (s *Store) Cell() store.CellStore         { return s.cell }

var _ store.Store = (*Store)(nil)
