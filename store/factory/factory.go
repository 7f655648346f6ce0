// Package factory selects a concrete store.Store backend from a small
// Config, mirroring blueprints/book/store/factory's DuckDB-by-default
// selection but adding the sqlite/postgres choices formulaengine serve
// exposes as flags.
package factory

import (
	"context"
	"fmt"

	"github.com/go-mizu/blueprints/formulaengine/store"
	"github.com/go-mizu/blueprints/formulaengine/store/duckdb"
	"github.com/go-mizu/blueprints/formulaengine/store/postgres"
	"github.com/go-mizu/blueprints/formulaengine/store/sqlite"
)

// Backend names a store implementation.
type Backend string

const (
	// BackendDuckDB is the default: an embedded analytical store, good for
	// bulk range scans on import/export.
	BackendDuckDB Backend = "duckdb"
	// BackendSQLite is the lightweight single-file embedded store.
	BackendSQLite Backend = "sqlite"
	// BackendPostgres is the shared, server-mode store.
	BackendPostgres Backend = "postgres"
)

// Config picks a backend and its connection target.
type Config struct {
	Backend Backend

	// Path is the database file path for duckdb/sqlite.
	Path string
	// DSN is the connection string for postgres.
	DSN string
}

// Open opens the backend named by cfg.Backend and ensures its schema
// exists. An empty Backend selects DuckDB, the default embedded store; an
// unrecognized Backend is an error.
func Open(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.Backend {
	case BackendSQLite:
		s, err = sqlite.New(cfg.Path)
	case BackendPostgres:
		s, err = postgres.New(cfg.DSN)
	case BackendDuckDB, "":
		s, err = duckdb.New(cfg.Path)
	default:
		return nil, fmt.Errorf("factory: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Ensure(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}
