package cli

import (
	"context"

	"github.com/go-mizu/blueprints/formulaengine/store"
	"github.com/go-mizu/blueprints/formulaengine/store/factory"
)

// backendFlags are the --sqlite/--postgres switches shared by commands that
// touch a store; duckdb is the default when neither is set.
type backendFlags struct {
	useSQLite   bool
	usePostgres bool
}

func (b backendFlags) open(ctx context.Context) (store.Store, error) {
	cfg := factory.Config{Path: dbPath, DSN: postgresDSN}
	switch {
	case b.usePostgres:
		cfg.Backend = factory.BackendPostgres
	case b.useSQLite:
		cfg.Backend = factory.BackendSQLite
	default:
		cfg.Backend = factory.BackendDuckDB
	}
	return factory.Open(ctx, cfg)
}
