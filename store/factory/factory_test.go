package factory

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenDefaultsToDuckDB(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(context.Background(), Config{Path: filepath.Join(dir, "default.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close() //nolint:errcheck
}

func TestOpenSQLite(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(context.Background(), Config{
		Backend: BackendSQLite,
		Path:    filepath.Join(dir, "sqlite.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close() //nolint:errcheck
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: Backend("bogus")})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
