package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-mizu/mizu"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
	"github.com/go-mizu/blueprints/formulaengine/store/sqlite"
)

func newTestHandler(t *testing.T) (*Cells, store.Store) {
	t.Helper()
	dir := t.TempDir()
	st, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	engine := formula.NewEngine()
	graph := formula.NewDependencyGraph()
	lookup := func(ctx context.Context, sheetID string) (*formula.DependencyGraph, error) {
		return graph, nil
	}
	return NewCells(st, engine, lookup), st
}

func TestCellsSetAndGet(t *testing.T) {
	handler, st := newTestHandler(t)
	if err := st.Cell().SetValue(context.Background(), "sheet1", 1, 0, formula.Number(5)); err != nil {
		t.Fatalf("seed A2: %v", err)
	}

	app := mizu.New()
	app.Post("/sheets/{sheetID}/cells/{ref}", handler.Set)
	app.Get("/sheets/{sheetID}/cells/{ref}", handler.Get)

	body := strings.NewReader(`{"formula":"=A2+1"}`)
	req := httptest.NewRequest(http.MethodPost, "/sheets/sheet1/cells/A1", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var setResp struct {
		Changed []cellResult `json:"changed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &setResp); err != nil {
		t.Fatalf("unmarshal set response: %v", err)
	}
	if len(setResp.Changed) != 1 || setResp.Changed[0].Value.(float64) != 6 {
		t.Fatalf("expected A1 recalculated to 6, got %#v", setResp.Changed)
	}

	req = httptest.NewRequest(http.MethodGet, "/sheets/sheet1/cells/A1", nil)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var getResp cellResult
	if err := json.Unmarshal(rec.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("unmarshal get response: %v", err)
	}
	if getResp.Formula != "=A2+1" {
		t.Fatalf("expected formula persisted, got %q", getResp.Formula)
	}
}

func TestCellsGetInvalidRef(t *testing.T) {
	handler, _ := newTestHandler(t)
	app := mizu.New()
	app.Get("/sheets/{sheetID}/cells/{ref}", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/sheets/sheet1/cells/not-a-ref", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid ref, got %d", rec.Code)
	}
}

func TestCellsReferences(t *testing.T) {
	handler, st := newTestHandler(t)
	if err := st.Cell().SetFormula(context.Background(), "sheet1", 0, 0, "=B1+C1"); err != nil {
		t.Fatalf("seed A1: %v", err)
	}

	app := mizu.New()
	app.Get("/sheets/{sheetID}/cells/{ref}/references", handler.References)

	req := httptest.NewRequest(http.MethodGet, "/sheets/sheet1/cells/A1/references", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		References []string `json:"references"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal references response: %v", err)
	}
	if len(resp.References) != 2 {
		t.Fatalf("expected 2 references, got %#v", resp.References)
	}
}
