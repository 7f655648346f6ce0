package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return st
}

func TestCellStoreFormulaRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.Cell().SetFormula(ctx, "sheet1", 0, 0, "=A2+B2"); err != nil {
		t.Fatalf("set formula: %v", err)
	}
	f, v, err := st.Cell().Get(ctx, "sheet1", 0, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f != "=A2+B2" {
		t.Fatalf("expected formula persisted, got %q", f)
	}
	if v.Kind != formula.KindEmpty {
		t.Fatalf("expected empty value before recalculation, got %#v", v)
	}
}

func TestCellStoreUnsetCellIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	f, v, err := st.Cell().Get(ctx, "sheet1", 5, 5)
	if err != nil {
		t.Fatalf("get unset cell: %v", err)
	}
	if f != "" {
		t.Fatalf("expected no formula, got %q", f)
	}
	if v.Kind != formula.KindEmpty {
		t.Fatalf("expected Empty value, got %#v", v)
	}
}

func TestCellStoreSetValueThenGetRange(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.Cell().SetValue(ctx, "sheet1", 0, 0, formula.Number(1)); err != nil {
		t.Fatalf("set A1: %v", err)
	}
	if err := st.Cell().SetValue(ctx, "sheet1", 0, 1, formula.Text("hi")); err != nil {
		t.Fatalf("set B1: %v", err)
	}

	grid, err := st.Cell().GetRange(ctx, "sheet1", 0, 0, 1, 1)
	if err != nil {
		t.Fatalf("get range: %v", err)
	}
	if len(grid) != 2 || len(grid[0]) != 2 {
		t.Fatalf("expected 2x2 grid, got %dx%d", len(grid), len(grid[0]))
	}
	if grid[0][0].Num != 1 {
		t.Fatalf("expected A1=1, got %#v", grid[0][0])
	}
	if grid[0][1].Str != "hi" {
		t.Fatalf("expected B1=hi, got %#v", grid[0][1])
	}
	if grid[1][0].Kind != formula.KindEmpty {
		t.Fatalf("expected A2 empty, got %#v", grid[1][0])
	}
}

func TestCellStoreSetValueClearsFormula(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.Cell().SetFormula(ctx, "sheet1", 0, 0, "=1+1"); err != nil {
		t.Fatalf("set formula: %v", err)
	}
	if err := st.Cell().SetValue(ctx, "sheet1", 0, 0, formula.Number(42)); err != nil {
		t.Fatalf("set value: %v", err)
	}
	f, v, err := st.Cell().Get(ctx, "sheet1", 0, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f != "" {
		t.Fatalf("expected formula cleared, got %q", f)
	}
	if v.Num != 42 {
		t.Fatalf("expected 42, got %#v", v)
	}
}

func TestCellStoreListFormulaCells(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.Cell().SetFormula(ctx, "sheet1", 0, 0, "=1+1"); err != nil {
		t.Fatalf("set A1: %v", err)
	}
	if err := st.Cell().SetValue(ctx, "sheet1", 1, 0, formula.Number(5)); err != nil {
		t.Fatalf("set A2: %v", err)
	}

	cells, err := st.Cell().ListFormulaCells(ctx, "sheet1")
	if err != nil {
		t.Fatalf("list formula cells: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("expected 1 formula cell, got %d", len(cells))
	}
	if src, ok := cells[formula.Address{Row: 0, Col: 0}]; !ok || src != "=1+1" {
		t.Fatalf("expected A1 formula tracked, got %#v", cells)
	}
}

func TestWorkbookAndSheetCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	wb := &store.Workbook{ID: "wb1", Name: "Budget"}
	if err := st.Workbook().Create(ctx, wb); err != nil {
		t.Fatalf("create workbook: %v", err)
	}

	sh := &store.Sheet{ID: "sh1", WorkbookID: wb.ID, Name: "Sheet1", Index: 0}
	if err := st.Sheet().Create(ctx, sh); err != nil {
		t.Fatalf("create sheet: %v", err)
	}

	sheets, err := st.Sheet().ListByWorkbook(ctx, wb.ID)
	if err != nil {
		t.Fatalf("list sheets: %v", err)
	}
	if len(sheets) != 1 || sheets[0].Name != "Sheet1" {
		t.Fatalf("expected one sheet named Sheet1, got %#v", sheets)
	}

	if err := st.Workbook().Delete(ctx, wb.ID); err != nil {
		t.Fatalf("delete workbook: %v", err)
	}
	if _, err := st.Workbook().Get(ctx, wb.ID); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
