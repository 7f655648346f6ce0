package importer

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	dir := t.TempDir()
	st, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return st
}

func TestImportCSVStoresLiteralsAndFormulas(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	csvData := "1,hello,TRUE\n=A1+1,world,FALSE\n"
	n, err := ImportCSV(ctx, st, "sheet1", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 cells imported, got %d", n)
	}

	f, v, err := st.Cell().Get(ctx, "sheet1", 0, 0)
	if err != nil {
		t.Fatalf("get A1: %v", err)
	}
	if f != "" || v.Num != 1 {
		t.Fatalf("expected A1 literal 1, got formula=%q value=%#v", f, v)
	}

	f, _, err = st.Cell().Get(ctx, "sheet1", 1, 0)
	if err != nil {
		t.Fatalf("get A2: %v", err)
	}
	if f != "=A1+1" {
		t.Fatalf("expected A2 formula preserved, got %q", f)
	}

	_, v, err = st.Cell().Get(ctx, "sheet1", 0, 2)
	if err != nil {
		t.Fatalf("get C1: %v", err)
	}
	if v.Kind != formula.KindBoolean || v.Bool != true {
		t.Fatalf("expected C1=TRUE, got %#v", v)
	}
}

func TestImportCSVSkipsEmptyCells(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	n, err := ImportCSV(ctx, st, "sheet1", strings.NewReader("1,,3\n"))
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 cells imported, got %d", n)
	}
	_, v, err := st.Cell().Get(ctx, "sheet1", 0, 1)
	if err != nil {
		t.Fatalf("get B1: %v", err)
	}
	if v.Kind != formula.KindEmpty {
		t.Fatalf("expected B1 untouched/empty, got %#v", v)
	}
}

func TestImportXLSXStoresValuesAndFormulas(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetCellValue("Sheet1", "A1", 42); err != nil {
		t.Fatalf("set A1: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "hi"); err != nil {
		t.Fatalf("set B1: %v", err)
	}
	if err := f.SetCellFormula("Sheet1", "C1", "A1+1"); err != nil {
		t.Fatalf("set C1 formula: %v", err)
	}

	var buf strings.Builder
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	n, err := ImportXLSX(ctx, st, "sheet1", "Sheet1", strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("import xlsx: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 cells imported, got %d", n)
	}

	_, v, err := st.Cell().Get(ctx, "sheet1", 0, 0)
	if err != nil {
		t.Fatalf("get A1: %v", err)
	}
	if v.Num != 42 {
		t.Fatalf("expected A1=42, got %#v", v)
	}

	fsrc, _, err := st.Cell().Get(ctx, "sheet1", 0, 2)
	if err != nil {
		t.Fatalf("get C1: %v", err)
	}
	if fsrc != "=A1+1" {
		t.Fatalf("expected C1 formula preserved with leading '=', got %q", fsrc)
	}
}
