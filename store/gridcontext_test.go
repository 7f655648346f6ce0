package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
	"github.com/go-mizu/blueprints/formulaengine/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
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

func TestSetCellFormulaRecalculatesDependents(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	engine := formula.NewEngine()
	graph := formula.NewDependencyGraph()

	if err := st.Cell().SetValue(ctx, "s1", 0, 0, formula.Number(2)); err != nil {
		t.Fatalf("set A1: %v", err)
	}
	if err := st.Cell().SetValue(ctx, "s1", 1, 0, formula.Number(3)); err != nil {
		t.Fatalf("set A2: %v", err)
	}

	b1 := formula.Address{Row: 0, Col: 1}
	if _, err := store.SetCellFormula(ctx, st, engine, graph, "s1", "s1", b1, "=A1+A2"); err != nil {
		t.Fatalf("set B1 formula: %v", err)
	}
	_, v, err := st.Cell().Get(ctx, "s1", 0, 1)
	if err != nil {
		t.Fatalf("get B1: %v", err)
	}
	if v.Num != 5 {
		t.Fatalf("expected B1=5, got %#v", v)
	}

	c1 := formula.Address{Row: 0, Col: 2}
	if _, err := store.SetCellFormula(ctx, st, engine, graph, "s1", "s1", c1, "=B1*10"); err != nil {
		t.Fatalf("set C1 formula: %v", err)
	}
	_, v, err = st.Cell().Get(ctx, "s1", 0, 2)
	if err != nil {
		t.Fatalf("get C1: %v", err)
	}
	if v.Num != 50 {
		t.Fatalf("expected C1=50, got %#v", v)
	}

	changed, err := store.SetCellFormula(ctx, st, engine, graph, "s1", "s1", formula.Address{Row: 0, Col: 0}, "=10")
	if err != nil {
		t.Fatalf("update A1: %v", err)
	}
	if len(changed) != 3 {
		t.Fatalf("expected A1, B1, and C1 to recalculate, got %v", changed)
	}

	_, v, err = st.Cell().Get(ctx, "s1", 0, 2)
	if err != nil {
		t.Fatalf("get C1 after A1 update: %v", err)
	}
	if v.Num != 130 {
		t.Fatalf("expected C1=130 after propagated recalculation, got %#v", v)
	}
}

func TestGridContextCircularReferenceSurfacesError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	engine := formula.NewEngine()
	graph := formula.NewDependencyGraph()

	a1 := formula.Address{Row: 0, Col: 0}
	b1 := formula.Address{Row: 0, Col: 1}

	if err := st.Cell().SetFormula(ctx, "s1", 0, 1, "=A1"); err != nil {
		t.Fatalf("set B1: %v", err)
	}
	graph.UpdateDependencies(b1, []formula.Address{a1})

	if _, err := store.SetCellFormula(ctx, st, engine, graph, "s1", "s1", a1, "=B1"); err != nil {
		t.Fatalf("set A1: %v", err)
	}

	_, v, err := st.Cell().Get(ctx, "s1", 0, 0)
	if err != nil {
		t.Fatalf("get A1: %v", err)
	}
	if v.Kind != formula.KindError || v.Err != formula.ErrCircular {
		t.Fatalf("expected #CIRCULAR!, got %#v", v)
	}
}

func TestRebuildGraphPopulatesFromStoredFormulas(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	engine := formula.NewEngine()

	if err := st.Cell().SetFormula(ctx, "s1", 0, 1, "=A1+1"); err != nil {
		t.Fatalf("set B1: %v", err)
	}

	graph := formula.NewDependencyGraph()
	if err := store.RebuildGraph(ctx, st, engine, graph, "s1"); err != nil {
		t.Fatalf("rebuild graph: %v", err)
	}

	a1 := formula.Address{Row: 0, Col: 0}
	deps := graph.GetDependents(a1)
	if len(deps) != 1 {
		t.Fatalf("expected B1 to depend on A1, got %v", deps)
	}
}
