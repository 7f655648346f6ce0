package store

import (
	"context"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
)

// GridContext adapts a Store sheet plus the engine's function registry and
// dependency graph into a formula.EvaluationContext (spec.md §4.5). It
// tracks a per-evaluation "visiting" set so that a cycle reached purely
// through GetCellValue (rather than caught ahead of time by the dependency
// graph) surfaces Error(#CIRCULAR!) as spec.md §4.5 allows.
type GridContext struct {
	ctx       context.Context
	store     Store
	sheetID   string
	sheetName string
	functions *formula.Registry
	engine    *formula.Engine
	graph     *formula.DependencyGraph
	current   formula.Address
	visiting  map[formula.Address]bool
	cancelled func() bool
}

// NewGridContext returns a context evaluating formulas against sheetID,
// using engine's registry for function lookups and graph to detect cycles
// reached through nested cell resolution.
func NewGridContext(ctx context.Context, st Store, engine *formula.Engine, graph *formula.DependencyGraph, sheetID, sheetName string) *GridContext {
	return &GridContext{
		ctx:       ctx,
		store:     st,
		sheetID:   sheetID,
		sheetName: sheetName,
		functions: engine.Functions(),
		engine:    engine,
		graph:     graph,
		visiting:  make(map[formula.Address]bool),
	}
}

// WithCancel sets a cooperative cancellation predicate polled by IsCancelled.
func (g *GridContext) WithCancel(fn func() bool) *GridContext {
	g.cancelled = fn
	return g
}

// forCell returns a shallow copy of g scoped to evaluating addr, inheriting
// the same visiting set so cross-cell recursion is tracked.
func (g *GridContext) forCell(addr formula.Address) *GridContext {
	return &GridContext{
		ctx:       g.ctx,
		store:     g.store,
		sheetID:   g.sheetID,
		sheetName: g.sheetName,
		functions: g.functions,
		engine:    g.engine,
		graph:     g.graph,
		current:   addr,
		visiting:  g.visiting,
		cancelled: g.cancelled,
	}
}

// GetCellValue implements formula.EvaluationContext. A formula cell is
// re-evaluated on demand; a cycle reached this way yields Error(#CIRCULAR!)
// rather than recursing forever.
func (g *GridContext) GetCellValue(addr formula.Address) formula.Value {
	if g.visiting[addr] {
		return formula.Err(formula.ErrCircular)
	}
	formulaSrc, value, err := g.store.Cell().Get(g.ctx, g.sheetID, int(addr.Row), int(addr.Col))
	if err != nil {
		return formula.Err(formula.ErrRef)
	}
	if formulaSrc == "" {
		return value
	}
	ast, err := g.engine.Parse(formulaSrc)
	if err != nil {
		return formula.Err(formula.ErrValue)
	}
	g.visiting[addr] = true
	defer delete(g.visiting, addr)
	return ast.Evaluate(g.forCell(addr))
}

// GetRangeValues implements formula.EvaluationContext.
func (g *GridContext) GetRangeValues(r formula.Range) formula.Value {
	rows := make([][]formula.Value, 0, r.Rows())
	for row := r.From.Row; row <= r.To.Row; row++ {
		line := make([]formula.Value, 0, r.Cols())
		for col := r.From.Col; col <= r.To.Col; col++ {
			line = append(line, g.GetCellValue(formula.Address{Row: row, Col: col}))
		}
		rows = append(rows, line)
	}
	return formula.RangeValue(rows)
}

// GetFunction implements formula.EvaluationContext.
func (g *GridContext) GetFunction(name string) (*formula.FunctionDef, bool) {
	return g.functions.Get(name)
}

// GetVariable implements formula.EvaluationContext. The grid itself has no
// notion of named variables; LAMBDA/LET scoping is layered on top via
// formula.ScopedContext by the evaluator.
func (g *GridContext) GetVariable(string) (formula.Value, bool) {
	return formula.Value{}, false
}

// CurrentCell implements formula.EvaluationContext.
func (g *GridContext) CurrentCell() formula.Address { return g.current }

// CurrentSheet implements formula.EvaluationContext.
func (g *GridContext) CurrentSheet() string { return g.sheetName }

// IsCancelled implements formula.EvaluationContext.
func (g *GridContext) IsCancelled() bool {
	if g.cancelled == nil {
		return false
	}
	return g.cancelled()
}

var _ formula.EvaluationContext = (*GridContext)(nil)

// RecalculateCell evaluates the formula stored at addr (if any), persists
// the result, and returns every transitively dependent cell that was also
// recomputed, in recalculation order (spec.md §4.7).
func RecalculateCell(ctx context.Context, st Store, engine *formula.Engine, graph *formula.DependencyGraph, sheetID, sheetName string, addr formula.Address) ([]formula.Address, error) {
	gc := NewGridContext(ctx, st, engine, graph, sheetID, sheetName)
	if err := evalAndStore(ctx, st, gc, sheetID, addr); err != nil {
		return nil, err
	}
	changed := []formula.Address{addr}
	for _, dep := range graph.GetCellsToRecalculate(addr) {
		gc2 := NewGridContext(ctx, st, engine, graph, sheetID, sheetName)
		if err := evalAndStore(ctx, st, gc2, sheetID, dep); err != nil {
			return changed, err
		}
		changed = append(changed, dep)
	}
	return changed, nil
}

// RebuildGraph populates graph with the dependency edges of every formula
// cell currently stored in sheetID, used after loading a sheet from a
// backend that doesn't persist the in-memory dependency graph (spec.md
// §3.5/§4.7 keep it process-resident by design; §14 excludes cross-restart
// persistence of the graph).
func RebuildGraph(ctx context.Context, st Store, engine *formula.Engine, graph *formula.DependencyGraph, sheetID string) error {
	cells, err := st.Cell().ListFormulaCells(ctx, sheetID)
	if err != nil {
		return err
	}
	for addr, src := range cells {
		ast, err := engine.Parse(src)
		if err != nil {
			graph.UpdateDependencies(addr, nil)
			continue
		}
		graph.UpdateDependencies(addr, ast.CellReferences())
	}
	return nil
}

// SetCellFormula stores a new formula for addr, rewires the dependency
// graph edges to match its cell references, and recalculates addr plus
// every transitive dependent. It returns the full set of recomputed
// addresses, addr first.
func SetCellFormula(ctx context.Context, st Store, engine *formula.Engine, graph *formula.DependencyGraph, sheetID, sheetName string, addr formula.Address, src string) ([]formula.Address, error) {
	if err := st.Cell().SetFormula(ctx, sheetID, int(addr.Row), int(addr.Col), src); err != nil {
		return nil, err
	}
	ast, err := engine.Parse(src)
	if err != nil {
		graph.UpdateDependencies(addr, nil)
		return []formula.Address{addr}, err
	}
	graph.UpdateDependencies(addr, ast.CellReferences())
	return RecalculateCell(ctx, st, engine, graph, sheetID, sheetName, addr)
}

func evalAndStore(ctx context.Context, st Store, gc *GridContext, sheetID string, addr formula.Address) error {
	src, _, err := st.Cell().Get(ctx, sheetID, int(addr.Row), int(addr.Col))
	if err != nil || src == "" {
		return nil
	}
	ast, err := gc.engine.Parse(src)
	if err != nil {
		return st.Cell().SetValue(ctx, sheetID, int(addr.Row), int(addr.Col), formula.Err(formula.ErrValue))
	}
	result := ast.Evaluate(gc.forCell(addr))
	return st.Cell().SetComputed(ctx, sheetID, int(addr.Row), int(addr.Col), src, result)
}
