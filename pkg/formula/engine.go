package formula

import "sync"

// Engine is the façade described in spec §4.6: a parse cache in front of
// ParseFormula, plus the function registry evaluation goes through.
type Engine struct {
	cache     sync.Map // string -> Node
	functions *Registry
}

// NewEngine returns an Engine seeded with the default function registry
// (see registry.go).
func NewEngine() *Engine {
	return &Engine{functions: DefaultRegistry().CopyWith()}
}

// Parse parses source, caching the result keyed by the exact input
// string. Concurrent parses of the same formula are allowed to race; the
// cache store is idempotent, so either caller's AST is equally valid to
// retain.
func (e *Engine) Parse(source string) (Node, error) {
	if cached, ok := e.cache.Load(source); ok {
		return cached.(Node), nil
	}
	node, err := ParseFormula(source)
	if err != nil {
		return nil, err
	}
	e.cache.Store(source, node)
	return node, nil
}

// TryParse parses source, returning nil instead of an error on failure.
func (e *Engine) TryParse(source string) Node {
	node, err := e.Parse(source)
	if err != nil {
		return nil
	}
	return node
}

// IsValidFormula reports whether source parses without error.
func (e *Engine) IsValidFormula(source string) bool {
	_, err := e.Parse(source)
	return err == nil
}

// Evaluate evaluates an already-parsed AST against ctx.
func (e *Engine) Evaluate(ast Node, ctx EvaluationContext) Value {
	return ast.Evaluate(ctx)
}

// EvaluateString parses (using the cache) and evaluates source in one
// step, surfacing a parse error as Error(#NAME?) is NOT done here: parse
// failures stay exceptional per spec §4.8, so callers must handle err.
func (e *Engine) EvaluateString(source string, ctx EvaluationContext) (Value, error) {
	ast, err := e.Parse(source)
	if err != nil {
		return Value{}, err
	}
	return ast.Evaluate(ctx), nil
}

// GetCellReferences parses source and returns the set of distinct
// addresses referenced anywhere in it, for dependency extraction.
func (e *Engine) GetCellReferences(source string) (map[Address]struct{}, error) {
	ast, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	out := make(map[Address]struct{})
	for _, a := range ast.CellReferences() {
		out[a] = struct{}{}
	}
	return out, nil
}

// RegisterFunction adds fn to the engine's registry.
func (e *Engine) RegisterFunction(fn *FunctionDef) {
	e.functions.Register(fn)
}

// Functions exposes the engine's function registry.
func (e *Engine) Functions() *Registry {
	return e.functions
}

// ClearCache drops every cached parse result.
func (e *Engine) ClearCache() {
	e.cache.Range(func(k, _ any) bool {
		e.cache.Delete(k)
		return true
	})
}
