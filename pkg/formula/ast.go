package formula

import "strings"

// Node is the sealed AST sum (spec §3.4). Every variant is an immutable,
// side-effect-free Go struct; evaluation never mutates a node.
type Node interface {
	// Evaluate reduces the node to a Value against ctx.
	Evaluate(ctx EvaluationContext) Value
	// CellReferences enumerates every scalar address covered by any
	// reference or range contained in the subtree, for dependency
	// extraction only.
	CellReferences() []Address
	// ToFormulaString renders a faithful round-trip of the node, modulo
	// whitespace and anchor markers (anchors are not retained post-parse).
	ToFormulaString() string
}

// NumberNode is a numeric literal.
type NumberNode struct{ Val float64 }

func (n NumberNode) Evaluate(EvaluationContext) Value { return Number(n.Val) }
func (n NumberNode) CellReferences() []Address        { return nil }
func (n NumberNode) ToFormulaString() string          { return FormatNumber(n.Val) }

// TextNode is a string literal.
type TextNode struct{ Val string }

func (n TextNode) Evaluate(EvaluationContext) Value { return Text(n.Val) }
func (n TextNode) CellReferences() []Address        { return nil }
func (n TextNode) ToFormulaString() string {
	return `"` + strings.ReplaceAll(n.Val, `"`, `""`) + `"`
}

// BooleanNode is a TRUE/FALSE literal.
type BooleanNode struct{ Val bool }

func (n BooleanNode) Evaluate(EvaluationContext) Value { return Boolean(n.Val) }
func (n BooleanNode) CellReferences() []Address        { return nil }
func (n BooleanNode) ToFormulaString() string {
	if n.Val {
		return "TRUE"
	}
	return "FALSE"
}

// ErrorNode is one of the nine stable error literals written directly in
// source (e.g. "=#N/A").
type ErrorNode struct{ Kind ErrorKind }

func (n ErrorNode) Evaluate(EvaluationContext) Value { return Err(n.Kind) }
func (n ErrorNode) CellReferences() []Address        { return nil }
func (n ErrorNode) ToFormulaString() string          { return n.Kind.Code() }

// CellRefNode is a single-cell reference. Resolved is false when the
// parser could not turn the source text into an address (producing
// Error(#REF!) at evaluation time rather than a parse failure).
type CellRefNode struct {
	Addr     Address
	Sheet    string
	Resolved bool
}

func (n CellRefNode) Evaluate(ctx EvaluationContext) Value {
	if !n.Resolved {
		return Err(ErrRef)
	}
	return ctx.GetCellValue(n.Addr)
}

func (n CellRefNode) CellReferences() []Address {
	if !n.Resolved {
		return nil
	}
	return []Address{n.Addr}
}

func (n CellRefNode) ToFormulaString() string {
	s := n.Addr.String()
	if n.Sheet != "" {
		return sheetPrefix(n.Sheet) + s
	}
	return s
}

// RangeRefNode is a rectangular range reference.
type RangeRefNode struct {
	Rng   Range
	Sheet string
}

func (n RangeRefNode) Evaluate(ctx EvaluationContext) Value {
	return ctx.GetRangeValues(n.Rng)
}

func (n RangeRefNode) CellReferences() []Address {
	return n.Rng.Addresses()
}

func (n RangeRefNode) ToFormulaString() string {
	s := n.Rng.String()
	if n.Sheet != "" {
		return sheetPrefix(n.Sheet) + s
	}
	return s
}

func sheetPrefix(sheet string) string {
	if strings.ContainsAny(sheet, " '!") {
		return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!"
	}
	return sheet + "!"
}

// NameNode is a bare identifier: a LAMBDA parameter or LET binding.
type NameNode struct{ Ident string }

func (n NameNode) Evaluate(ctx EvaluationContext) Value {
	if v, ok := ctx.GetVariable(n.Ident); ok {
		return v
	}
	return Err(ErrName)
}

func (n NameNode) CellReferences() []Address { return nil }
func (n NameNode) ToFormulaString() string    { return n.Ident }

// UnaryOpNode is a prefix -/+ or postfix % operator application.
type UnaryOpNode struct {
	Op      string
	Operand Node
	Postfix bool
}

func (n UnaryOpNode) Evaluate(ctx EvaluationContext) Value {
	v := n.Operand.Evaluate(ctx)
	if v.IsError() {
		return v
	}
	return applyUnary(n.Op, v)
}

func (n UnaryOpNode) CellReferences() []Address { return n.Operand.CellReferences() }
func (n UnaryOpNode) ToFormulaString() string {
	if n.Postfix {
		return n.Operand.ToFormulaString() + n.Op
	}
	return n.Op + n.Operand.ToFormulaString()
}

// BinaryOpNode is a binary operator application (spec §4.1 precedence
// table determines which nodes get built, not this struct).
type BinaryOpNode struct {
	Left  Node
	Op    string
	Right Node
}

// Evaluate implements the error short-circuit rule of spec §4.2/§8: every
// binary operator except "=" returns the left operand's error without
// evaluating the right operand at all.
func (n BinaryOpNode) Evaluate(ctx EvaluationContext) Value {
	left := n.Left.Evaluate(ctx)
	if left.IsError() && n.Op != "=" {
		return left
	}
	right := n.Right.Evaluate(ctx)
	if right.IsError() && n.Op != "=" {
		return right
	}
	return applyBinary(n.Op, left, right)
}

func (n BinaryOpNode) CellReferences() []Address {
	return append(n.Left.CellReferences(), n.Right.CellReferences()...)
}

func (n BinaryOpNode) ToFormulaString() string {
	return n.Left.ToFormulaString() + n.Op + n.Right.ToFormulaString()
}

// FunctionCallNode invokes a registered function by name (upper-cased at
// construction time, per spec §4.1).
type FunctionCallNode struct {
	Name string
	Args []Node
}

func (n FunctionCallNode) Evaluate(ctx EvaluationContext) Value {
	fn, ok := ctx.GetFunction(n.Name)
	if !ok {
		return Err(ErrName)
	}
	return fn.Invoke(ctx, n.Args)
}

func (n FunctionCallNode) CellReferences() []Address {
	var out []Address
	for _, a := range n.Args {
		out = append(out, a.CellReferences()...)
	}
	return out
}

func (n FunctionCallNode) ToFormulaString() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToFormulaString()
	}
	return n.Name + "(" + strings.Join(parts, ",") + ")"
}

// CallExpressionNode invokes a Function value produced by another
// expression, e.g. LAMBDA(x,x+1)(5) or (f)(5) where f is bound to a LAMBDA.
// A bare name directly followed by '(' parses as a FunctionCallNode instead.
type CallExpressionNode struct {
	Callee Node
	Args   []Node
}

func (n CallExpressionNode) Evaluate(ctx EvaluationContext) Value {
	callee := n.Callee.Evaluate(ctx)
	if callee.IsError() {
		return callee
	}
	if callee.Kind != KindFunction {
		return Err(ErrValue)
	}
	closure := callee.Closure
	if len(n.Args) > len(closure.Params) {
		return Err(ErrValue)
	}
	vars := make(map[string]Value, len(closure.Params))
	for i, p := range closure.Params {
		if i < len(n.Args) {
			vars[p] = n.Args[i].Evaluate(closure.Scope)
		} else {
			vars[p] = Omitted()
		}
	}
	scoped := NewScopedContext(closure.Scope, vars)
	return closure.Body.Evaluate(scoped)
}

func (n CallExpressionNode) CellReferences() []Address {
	out := n.Callee.CellReferences()
	for _, a := range n.Args {
		out = append(out, a.CellReferences()...)
	}
	return out
}

func (n CallExpressionNode) ToFormulaString() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToFormulaString()
	}
	return n.Callee.ToFormulaString() + "(" + strings.Join(parts, ",") + ")"
}

// ParenNode preserves explicit source parentheses for round-tripping; it
// evaluates identically to its inner node.
type ParenNode struct{ Inner Node }

func (n ParenNode) Evaluate(ctx EvaluationContext) Value { return n.Inner.Evaluate(ctx) }
func (n ParenNode) CellReferences() []Address            { return n.Inner.CellReferences() }
func (n ParenNode) ToFormulaString() string              { return "(" + n.Inner.ToFormulaString() + ")" }
