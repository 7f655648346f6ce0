package formula

import "strings"

// ShiftFormula returns a new AST with every CellRef/RangeRef on the named
// sheet shifted by (rowDelta, colDelta) wherever its address falls at or
// after the insertion/deletion point (row, col) — the standard
// spreadsheet-engine behavior of adjusting formulas when rows or columns
// are inserted or deleted, supplemented per SPEC_FULL.md §9 since spec.md
// itself doesn't mention it. A reference that would be pushed to a
// negative address is replaced with Error(#REF!). Anchored ($) components
// still shift: anchoring (spec §3.1) only suppresses UI fill-handle
// behavior, never structural shifting.
func ShiftFormula(ast Node, sheet string, row, col int, rowDelta, colDelta int) Node {
	if ast == nil {
		return nil
	}
	switch n := ast.(type) {
	case CellRefNode:
		if !n.Resolved || !sheetMatches(n.Sheet, sheet) {
			return n
		}
		addr, ok := shiftAddress(n.Addr, row, col, rowDelta, colDelta)
		if !ok {
			return ErrorNode{Kind: ErrRef}
		}
		return CellRefNode{Addr: addr, Sheet: n.Sheet, Resolved: true}

	case RangeRefNode:
		if !sheetMatches(n.Sheet, sheet) {
			return n
		}
		from, ok1 := shiftAddress(n.Rng.From, row, col, rowDelta, colDelta)
		to, ok2 := shiftAddress(n.Rng.To, row, col, rowDelta, colDelta)
		if !ok1 || !ok2 {
			return ErrorNode{Kind: ErrRef}
		}
		return RangeRefNode{Rng: NewRange(from, to), Sheet: n.Sheet}

	case UnaryOpNode:
		return UnaryOpNode{Op: n.Op, Operand: ShiftFormula(n.Operand, sheet, row, col, rowDelta, colDelta), Postfix: n.Postfix}

	case BinaryOpNode:
		return BinaryOpNode{
			Left:  ShiftFormula(n.Left, sheet, row, col, rowDelta, colDelta),
			Op:    n.Op,
			Right: ShiftFormula(n.Right, sheet, row, col, rowDelta, colDelta),
		}

	case FunctionCallNode:
		return FunctionCallNode{Name: n.Name, Args: shiftAll(n.Args, sheet, row, col, rowDelta, colDelta)}

	case CallExpressionNode:
		return CallExpressionNode{
			Callee: ShiftFormula(n.Callee, sheet, row, col, rowDelta, colDelta),
			Args:   shiftAll(n.Args, sheet, row, col, rowDelta, colDelta),
		}

	case ParenNode:
		return ParenNode{Inner: ShiftFormula(n.Inner, sheet, row, col, rowDelta, colDelta)}

	default:
		// Literals and NameNode carry no addresses to shift.
		return ast
	}
}

func shiftAll(nodes []Node, sheet string, row, col, rowDelta, colDelta int) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = ShiftFormula(n, sheet, row, col, rowDelta, colDelta)
	}
	return out
}

func sheetMatches(nodeSheet, sheet string) bool {
	return strings.EqualFold(nodeSheet, sheet)
}

// shiftAddress applies the insertion/deletion delta to a single address,
// reporting false when the address falls inside a deleted row/column range
// or the shifted result would be negative.
func shiftAddress(addr Address, row, col, rowDelta, colDelta int) (Address, bool) {
	newRow := int(addr.Row)
	newCol := int(addr.Col)

	if rowDelta < 0 && newRow >= row && newRow < row-rowDelta {
		return Address{}, false
	}
	if colDelta < 0 && newCol >= col && newCol < col-colDelta {
		return Address{}, false
	}

	if rowDelta != 0 && newRow >= row {
		newRow += rowDelta
	}
	if colDelta != 0 && newCol >= col {
		newCol += colDelta
	}
	if newRow < 0 || newCol < 0 {
		return Address{}, false
	}
	return Address{Row: uint32(newRow), Col: uint32(newCol)}, true
}
