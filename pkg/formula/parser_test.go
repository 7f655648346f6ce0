package formula

import "testing"

func TestParsePrecedence(t *testing.T) {
	ast, err := ParseFormula("=1+2*3")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	bin, ok := ast.(BinaryOpNode)
	if !ok || bin.Op != "+" {
		t.Fatalf("top node should be '+', got %#v", ast)
	}
	if _, ok := bin.Left.(NumberNode); !ok {
		t.Fatalf("left of + should be a number literal, got %#v", bin.Left)
	}
	right, ok := bin.Right.(BinaryOpNode)
	if !ok || right.Op != "*" {
		t.Fatalf("right of + should be '*', got %#v", bin.Right)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	ast, err := ParseFormula("=2^3^2")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	top, ok := ast.(BinaryOpNode)
	if !ok || top.Op != "^" {
		t.Fatalf("top should be '^', got %#v", ast)
	}
	if _, ok := top.Left.(NumberNode); !ok {
		t.Fatalf("right-assoc: left should be the literal 2, got %#v", top.Left)
	}
	if _, ok := top.Right.(BinaryOpNode); !ok {
		t.Fatalf("right-assoc: right should be the nested 3^2, got %#v", top.Right)
	}
}

func TestParseMinusLeftAssociative(t *testing.T) {
	ast, err := ParseFormula("=10-3-2")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	top, ok := ast.(BinaryOpNode)
	if !ok || top.Op != "-" {
		t.Fatalf("top should be '-', got %#v", ast)
	}
	if _, ok := top.Left.(BinaryOpNode); !ok {
		t.Fatalf("left-assoc: left should be nested 10-3, got %#v", top.Left)
	}
}

func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		"1+2*3",
		"SUM(A1:A3)",
		`IF(A1>5,"big","small")`,
		"-5%",
		"(1+2)*3",
	}
	for _, src := range sources {
		ast, err := ParseFormula(src)
		if err != nil {
			t.Fatalf("ParseFormula(%q): %v", src, err)
		}
		rendered := ast.ToFormulaString()
		reparsed, err := ParseFormula(rendered)
		if err != nil {
			t.Fatalf("re-parsing rendered %q (from %q): %v", rendered, src, err)
		}
		if reparsed.ToFormulaString() != rendered {
			t.Errorf("round trip unstable: %q -> %q -> %q", src, rendered, reparsed.ToFormulaString())
		}
	}
}

func TestParseCellAndRangeReferences(t *testing.T) {
	ast, err := ParseFormula("=A1+SUM(B2:C10)")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	refs := ast.CellReferences()
	if len(refs) != 1+9*2 {
		t.Fatalf("expected 1 + 18 references, got %d: %v", len(refs), refs)
	}
}

func TestParseSheetPrefixedReference(t *testing.T) {
	ast, err := ParseFormula("='Sheet One'!A1")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	ref, ok := ast.(CellRefNode)
	if !ok || ref.Sheet != "Sheet One" {
		t.Fatalf("expected sheet-prefixed CellRefNode, got %#v", ast)
	}
}

func TestParseErrorUnexpectedClosingParen(t *testing.T) {
	_, err := ParseFormula("=1+2)")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Position != 4 {
		t.Errorf("position = %d, want 4", pe.Position)
	}
}

func TestParseErrorMissingClosingParen(t *testing.T) {
	_, err := ParseFormula("=SUM(")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Message == "" {
		t.Fatalf("expected a diagnostic message")
	}
}

func TestParseErrorCaretRendering(t *testing.T) {
	_, err := ParseFormula("=1+2)")
	pe := err.(*ParseError)
	s := pe.String()
	if s == "" {
		t.Fatal("expected non-empty diagnostic string")
	}
}

func TestParseArgumentSeparators(t *testing.T) {
	a, err := ParseFormula("SUM(1,2)")
	if err != nil {
		t.Fatalf("comma separator: %v", err)
	}
	b, err := ParseFormula("SUM(1;2)")
	if err != nil {
		t.Fatalf("semicolon separator: %v", err)
	}
	if a.ToFormulaString() != b.ToFormulaString() {
		t.Errorf("comma and semicolon forms should render identically: %q vs %q", a.ToFormulaString(), b.ToFormulaString())
	}
}

func TestParseDotQualifiedFunctionName(t *testing.T) {
	ast, err := ParseFormula("MODE.SNGL(1,2,3)")
	if err != nil {
		t.Fatalf("ParseFormula: %v", err)
	}
	fc, ok := ast.(FunctionCallNode)
	if !ok || fc.Name != "MODE.SNGL" {
		t.Fatalf("expected dot-qualified function name, got %#v", ast)
	}
}
