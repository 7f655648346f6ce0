package formula

import "testing"

func gridContext() *mapContext {
	return newMapContext(map[Address]Value{
		cell(0, 0): Number(10),
		cell(0, 1): Number(20),
		cell(0, 2): Number(30),
		cell(1, 0): Text("x"),
		cell(1, 1): Text("y"),
	})
}

func TestSUM(t *testing.T) {
	ctx := gridContext()
	v := mustEval(t, "=SUM(A1:A3)", ctx)
	if v.Num != 60 {
		t.Errorf("SUM(A1:A3) = %v, want 60", v.Num)
	}
	v = mustEval(t, "=SUM(A1:A3,100)", ctx)
	if v.Num != 160 {
		t.Errorf("SUM(A1:A3,100) = %v, want 160", v.Num)
	}
}

func TestAVERAGE(t *testing.T) {
	ctx := gridContext()
	v := mustEval(t, "=AVERAGE(A1:A3)", ctx)
	if v.Num != 20 {
		t.Errorf("AVERAGE(A1:A3) = %v, want 20", v.Num)
	}
	v = mustEval(t, "=AVERAGE(B1:B2)", ctx) // no numeric cells
	if v.Kind != KindError || v.Err != ErrDivZero {
		t.Errorf("AVERAGE of empty numeric set should be #DIV/0!, got %+v", v)
	}
}

func TestMINMAX(t *testing.T) {
	ctx := gridContext()
	if v := mustEval(t, "=MIN(A1:A3)", ctx); v.Num != 10 {
		t.Errorf("MIN = %v, want 10", v.Num)
	}
	if v := mustEval(t, "=MAX(A1:A3)", ctx); v.Num != 30 {
		t.Errorf("MAX = %v, want 30", v.Num)
	}
}

func TestIFLazyShortCircuit(t *testing.T) {
	ctx := gridContext()
	v := mustEval(t, `=IF(TRUE,"yes","no")`, ctx)
	if v.Str != "yes" {
		t.Errorf("IF(TRUE,...) = %q, want yes", v.Str)
	}
	v = mustEval(t, `=IF(FALSE,"yes")`, ctx)
	if v.Kind != KindBoolean || v.Bool {
		t.Errorf("IF(FALSE,yes) with omitted else should be FALSE, got %+v", v)
	}
}

func TestMATCH(t *testing.T) {
	ctx := newMapContext(map[Address]Value{
		cell(0, 0): Number(10),
		cell(0, 1): Number(20),
		cell(0, 2): Number(30),
	})
	v := mustEval(t, "=MATCH(20,A1:A3,0)", ctx)
	if v.Num != 2 {
		t.Errorf("MATCH exact = %v, want 2", v.Num)
	}
	v = mustEval(t, "=MATCH(25,A1:A3,1)", ctx)
	if v.Num != 2 {
		t.Errorf("MATCH ascending = %v, want 2", v.Num)
	}
	v = mustEval(t, "=MATCH(5,A1:A3,0)", ctx)
	if v.Kind != KindError || v.Err != ErrNA {
		t.Errorf("MATCH not found should give #N/A, got %+v", v)
	}
}

func TestVLOOKUP(t *testing.T) {
	ctx := newMapContext(map[Address]Value{
		cell(0, 0): Number(1), cell(1, 0): Text("one"),
		cell(0, 1): Number(2), cell(1, 1): Text("two"),
		cell(0, 2): Number(3), cell(1, 2): Text("three"),
	})
	v := mustEval(t, "=VLOOKUP(2,A1:B3,2,FALSE)", ctx)
	if v.Str != "two" {
		t.Errorf("VLOOKUP exact = %q, want two", v.Str)
	}
	v = mustEval(t, "=VLOOKUP(5,A1:B3,2,FALSE)", ctx)
	if v.Kind != KindError || v.Err != ErrNA {
		t.Errorf("VLOOKUP not found should be #N/A, got %+v", v)
	}
	v = mustEval(t, "=VLOOKUP(2,A1:B3,5,FALSE)", ctx)
	if v.Kind != KindError || v.Err != ErrRef {
		t.Errorf("VLOOKUP out-of-range column should be #REF!, got %+v", v)
	}
}

func TestIFERRORIFNA(t *testing.T) {
	ctx := gridContext()
	v := mustEval(t, `=IFERROR(1/0,"fallback")`, ctx)
	if v.Str != "fallback" {
		t.Errorf("IFERROR = %q, want fallback", v.Str)
	}
	v = mustEval(t, `=IFNA(NA(),"fallback")`, ctx)
	if v.Str != "fallback" {
		t.Errorf("IFNA = %q, want fallback", v.Str)
	}
	v = mustEval(t, `=IFNA(1/0,"fallback")`, ctx)
	if v.Kind != KindError || v.Err != ErrDivZero {
		t.Errorf("IFNA should not catch #DIV/0!, got %+v", v)
	}
}
