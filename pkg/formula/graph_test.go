package formula

import "testing"

func TestDependencyGraphScenario(t *testing.T) {
	g := NewDependencyGraph()
	a1 := cell(0, 0)
	b1 := cell(1, 0)
	c1 := cell(2, 0)

	g.UpdateDependencies(b1, []Address{a1})
	g.UpdateDependencies(c1, []Address{b1})

	order := g.GetCellsToRecalculate(a1)
	if len(order) != 2 || order[0] != b1 || order[1] != c1 {
		t.Fatalf("GetCellsToRecalculate(A1) = %v, want [B1, C1]", order)
	}
	if g.HasCircularReference(a1) {
		t.Fatal("no cycle should exist yet")
	}

	g.UpdateDependencies(a1, []Address{c1})
	if !g.HasCircularReference(a1) {
		t.Fatal("cycle A1->C1->B1->A1 should now be detected")
	}
}

func TestDependencyGraphBidirectionality(t *testing.T) {
	g := NewDependencyGraph()
	a, b, c := cell(0, 0), cell(1, 0), cell(2, 0)
	g.UpdateDependencies(b, []Address{a, c})

	assertBidirectional(t, g, a, b, true)
	assertBidirectional(t, g, c, b, true)

	g.UpdateDependencies(b, []Address{a})
	assertBidirectional(t, g, a, b, true)
	assertBidirectional(t, g, c, b, false)

	g.RemoveCell(b)
	assertBidirectional(t, g, a, b, false)
}

func assertBidirectional(t *testing.T, g *DependencyGraph, a, b Address, want bool) {
	t.Helper()
	hasDependent := contains(g.GetDependents(a), b)
	hasDependency := contains(g.GetDependencies(b), a)
	if hasDependent != hasDependency {
		t.Fatalf("asymmetric edge between %v and %v: dependents=%v dependencies=%v", a, b, hasDependent, hasDependency)
	}
	if hasDependent != want {
		t.Fatalf("edge %v -> %v presence = %v, want %v", a, b, hasDependent, want)
	}
}

func contains(xs []Address, x Address) bool {
	for _, a := range xs {
		if a == x {
			return true
		}
	}
	return false
}

func TestDependencyGraphUpdateReplacesPriorEdges(t *testing.T) {
	g := NewDependencyGraph()
	a, b, c := cell(0, 0), cell(1, 0), cell(2, 0)
	g.UpdateDependencies(a, []Address{b})
	g.UpdateDependencies(a, []Address{c})
	if contains(g.GetDependencies(a), b) {
		t.Fatal("old dependency b should have been removed")
	}
	if !contains(g.GetDependencies(a), c) {
		t.Fatal("new dependency c should be present")
	}
	if contains(g.GetDependents(b), a) {
		t.Fatal("stale dependents edge for b should be gone")
	}
}

func TestDependencyGraphEmptyDepsRemovesCell(t *testing.T) {
	g := NewDependencyGraph()
	a, b := cell(0, 0), cell(1, 0)
	g.UpdateDependencies(a, []Address{b})
	g.UpdateDependencies(a, nil)
	if len(g.GetDependencies(a)) != 0 {
		t.Fatal("empty newDeps should clear a's dependencies")
	}
	if contains(g.GetDependents(b), a) {
		t.Fatal("b should no longer list a as a dependent")
	}
}

func TestDependencyGraphCycleTolerance(t *testing.T) {
	g := NewDependencyGraph()
	a, b, c := cell(0, 0), cell(1, 0), cell(2, 0)
	// a -> b -> c -> a (a cycle), plus d depends on c.
	d := cell(3, 0)
	g.UpdateDependencies(b, []Address{a})
	g.UpdateDependencies(c, []Address{b})
	g.UpdateDependencies(a, []Address{c})
	g.UpdateDependencies(d, []Address{c})

	order := g.GetCellsToRecalculate(a)
	seen := make(map[Address]int)
	for _, addr := range order {
		seen[addr]++
	}
	for addr, n := range seen {
		if n != 1 {
			t.Fatalf("cell %v appeared %d times, want at most once", addr, n)
		}
	}
}

func TestDependencyGraphUnknownCellsEmpty(t *testing.T) {
	g := NewDependencyGraph()
	unknown := cell(99, 99)
	if len(g.GetDependents(unknown)) != 0 || len(g.GetDependencies(unknown)) != 0 {
		t.Fatal("unknown cell should report empty sets")
	}
	if g.HasCircularReference(unknown) {
		t.Fatal("unknown cell cannot be circular")
	}
}
