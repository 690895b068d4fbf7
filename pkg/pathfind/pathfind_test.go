package pathfind

import (
	"reflect"
	"testing"
)

func TestFindPath_Straight(t *testing.T) {
	g := New(10, 3)
	path, ok := g.FindPath(Point{0, 1}, Point{9, 1})
	if !ok {
		t.Fatal("FindPath() = false, want path")
	}
	if len(path) != 10 {
		t.Errorf("len(path) = %d, want 10", len(path))
	}
	for _, p := range path {
		if p.Y != 1 {
			t.Errorf("path left row 1 at %v", p)
		}
	}
}

func TestFindPath_AroundWall(t *testing.T) {
	g := New(10, 10)
	g.BlockRect(5, 0, 1, 8)

	path, ok := g.FindPath(Point{3, 5}, Point{7, 5})
	if !ok {
		t.Fatal("FindPath() = false, want path through gap")
	}
	if path[0] != (Point{3, 5}) || path[len(path)-1] != (Point{7, 5}) {
		t.Errorf("endpoints = %v .. %v", path[0], path[len(path)-1])
	}
	for _, p := range path {
		if p.X == 5 && p.Y < 8 {
			t.Errorf("path crosses wall at %v", p)
		}
	}
	// Optimal: 4 columns across plus 3 rows down and 3 back up.
	if got, want := len(path)-1, 4+3+3; got != want {
		t.Errorf("path length = %d, want %d", got, want)
	}
	assertContiguous(t, path)
}

func TestFindPath_Enclosed(t *testing.T) {
	g := New(7, 7)
	g.BlockFrame(2, 2, 3, 3)

	if _, ok := g.FindPath(Point{0, 0}, Point{3, 3}); ok {
		t.Error("FindPath() into enclosed cell = true, want false")
	}
}

func TestFindPath_BlockedEndpoints(t *testing.T) {
	g := New(5, 5)
	g.Block(Point{4, 4})
	if _, ok := g.FindPath(Point{0, 0}, Point{4, 4}); ok {
		t.Error("FindPath() to blocked goal = true, want false")
	}
	if _, ok := g.FindPath(Point{-1, 0}, Point{2, 2}); ok {
		t.Error("FindPath() from outside grid = true, want false")
	}
	g.Unblock(Point{4, 4})
	if _, ok := g.FindPath(Point{0, 0}, Point{4, 4}); !ok {
		t.Error("FindPath() after Unblock = false, want true")
	}
}

func TestFindPath_SameCell(t *testing.T) {
	g := New(3, 3)
	path, ok := g.FindPath(Point{1, 1}, Point{1, 1})
	if !ok || len(path) != 1 {
		t.Errorf("FindPath(same) = %v, %v", path, ok)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	build := func() *Grid {
		g := New(20, 12)
		g.BlockRect(4, 2, 3, 6)
		g.BlockRect(10, 4, 4, 6)
		return g
	}
	first, ok := build().FindPath(Point{0, 0}, Point{19, 11})
	if !ok {
		t.Fatal("FindPath() = false")
	}
	for i := 0; i < 20; i++ {
		got, _ := build().FindPath(Point{0, 0}, Point{19, 11})
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced a different path", i)
		}
	}
}

func TestPlan(t *testing.T) {
	g := New(10, 10)
	if _, ok := g.Plan(Point{0, 2}, Point{9, 2}).(UseManualRouting); !ok {
		t.Error("Plan(aligned) did not request manual routing")
	}
	r, ok := g.Plan(Point{0, 0}, Point{9, 9}).(PathFound)
	if !ok {
		t.Fatal("Plan(open diagonal) did not find a path")
	}
	if len(r.Cells) != 19 {
		t.Errorf("len(Cells) = %d, want 19", len(r.Cells))
	}

	g.BlockFrame(6, 6, 4, 4)
	if _, ok := g.Plan(Point{0, 0}, Point{7, 7}).(UseManualRouting); !ok {
		t.Error("Plan(enclosed) did not fall back to manual routing")
	}
}

func assertContiguous(t *testing.T, path []Point) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		if manhattan(path[i-1], path[i]) != 1 {
			t.Fatalf("path jumps from %v to %v", path[i-1], path[i])
		}
	}
}
