package layout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/termdiag/pkg/graph"
)

func build(d graph.Direction, edges ...[2]string) *graph.Graph {
	g := graph.New(d)
	for _, e := range edges {
		g.AddEdge(graph.Edge{From: e[0], To: e[1]})
	}
	return g
}

func cycleNodes(t *testing.T, ws []graph.Warning) []string {
	t.Helper()
	if len(ws) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(ws), ws)
	}
	cd, ok := ws[0].(graph.CycleDetected)
	if !ok {
		t.Fatalf("warning = %T, want CycleDetected", ws[0])
	}
	return cd.Nodes
}

func TestCompute_Cycle(t *testing.T) {
	g := build(graph.LeftRight, [2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"})
	got := cycleNodes(t, Compute(g, graph.DefaultRenderOptions()))
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cycle nodes = %v, want %v", got, want)
	}
	// A is the earliest edge source, so it is forced first.
	if !(g.Node("A").X < g.Node("B").X && g.Node("B").X < g.Node("C").X) {
		t.Errorf("x order A=%d B=%d C=%d, want increasing", g.Node("A").X, g.Node("B").X, g.Node("C").X)
	}
}

func TestCompute_CycleExcludesDownstream(t *testing.T) {
	g := build(graph.TopBottom, [2]string{"A", "B"}, [2]string{"B", "A"}, [2]string{"B", "C"})
	got := cycleNodes(t, Compute(g, graph.DefaultRenderOptions()))
	if want := []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cycle nodes = %v, want %v", got, want)
	}
}

func TestCompute_ForcedTieBreak(t *testing.T) {
	// The first edge starts at Y, so Y is forced even though X sorts first.
	g := build(graph.LeftRight, [2]string{"Y", "X"}, [2]string{"X", "Y"})
	cycleNodes(t, Compute(g, graph.DefaultRenderOptions()))
	layers := Layers(g)
	if layers["Y"] != 0 || layers["X"] != 1 {
		t.Errorf("layers = %v, want Y=0 X=1", layers)
	}
}

func TestCompute_DisjointCycles(t *testing.T) {
	g := build(graph.LeftRight,
		[2]string{"a", "b"}, [2]string{"b", "a"},
		[2]string{"c", "d"}, [2]string{"d", "c"})
	got := cycleNodes(t, Compute(g, graph.DefaultRenderOptions()))
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cycle nodes = %v, want %v", got, want)
	}
}

func TestCompute_Acyclic(t *testing.T) {
	g := build(graph.TopBottom,
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"A", "C"},
		[2]string{"A", "B"}, [2]string{"D", "C"})
	if ws := Compute(g, graph.DefaultRenderOptions()); len(ws) != 0 {
		t.Fatalf("warnings = %v, want none", ws)
	}
	layers := Layers(g)
	for _, e := range g.Edges {
		if layers[e.To] < layers[e.From]+1 {
			t.Errorf("edge %s->%s: layer %d -> %d", e.From, e.To, layers[e.From], layers[e.To])
		}
	}
	if layers["C"] != 2 {
		t.Errorf("layer(C) = %d, want 2", layers["C"])
	}
}

func TestCompute_SelfLoop(t *testing.T) {
	g := build(graph.TopBottom, [2]string{"A", "A"})
	got := cycleNodes(t, Compute(g, graph.DefaultRenderOptions()))
	if want := []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cycle nodes = %v, want %v", got, want)
	}

	// The loop does not push its node down a layer.
	g = build(graph.TopBottom, [2]string{"A", "B"}, [2]string{"B", "B"}, [2]string{"B", "C"})
	got = cycleNodes(t, Compute(g, graph.DefaultRenderOptions()))
	if want := []string{"B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("cycle nodes = %v, want %v", got, want)
	}
	if layers := Layers(g); layers["A"] != 0 || layers["B"] != 1 || layers["C"] != 2 {
		t.Errorf("layers = %v, want A=0 B=1 C=2", layers)
	}
}

func TestCompute_Directions(t *testing.T) {
	tests := []struct {
		dir   graph.Direction
		check func(a, b *graph.Node) bool
	}{
		{graph.LeftRight, func(a, b *graph.Node) bool { return a.X < b.X && a.Y == b.Y }},
		{graph.RightLeft, func(a, b *graph.Node) bool { return a.X > b.X && a.Y == b.Y }},
		{graph.TopBottom, func(a, b *graph.Node) bool { return a.Y < b.Y && a.X == b.X }},
		{graph.BottomTop, func(a, b *graph.Node) bool { return a.Y > b.Y && a.X == b.X }},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			g := build(tt.dir, [2]string{"A", "B"})
			Compute(g, graph.DefaultRenderOptions())
			if a, b := g.Node("A"), g.Node("B"); !tt.check(a, b) {
				t.Errorf("A=(%d,%d) B=(%d,%d)", a.X, a.Y, b.X, b.Y)
			}
		})
	}
}

func TestCompute_Spacing(t *testing.T) {
	g := build(graph.LeftRight, [2]string{"A", "B"})
	opts := graph.DefaultRenderOptions()
	opts.PaddingX = 20
	Compute(g, opts)
	a, b := g.Node("A"), g.Node("B")
	if gap := b.X - (a.X + a.Width); gap != 20 {
		t.Errorf("gap = %d, want 20", gap)
	}
}

func TestCompute_LayerCentering(t *testing.T) {
	g := build(graph.TopBottom, [2]string{"A", "B"}, [2]string{"A", "C"})
	Compute(g, graph.DefaultRenderOptions())
	a, b, c := g.Node("A"), g.Node("B"), g.Node("C")
	if b.Y != c.Y || b.X >= c.X {
		t.Fatalf("B=(%d,%d) C=(%d,%d), want same row with B left", b.X, b.Y, c.X, c.Y)
	}
	layerWidth := c.X + c.Width - b.X
	if want := (layerWidth - a.Width) / 2; a.X != want {
		t.Errorf("A.X = %d, want %d", a.X, want)
	}
}

func TestCompute_MaxWidthShrinksGap(t *testing.T) {
	g := build(graph.LeftRight, [2]string{"A", "B"}, [2]string{"B", "C"})
	opts := graph.DefaultRenderOptions()
	opts.MaxWidth = 21
	Compute(g, opts)
	a, b := g.Node("A"), g.Node("B")
	// Three 5-wide nodes leave 6 cells for two gaps.
	if gap := b.X - (a.X + a.Width); gap != 3 {
		t.Errorf("gap = %d, want 3", gap)
	}

	opts.MaxWidth = 10
	Compute(g, opts)
	if gap := g.Node("B").X - (g.Node("A").X + g.Node("A").Width); gap != minGap {
		t.Errorf("gap = %d, want floor %d", gap, minGap)
	}
}

func TestSizeNode(t *testing.T) {
	tests := []struct {
		name  string
		node  graph.Node
		w, h  int
		bpad  int
	}{
		{"short", graph.Node{Label: "A"}, 5, 3, 1},
		{"label", graph.Node{Label: "Hello World"}, 13, 3, 1},
		{"padding", graph.Node{Label: "Test"}, 10, 3, 3},
		{"wide runes", graph.Node{Label: "日本語"}, 8, 3, 1},
		{"multiline", graph.Node{Label: "one\nthree"}, 7, 4, 1},
		{"cylinder", graph.Node{Label: "db", Shape: graph.Cylinder}, 5, 5, 1},
		{"person", graph.Node{Label: "user", Shape: graph.Person}, 6, 4, 1},
		{"table", graph.Node{Label: "users", Shape: graph.Table, Fields: []graph.TableField{
			{Name: "id", Type: "int", Constraint: "primary_key"},
			{Name: "email", Type: "text"},
		}}, 16, 5, 1},
		{"empty table", graph.Node{Label: "t", Shape: graph.Table}, 5, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			sizeNode(&n, tt.bpad)
			if n.Width != tt.w || n.Height != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", n.Width, n.Height, tt.w, tt.h)
			}
		})
	}
}

func TestCompute_SubgraphBounds(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "A"})
	_ = g.AddNode(graph.Node{ID: "B"})
	g.AddEdge(graph.Edge{From: "A", To: "B"})
	g.AddSubgraph(graph.Subgraph{ID: "inner", Nodes: []string{"B"}, Parent: "outer"})
	g.AddSubgraph(graph.Subgraph{ID: "outer", Nodes: []string{"A"}})
	g.AddSubgraph(graph.Subgraph{ID: "empty"})
	Compute(g, graph.DefaultRenderOptions())

	a, b := g.Node("A"), g.Node("B")
	inner, outer := g.Subgraph("inner"), g.Subgraph("outer")

	if inner.X != b.X-2 || inner.Y != b.Y-3 || inner.Width != b.Width+4 || inner.Height != b.Height+5 {
		t.Errorf("inner = %+v, B = %+v", inner.Rect(), b.Rect())
	}
	if outer.X != min(a.X, inner.X)-2 || outer.Y != min(a.Y, inner.Y)-3 {
		t.Errorf("outer origin = (%d,%d)", outer.X, outer.Y)
	}
	if outer.Rect().Right() != max(a.X+a.Width, inner.Rect().Right())+2 {
		t.Errorf("outer right = %d", outer.Rect().Right())
	}
	if outer.X < 0 || outer.Y < 0 {
		t.Errorf("outer clipped at origin: %+v", outer.Rect())
	}
	if !g.Subgraph("empty").Rect().Empty() {
		t.Errorf("empty subgraph has box %+v", g.Subgraph("empty").Rect())
	}
}

func TestSubgraphBoundsShiftAtOrigin(t *testing.T) {
	g := graph.New(graph.LeftRight)
	_ = g.AddNode(graph.Node{ID: "A", Subgraph: "s"})
	_ = g.AddNode(graph.Node{ID: "B"})
	g.AddSubgraph(graph.Subgraph{ID: "s"})
	a, b := g.Node("A"), g.Node("B")
	a.X, a.Y, a.Width, a.Height = 0, 0, 5, 3
	b.X, b.Y, b.Width, b.Height = 10, 0, 5, 3

	computeSubgraphBounds(g)

	// Frame and every node move together; nothing is clamped.
	s := g.Subgraph("s")
	if s.X != 0 || s.Y != 0 {
		t.Errorf("frame origin = (%d,%d), want (0,0)", s.X, s.Y)
	}
	if a.X != 2 || a.Y != 3 || b.X != 12 || b.Y != 3 {
		t.Errorf("A at (%d,%d), B at (%d,%d), want (2,3) and (12,3)", a.X, a.Y, b.X, b.Y)
	}
	if s.Width != a.Width+4 || s.Height != a.Height+5 {
		t.Errorf("frame = %+v, want A padded by 2 plus a label row", s.Rect())
	}
}

func TestCompute_SubgraphParentCycle(t *testing.T) {
	g := graph.New(graph.TopBottom)
	_ = g.AddNode(graph.Node{ID: "A", Subgraph: "s1"})
	g.AddSubgraph(graph.Subgraph{ID: "s1", Parent: "s2"})
	g.AddSubgraph(graph.Subgraph{ID: "s2", Parent: "s1"})
	Compute(g, graph.DefaultRenderOptions())
	if g.Subgraph("s1").Rect().Empty() {
		t.Error("s1 has no box")
	}
}

func TestCompute_Deterministic(t *testing.T) {
	run := func() []graph.Rect {
		g := build(graph.LeftRight,
			[2]string{"q", "w"}, [2]string{"e", "w"}, [2]string{"w", "r"},
			[2]string{"r", "q"}, [2]string{"t", "y"})
		Compute(g, graph.DefaultRenderOptions())
		var out []graph.Rect
		for _, id := range g.SortedNodeIDs() {
			out = append(out, g.Nodes[id].Rect())
		}
		return out
	}
	first := run()
	for i := 0; i < 20; i++ {
		if got := run(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	g := graph.New(graph.TopBottom)
	if ws := Compute(g, graph.DefaultRenderOptions()); len(ws) != 0 {
		t.Errorf("warnings = %v", ws)
	}
}
