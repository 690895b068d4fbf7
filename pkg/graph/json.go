package graph

import (
	"encoding/json"
	"fmt"
)

// wireGraph is the JSON shape of a Graph. Nodes are emitted as a list in
// ID order so identical graphs always encode to identical bytes.
type wireGraph struct {
	Direction Direction             `json:"direction"`
	Nodes     []Node                `json:"nodes"`
	Edges     []Edge                `json:"edges,omitempty"`
	Subgraphs []Subgraph            `json:"subgraphs,omitempty"`
	Classes   map[string]StyleClass `json:"classes,omitempty"`
}

// MarshalJSON encodes the graph with a sorted node list.
func (g *Graph) MarshalJSON() ([]byte, error) {
	w := wireGraph{Direction: g.Direction, Edges: g.Edges, Classes: g.Classes}
	w.Nodes = make([]Node, 0, len(g.Nodes))
	for _, id := range g.SortedNodeIDs() {
		w.Nodes = append(w.Nodes, *g.Nodes[id])
	}
	for _, s := range g.Subgraphs {
		w.Subgraphs = append(w.Subgraphs, *s)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a graph. A missing direction means top to bottom.
// Duplicate node IDs are rejected.
func (g *Graph) UnmarshalJSON(data []byte) error {
	w := wireGraph{Direction: TopBottom}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := New(w.Direction)
	for _, n := range w.Nodes {
		if err := out.AddNode(n); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	out.Edges = w.Edges
	for _, s := range w.Subgraphs {
		out.AddSubgraph(s)
	}
	out.Classes = w.Classes
	*g = *out
	return nil
}
