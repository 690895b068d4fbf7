package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Warning is a non-fatal diagnostic produced by layout or rendering.
// The set of implementations is closed: CycleDetected, LabelDropped and
// UnsupportedFeature.
type Warning interface {
	Kind() string
	String() string
	warning()
}

// Warning kinds.
const (
	KindCycleDetected      = "cycle_detected"
	KindLabelDropped       = "label_dropped"
	KindUnsupportedFeature = "unsupported_feature"
)

// CycleDetected lists the nodes taking part in at least one cycle,
// sorted lexicographically.
type CycleDetected struct {
	Nodes []string `json:"nodes"`
}

// LabelDropped records an edge label moved to the legend.
type LabelDropped struct {
	Marker   string `json:"marker"`
	EdgeFrom string `json:"edge_from"`
	EdgeTo   string `json:"edge_to"`
	Label    string `json:"label"`
}

// UnsupportedFeature records input the producer could not represent.
type UnsupportedFeature struct {
	Feature string `json:"feature"`
	Line    int    `json:"line"`
}

func (CycleDetected) Kind() string      { return KindCycleDetected }
func (LabelDropped) Kind() string       { return KindLabelDropped }
func (UnsupportedFeature) Kind() string { return KindUnsupportedFeature }

func (CycleDetected) warning()      {}
func (LabelDropped) warning()       {}
func (UnsupportedFeature) warning() {}

func (w CycleDetected) String() string {
	return "cycle detected: " + strings.Join(w.Nodes, " -> ")
}

func (w LabelDropped) String() string {
	return fmt.Sprintf("label %q on %s -> %s moved to legend as %s", w.Label, w.EdgeFrom, w.EdgeTo, w.Marker)
}

func (w UnsupportedFeature) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("unsupported feature on line %d: %s", w.Line, w.Feature)
	}
	return "unsupported feature: " + w.Feature
}

// Warnings is an ordered warning list with a kind-tagged JSON encoding:
//
//	[{"kind": "cycle_detected", "nodes": ["a", "b"]}]
type Warnings []Warning

func (ws Warnings) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(ws))
	for _, w := range ws {
		body, err := json.Marshal(w)
		if err != nil {
			return nil, err
		}
		kind, _ := json.Marshal(w.Kind())
		// Splice the kind tag in front of the variant's own fields.
		tagged := append([]byte(`{"kind":`), kind...)
		if len(body) > 2 {
			tagged = append(tagged, ',')
			tagged = append(tagged, body[1:]...)
		} else {
			tagged = append(tagged, '}')
		}
		out = append(out, tagged)
	}
	return json.Marshal(out)
}

func (ws *Warnings) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Warnings, 0, len(raw))
	for i, r := range raw {
		var head struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return fmt.Errorf("warning %d: %w", i, err)
		}
		w, err := decodeWarning(head.Kind, r)
		if err != nil {
			return fmt.Errorf("warning %d: %w", i, err)
		}
		out = append(out, w)
	}
	*ws = out
	return nil
}

func decodeWarning(kind string, r json.RawMessage) (Warning, error) {
	switch kind {
	case KindCycleDetected:
		var v CycleDetected
		err := json.Unmarshal(r, &v)
		return v, err
	case KindLabelDropped:
		var v LabelDropped
		err := json.Unmarshal(r, &v)
		return v, err
	case KindUnsupportedFeature:
		var v UnsupportedFeature
		err := json.Unmarshal(r, &v)
		return v, err
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnknownVariant, kind)
}
