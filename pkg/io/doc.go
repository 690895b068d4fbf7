// Package io reads and writes termdiag documents.
//
// # Overview
//
// A document is a serialized diagram: a flowchart [graph.Graph], a
// [graph.SequenceDiagram] or a [graph.PieChart]. Documents are how the CLI
// and the HTTP API receive diagrams from DSL front ends and other tools.
//
// # Formats
//
// JSON and TOML carry the same fields. A "type" field picks the diagram
// kind and defaults to "flowchart":
//
//	{
//	  "type": "flowchart",
//	  "direction": "LR",
//	  "nodes": [{"id": "a", "label": "Start"}, {"id": "b", "shape": "diamond"}],
//	  "edges": [{"from": "a", "to": "b", "label": "go"}]
//	}
//
// The same flowchart in TOML:
//
//	type = "flowchart"
//	direction = "LR"
//
//	[[nodes]]
//	id = "a"
//	label = "Start"
//
//	[[edges]]
//	from = "a"
//	to = "b"
//
// Sequence documents use "participants", "messages", "title" and
// "autonumber"; pie documents use "slices", "title" and "show_data".
//
// # Import
//
// Use [ReadDocument] to decode from any io.Reader, or [ImportFile] to read a
// file and pick the format from its extension. Decoding failures are
// reported as [errors.ParseError] values carrying a line number. TOML keys
// the decoder does not know become [graph.UnsupportedFeature] warnings.
//
// # Export
//
// [WriteJSON] writes the canonical JSON encoding: nodes sorted by ID, so
// equal documents encode to equal bytes. The pipeline hashes that encoding
// for cache keys.
//
// [WriteDOT] writes a flowchart as Graphviz DOT, and [Layout] runs it
// through Graphviz to add positions.
//
// [errors.ParseError]: github.com/matzehuels/termdiag/pkg/errors.ParseError
package io
