// Package graph defines the intermediate representation shared by every
// termdiag stage.
//
// Producers (DSL parsers, the JSON/TOML readers in pkg/io, callers of the Go
// API) build a [Graph], [SequenceDiagram] or [PieChart]. The layout engine
// then writes node and subgraph coordinates into the [Graph] in place, and the
// renderer reads it to produce text plus a list of [Warning] values.
//
// # Ownership
//
// A Graph has a single owner at a time. Layout mutates it, rendering only
// reads it, and nothing retains it afterwards. There is no package-level
// mutable state, so independent graphs can be processed concurrently.
//
// # Closed variants
//
// [Direction], [Shape], [EdgeStyle] and [ArrowStyle] are small integer enums
// with text encodings ("LR", "cylinder", "dotted_arrow", ...). Renderers
// switch over them exhaustively. [Warning] is a sealed interface implemented
// only by [CycleDetected], [LabelDropped] and [UnsupportedFeature].
//
// # Serialization
//
// Graphs encode to JSON with nodes listed in ID order:
//
//	{
//	  "direction": "LR",
//	  "nodes": [{"id": "a", "label": "Start"}, {"id": "b", "shape": "diamond"}],
//	  "edges": [{"from": "a", "to": "b", "label": "go"}]
//	}
//
// [Warnings] encode as a list of objects tagged with a "kind" field.
package graph
