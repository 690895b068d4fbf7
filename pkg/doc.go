// Package pkg provides the core libraries for termdiag terminal diagrams.
//
// # Overview
//
// termdiag turns diagram documents into text made of Unicode box-drawing
// characters or plain ASCII. The pkg directory is organized into three
// main areas:
//
//  1. Model: [graph] holds the diagram types, [io] decodes and encodes them
//  2. Drawing: [layout], [pathfind], [canvas] and [render] place and draw
//     diagrams, [textwidth] measures terminal cells
//  3. Infrastructure: [pipeline] ties decoding, caching and rendering
//     together; [cache], [observability], [errors] and [buildinfo] support it
//
// # Architecture
//
// The typical data flow through termdiag:
//
//	JSON/TOML document
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [layout] package (layers, coordinates, subgraph bounds)
//	         ↓
//	    [render] package (shapes, A* edge routing, labels)
//	         ↓
//	    text output
//
// Sequence diagrams and pie charts skip layout and are drawn by
// [render/sequence] and [render/pie].
//
// # Quick Start
//
//	doc, err := io.ImportFile("flow.json", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := pipeline.Render(ctx, doc, graph.DefaultRenderOptions())
//	fmt.Println(res.Output)
//
// [graph]: github.com/matzehuels/termdiag/pkg/graph
// [io]: github.com/matzehuels/termdiag/pkg/io
// [layout]: github.com/matzehuels/termdiag/pkg/layout
// [pathfind]: github.com/matzehuels/termdiag/pkg/pathfind
// [canvas]: github.com/matzehuels/termdiag/pkg/canvas
// [render]: github.com/matzehuels/termdiag/pkg/render
// [render/sequence]: github.com/matzehuels/termdiag/pkg/render/sequence
// [render/pie]: github.com/matzehuels/termdiag/pkg/render/pie
// [textwidth]: github.com/matzehuels/termdiag/pkg/textwidth
// [pipeline]: github.com/matzehuels/termdiag/pkg/pipeline
// [cache]: github.com/matzehuels/termdiag/pkg/cache
// [observability]: github.com/matzehuels/termdiag/pkg/observability
// [errors]: github.com/matzehuels/termdiag/pkg/errors
// [buildinfo]: github.com/matzehuels/termdiag/pkg/buildinfo
package pkg
